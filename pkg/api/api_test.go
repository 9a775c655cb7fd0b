// FWT Dashboard
// Copyright (c) 2026 The FWT Dashboard Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FWT Dashboard.
//
// FWT Dashboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FWT Dashboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FWT Dashboard.  If not, see <http://www.gnu.org/licenses/>.

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	json "github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/cache"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/config"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/database/rowstore"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/matching"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/provider/liveheats"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProvider struct {
	events      []liveheats.Event
	roster      []liveheats.RosterEntry
	eventsErr   error
	rosterErr   error
	eventCalls  atomic.Int64
	rosterCalls atomic.Int64
}

func (f *fakeProvider) OrganisationEvents(_ context.Context) ([]liveheats.Event, error) {
	f.eventCalls.Add(1)
	return f.events, f.eventsErr
}

func (f *fakeProvider) EventRoster(_ context.Context, _ string) ([]liveheats.RosterEntry, error) {
	f.rosterCalls.Add(1)
	return f.roster, f.rosterErr
}

type fakeStore struct {
	roster    []matching.Athlete
	selectErr error
	insertErr error
	inserted  [][]RunRow
}

func (f *fakeStore) SelectRows(_ context.Context, table string, _ rowstore.Query, dest any) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	if table != "athletes" {
		return &rowstore.Error{Message: "unexpected table " + table}
	}
	out, ok := dest.(*[]matching.Athlete)
	if !ok {
		return errors.New("unexpected dest type")
	}
	*out = f.roster
	return nil
}

func (f *fakeStore) InsertRows(_ context.Context, _ string, rows, _ any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rows.([]RunRow))
	return nil
}

const testSecret = "test-jwt-secret"

func newTestServer(t *testing.T, provider EventsProvider, store RowStore) *Server {
	t.Helper()

	defaults := config.BaseDefaults
	defaults.Auth.JWTSecret = testSecret
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)

	return NewServer(cfg, provider, store, cache.New(clockwork.NewFakeClock()))
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "editor-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSeriesGroupsEvents(t *testing.T) {
	provider := &fakeProvider{events: []liveheats.Event{
		{ID: "1", Name: "2024 Verbier Freeride Week by Dynastar Qualifier 2*"},
		{ID: "2", Name: "Open Faces Obertauern Challenger 3*"},
		{ID: "3", Name: "FWT Chamonix Freeride 2024"},
		{ID: "4", Name: "Fieberbrunn Junior Freeride Qualifier 2024"},
	}}
	srv := newTestServer(t, provider, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/series", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SeriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	categories := make([]matching.SeriesCategory, 0, len(resp.Groups))
	for _, group := range resp.Groups {
		categories = append(categories, group.Category)
	}
	assert.Equal(t, []matching.SeriesCategory{
		matching.SeriesProTour,
		matching.SeriesChallenger,
		matching.SeriesQualifier,
		matching.SeriesJunior,
	}, categories)

	require.Len(t, resp.Groups[2].Events, 1)
	qualifier := resp.Groups[2].Events[0]
	assert.Equal(t, "1", qualifier.ID)
	assert.Equal(t, "Verbier", qualifier.Location)
	assert.Equal(t, "verbier freeride week qualifier 2*", qualifier.CanonicalName)
}

func TestSeriesUsesCache(t *testing.T) {
	provider := &fakeProvider{events: []liveheats.Event{
		{ID: "1", Name: "FWT Chamonix Freeride 2024"},
	}}
	srv := newTestServer(t, provider, &fakeStore{})
	router := srv.Router()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/series", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int64(1), provider.eventCalls.Load())
}

func TestSeriesProviderError(t *testing.T) {
	provider := &fakeProvider{eventsErr: errors.New("connection refused")}
	srv := newTestServer(t, provider, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/series", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEventHistory(t *testing.T) {
	provider := &fakeProvider{events: []liveheats.Event{
		{ID: "10", Name: "Xtreme Verbier 2024", Date: "2024-03-20"},
		{ID: "11", Name: "Xtreme Verbier 2023", Date: "2023-03-25"},
		{ID: "12", Name: "Open Faces Obertauern Challenger 3*", Date: "2024-01-12"},
	}}
	srv := newTestServer(t, provider, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/10/history", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "10", resp.Event.ID)
	assert.Equal(t, "Verbier", resp.Event.Location)
	require.Len(t, resp.Previous, 1)
	assert.Equal(t, "11", resp.Previous[0].ID)
}

func TestEventRoster(t *testing.T) {
	provider := &fakeProvider{roster: []liveheats.RosterEntry{
		{AthleteID: "a1", Name: "Johanne Killi", Division: "Ski Women", Bib: "4"},
	}}
	srv := newTestServer(t, provider, &fakeStore{})
	router := srv.Router()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/10/roster", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var roster []liveheats.RosterEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
		require.Len(t, roster, 1)
		assert.Equal(t, "Johanne Killi", roster[0].Name)
	}

	// second request is served from cache
	assert.Equal(t, int64(1), provider.rosterCalls.Load())
}

func TestEventRosterProviderError(t *testing.T) {
	provider := &fakeProvider{rosterErr: errors.New("timeout")}
	srv := newTestServer(t, provider, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/10/roster", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEventHistoryNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/missing/history", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

const importCSV = "rider_name,video_url,section,run_number\n" +
	"Johanne Killi,https://videos.example/killi-r1.mp4,upper,1\n" +
	"Unknown Rider,https://videos.example/unknown.mp4,lower,1\n"

func importRequest(t *testing.T, body ImportRequest) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/import",
		strings.NewReader(string(raw)))
	req.Header.Set("Authorization", bearerToken(t))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestVideoImportDryRun(t *testing.T) {
	store := &fakeStore{roster: []matching.Athlete{
		{ID: "a1", Name: "Johanne Killi"},
	}}
	srv := newTestServer(t, &fakeProvider{}, store)

	req := importRequest(t, ImportRequest{
		EventID: "10",
		Format:  "csv",
		Content: importCSV,
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Zero(t, resp.Imported)
	assert.Equal(t, 1, resp.Skipped)
	assert.Empty(t, store.inserted)

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, matching.MatchTypeExact, resp.Matches[0].MatchType)
	assert.Equal(t, "a1", resp.Matches[0].AthleteID)
	assert.Equal(t, matching.MatchTypeNone, resp.Matches[1].MatchType)
}

func TestVideoImportCommit(t *testing.T) {
	store := &fakeStore{roster: []matching.Athlete{
		{ID: "a1", Name: "Johanne Killi"},
	}}
	srv := newTestServer(t, &fakeProvider{}, store)

	req := importRequest(t, ImportRequest{
		EventID: "10",
		Format:  "csv",
		Content: importCSV,
		Commit:  true,
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Skipped)

	require.Len(t, store.inserted, 1)
	require.Len(t, store.inserted[0], 1)
	row := store.inserted[0][0]
	assert.Equal(t, "10", row.EventID)
	assert.Equal(t, "a1", row.AthleteID)
	assert.Equal(t, "https://videos.example/killi-r1.mp4", row.VideoURL)
	assert.Equal(t, 1, row.RunNumber)
}

func TestVideoImportRequiresAuth(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/import",
		strings.NewReader(`{"eventId":"10","format":"csv","content":"x"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVideoImportRejectsBadRequest(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{}, &fakeStore{})

	tests := []struct {
		name string
		body string
	}{
		{"not_json", "not json at all"},
		{"missing_fields", `{"eventId":"10"}`},
		{"bad_format", `{"eventId":"10","format":"yaml","content":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/import",
				strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearerToken(t))
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestVideoImportRosterError(t *testing.T) {
	store := &fakeStore{selectErr: &rowstore.Error{Message: "permission denied", Status: 403}}
	srv := newTestServer(t, &fakeProvider{}, store)

	req := importRequest(t, ImportRequest{
		EventID: "10",
		Format:  "csv",
		Content: importCSV,
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
