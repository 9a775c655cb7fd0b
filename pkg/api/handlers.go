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
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/api/middleware"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/database/rowstore"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/importer"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/matching"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/provider/liveheats"
)

var validate = validator.New()

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toSeriesEvent(event liveheats.Event) SeriesEvent {
	return SeriesEvent{
		ID:            event.ID,
		Name:          event.Name,
		Date:          event.Date,
		Status:        event.Status,
		Location:      matching.ExtractLocation(event.Name),
		CanonicalName: matching.NormalizeEventName(event.Name),
	}
}

// handleSeries lists all provider events grouped by series category, in
// fixed group order so the dashboard can render tabs without sorting.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	events, err := s.cachedEvents(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list provider events")
		writeError(w, http.StatusBadGateway, "results provider unavailable")
		return
	}

	byCategory := make(map[matching.SeriesCategory][]SeriesEvent)
	for _, event := range events {
		category := matching.ClassifyEvent(event.Name)
		byCategory[category] = append(byCategory[category], toSeriesEvent(event))
	}

	order := []matching.SeriesCategory{
		matching.SeriesProTour,
		matching.SeriesChallenger,
		matching.SeriesQualifier,
		matching.SeriesJunior,
		matching.SeriesOther,
	}

	resp := SeriesResponse{Groups: make([]SeriesGroup, 0, len(order))}
	for _, category := range order {
		if events, ok := byCategory[category]; ok {
			resp.Groups = append(resp.Groups, SeriesGroup{
				Category: category,
				Events:   events,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleEventHistory returns the prior editions of one event, found by
// comparing its name against every other provider event.
func (s *Server) handleEventHistory(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	events, err := s.cachedEvents(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list provider events")
		writeError(w, http.StatusBadGateway, "results provider unavailable")
		return
	}

	current, err := findEvent(events, eventID)
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	resp := HistoryResponse{
		Event:    toSeriesEvent(current),
		Previous: []SeriesEvent{},
	}
	for _, candidate := range events {
		if candidate.ID == current.ID {
			continue
		}
		if matching.IsSameEventAcrossTime(current.Name, candidate.Name) {
			resp.Previous = append(resp.Previous, toSeriesEvent(candidate))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleEventRoster proxies the provider's registration list for one event,
// cached separately from the event list since rosters churn on their own.
func (s *Server) handleEventRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	ttl := time.Duration(s.cfg.Cache().AthleteTTLSeconds) * time.Second

	raw, err := s.cache.GetOrFetch(r.Context(), "provider:roster:"+eventID, ttl,
		func(ctx context.Context) ([]byte, error) {
			roster, err := s.provider.EventRoster(ctx, eventID)
			if err != nil {
				return nil, err
			}
			return json.Marshal(roster)
		})
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).
			Msg("failed to fetch event roster")
		writeError(w, http.StatusBadGateway, "results provider unavailable")
		return
	}

	var roster []liveheats.RosterEntry
	if err := json.Unmarshal(raw, &roster); err != nil {
		log.Error().Err(err).Msg("failed to decode cached roster")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if roster == nil {
		roster = []liveheats.RosterEntry{}
	}

	writeJSON(w, http.StatusOK, roster)
}

// handleVideoImport reconciles an uploaded run list against the athlete
// roster. With Commit set, matched runs are inserted into athlete_runs;
// unmatched riders are always skipped, never guessed.
func (s *Server) handleVideoImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "eventId, format (csv|xml) and content are required")
		return
	}

	var (
		runs []importer.RiderRun
		err  error
	)
	switch req.Format {
	case "csv":
		runs, err = importer.ParseCSV(strings.NewReader(req.Content))
	case "xml":
		runs, err = importer.ParseXML(strings.NewReader(req.Content))
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse upload: "+err.Error())
		return
	}

	var roster []matching.Athlete
	query := rowstore.NewQuery().Select("id,name").Eq("event_id", req.EventID)
	if err := s.store.SelectRows(r.Context(), "athletes", query, &roster); err != nil {
		log.Error().Err(err).Str("event_id", req.EventID).
			Msg("failed to load athlete roster")
		writeError(w, http.StatusBadGateway, "athlete roster unavailable")
		return
	}

	matches := matching.MatchRiders(importer.RiderNames(runs), roster)

	matched := make(map[string]string, len(matches))
	for _, match := range matches {
		if match.MatchType != matching.MatchTypeNone {
			matched[match.RiderName] = match.AthleteID
		}
	}

	rows := make([]RunRow, 0, len(runs))
	skipped := 0
	for _, run := range runs {
		athleteID, ok := matched[run.RiderName]
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, RunRow{
			EventID:   req.EventID,
			AthleteID: athleteID,
			VideoURL:  run.VideoURL,
			Section:   run.Section,
			RunNumber: run.RunNumber,
		})
	}

	resp := ImportResponse{Matches: matches, Skipped: skipped}
	if req.Commit && len(rows) > 0 {
		if err := s.store.InsertRows(r.Context(), "athlete_runs", rows, nil); err != nil {
			var storeErr *rowstore.Error
			if errors.As(err, &storeErr) {
				log.Error().Err(storeErr).Str("code", storeErr.Code).
					Msg("failed to insert athlete runs")
			} else {
				log.Error().Err(err).Msg("failed to insert athlete runs")
			}
			writeError(w, http.StatusBadGateway, "failed to store runs")
			return
		}
		resp.Imported = len(rows)
	}

	sub, _ := middleware.Subject(r.Context())
	log.Info().
		Str("event_id", req.EventID).
		Str("subject", sub).
		Int("runs", len(runs)).
		Int("imported", resp.Imported).
		Int("skipped", resp.Skipped).
		Bool("commit", req.Commit).
		Msg("video import processed")

	writeJSON(w, http.StatusOK, resp)
}
