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

// Package api serves the dashboard HTTP API. All routes live under
// /api/v1; the write endpoint requires a bearer token, the read
// endpoints are rate limited per client IP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/api/middleware"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/cache"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/config"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/database/rowstore"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/provider/liveheats"
)

// EventsProvider is the slice of the results provider the API depends on.
type EventsProvider interface {
	OrganisationEvents(ctx context.Context) ([]liveheats.Event, error)
	EventRoster(ctx context.Context, eventID string) ([]liveheats.RosterEntry, error)
}

// RowStore is the slice of the row store the API depends on.
type RowStore interface {
	SelectRows(ctx context.Context, table string, q rowstore.Query, dest any) error
	InsertRows(ctx context.Context, table string, rows, dest any) error
}

// Server owns the HTTP routes and their backing clients.
type Server struct {
	cfg      *config.Instance
	provider EventsProvider
	store    RowStore
	cache    *cache.Cache
	limiter  *middleware.IPRateLimiter
}

// NewServer wires the API against its provider, row store and cache.
func NewServer(
	cfg *config.Instance,
	provider EventsProvider,
	store RowStore,
	memCache *cache.Cache,
) *Server {
	svc := cfg.Service()
	return &Server{
		cfg:      cfg,
		provider: provider,
		store:    store,
		cache:    memCache,
		limiter:  middleware.NewIPRateLimiter(svc.RateLimitRPM, svc.RateLimitBurst),
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	svc := s.cfg.Service()

	r := chi.NewRouter()
	r.Use(middleware.AssignRequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   svc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(s.limiter))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Get("/series", s.handleSeries)
		r.Get("/events/{id}/history", s.handleEventHistory)
		r.Get("/events/{id}/roster", s.handleEventRoster)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.cfg.Auth().JWTSecret))
			r.Post("/videos/import", s.handleVideoImport)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	svc := s.cfg.Service()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", svc.Host, svc.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.limiter.StartCleanup(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("api server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// cachedEvents returns the provider event list, served from cache while
// fresh. Concurrent cache misses collapse into a single provider call.
func (s *Server) cachedEvents(ctx context.Context) ([]liveheats.Event, error) {
	ttl := time.Duration(s.cfg.Cache().EventTTLSeconds) * time.Second

	raw, err := s.cache.GetOrFetch(ctx, "provider:events", ttl,
		func(ctx context.Context) ([]byte, error) {
			events, err := s.provider.OrganisationEvents(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(events)
		})
	if err != nil {
		return nil, err
	}

	var events []liveheats.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode cached events: %w", err)
	}
	return events, nil
}

var errEventNotFound = errors.New("event not found")

func findEvent(events []liveheats.Event, id string) (liveheats.Event, error) {
	for _, event := range events {
		if event.ID == id {
			return event, nil
		}
	}
	return liveheats.Event{}, errEventNotFound
}
