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
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/matching"
)

// SeriesEvent is one provider event enriched with derived identity fields.
type SeriesEvent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	Location      string `json:"location"`
	CanonicalName string `json:"canonicalName"`
}

// SeriesGroup collects the events of one series category.
type SeriesGroup struct {
	Category matching.SeriesCategory `json:"category"`
	Events   []SeriesEvent           `json:"events"`
}

// SeriesResponse is the payload of GET /api/v1/series.
type SeriesResponse struct {
	Groups []SeriesGroup `json:"groups"`
}

// HistoryResponse is the payload of GET /api/v1/events/{id}/history.
type HistoryResponse struct {
	Event    SeriesEvent   `json:"event"`
	Previous []SeriesEvent `json:"previous"`
}

// ImportRequest is the body of POST /api/v1/videos/import. Content holds
// the raw CSV or XML document; Commit false runs a dry-run match only.
type ImportRequest struct {
	EventID string `json:"eventId" validate:"required"`
	Format  string `json:"format" validate:"required,oneof=csv xml"`
	Content string `json:"content" validate:"required"`
	Commit  bool   `json:"commit"`
}

// ImportResponse reports match outcomes per rider named in the upload.
type ImportResponse struct {
	Matches  []matching.RiderMatch `json:"matches"`
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
}

// RunRow is one video run as stored in the athlete_runs table.
type RunRow struct {
	EventID   string `json:"event_id"`
	AthleteID string `json:"athlete_id"`
	VideoURL  string `json:"video_url"`
	Section   string `json:"section,omitempty"`
	RunNumber int    `json:"run_number,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
