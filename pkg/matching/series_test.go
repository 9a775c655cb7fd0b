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

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected SeriesCategory
	}{
		{
			name:     "pro_tour_stop",
			input:    "FWT - Chamonix Freeride Pro 2025",
			expected: SeriesProTour,
		},
		{
			name:     "challenger",
			input:    "Open Faces Obertauern Challenger",
			expected: SeriesChallenger,
		},
		{
			name:     "qualifier",
			input:    "2025 Verbier Freeride Week by Dynastar Qualifier 2*",
			expected: SeriesQualifier,
		},
		{
			name:     "junior_beats_qualifier",
			input:    "Freeride Junior Qualifier Fieberbrunn 3*",
			expected: SeriesJunior,
		},
		{
			name:     "junior_championship",
			input:    "Freeride Junior World Championship 2024",
			expected: SeriesJunior,
		},
		{
			name:     "star_rating_alone_is_pro_tour",
			input:    "Nendaz 4*",
			expected: SeriesProTour,
		},
		{
			name:     "unclassifiable",
			input:    "Season Kickoff Party",
			expected: SeriesOther,
		},
		{
			name:     "empty_string",
			input:    "",
			expected: SeriesOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ClassifyEvent(tt.input))
		})
	}
}
