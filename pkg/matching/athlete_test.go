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
	"github.com/stretchr/testify/require"
)

func TestMatchRiders(t *testing.T) {
	t.Parallel()

	roster := []Athlete{
		{ID: "a1", Name: "Jose Ost"},
		{ID: "a2", Name: "Marion Haerty"},
		{ID: "a3", Name: "Max Müller"},
	}

	t.Run("exact_match", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"Marion Haerty"}, roster)

		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeExact, matches[0].MatchType)
		assert.Equal(t, "a2", matches[0].AthleteID)
		assert.Equal(t, "Marion Haerty", matches[0].AthleteName)
		assert.Empty(t, matches[0].Suggestions)
	})

	t.Run("normalized_match_beats_none_not_exact", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"José Øst"}, roster)

		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeNormalized, matches[0].MatchType)
		assert.Equal(t, "a1", matches[0].AthleteID)
		assert.Equal(t, "Jose Ost", matches[0].AthleteName)
	})

	t.Run("accented_roster_entry_matches_plain_input", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"max muller"}, roster)

		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeNormalized, matches[0].MatchType)
		assert.Equal(t, "a3", matches[0].AthleteID)
	})

	t.Run("no_match", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"Completely Unknown Rider"}, roster)

		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeNone, matches[0].MatchType)
		assert.Empty(t, matches[0].AthleteID)
		assert.Empty(t, matches[0].AthleteName)
	})

	t.Run("near_miss_yields_suggestions_not_a_match", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"Marion Hearty"}, roster)

		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeNone, matches[0].MatchType)
		require.NotEmpty(t, matches[0].Suggestions)
		assert.Equal(t, "a2", matches[0].Suggestions[0].AthleteID)
	})

	t.Run("result_order_follows_input_order", func(t *testing.T) {
		t.Parallel()
		matches := MatchRiders([]string{"Jose Ost", "Nobody", "Marion Haerty"}, roster)

		require.Len(t, matches, 3)
		assert.Equal(t, "Jose Ost", matches[0].RiderName)
		assert.Equal(t, "Nobody", matches[1].RiderName)
		assert.Equal(t, "Marion Haerty", matches[2].RiderName)
	})

	t.Run("empty_inputs", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, MatchRiders(nil, roster))

		matches := MatchRiders([]string{"Anyone"}, nil)
		require.Len(t, matches, 1)
		assert.Equal(t, MatchTypeNone, matches[0].MatchType)
	})
}

// TestMatchRidersLastWriteWins pins the known limitation: duplicate
// normalized names in the roster are not deduplicated and the last roster
// entry wins the lookup slot.
func TestMatchRidersLastWriteWins(t *testing.T) {
	t.Parallel()

	roster := []Athlete{
		{ID: "a1", Name: "Jose Ost"},
		{ID: "a2", Name: "José Øst"},
	}

	matches := MatchRiders([]string{"jose ost"}, roster)
	require.Len(t, matches, 1)
	assert.Equal(t, MatchTypeNormalized, matches[0].MatchType)
	assert.Equal(t, "a2", matches[0].AthleteID)
}
