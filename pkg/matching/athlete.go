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
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// MatchType describes how a rider name was reconciled against the roster.
type MatchType string

const (
	MatchTypeExact      MatchType = "exact"
	MatchTypeNormalized MatchType = "normalized"
	MatchTypeNone       MatchType = "none"
)

const (
	// suggestionMinSimilarity filters Jaro-Winkler suggestions for unmatched
	// riders. Suggestions only assist manual review and never promote a
	// match on their own.
	suggestionMinSimilarity = 0.85
	maxSuggestions          = 3
)

// Athlete is a roster record as stored in the athletes table.
type Athlete struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Suggestion is a roster candidate for an unmatched rider, ranked by
// Jaro-Winkler similarity over normalized names.
type Suggestion struct {
	AthleteID   string  `json:"athleteId"`
	AthleteName string  `json:"athleteName"`
	Similarity  float64 `json:"similarity"`
}

// RiderMatch is the reconciliation result for one parsed rider name.
// AthleteID and AthleteName are empty when MatchType is MatchTypeNone.
type RiderMatch struct {
	RiderName   string       `json:"riderName"`
	AthleteID   string       `json:"athleteId,omitempty"`
	AthleteName string       `json:"athleteName,omitempty"`
	MatchType   MatchType    `json:"matchType"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// MatchRiders reconciles free-text rider names from external video metadata
// against the athlete roster. Per rider it tries, in order:
//
//  1. exact raw-string match
//  2. accent/case-insensitive match via NormalizeName
//
// No partial or edit-distance matching decides the outcome: a wrong athlete
// attached to a run is worse than a rider left for manual review. Unmatched
// riders carry up to three ranked suggestions to speed that review up.
//
// Lookup maps are built once per call with last-write-wins on collision;
// duplicate names in the roster are not deduplicated.
func MatchRiders(riderNames []string, roster []Athlete) []RiderMatch {
	exact := make(map[string]Athlete, len(roster))
	normalized := make(map[string]Athlete, len(roster))
	for _, athlete := range roster {
		exact[athlete.Name] = athlete
		normalized[NormalizeName(athlete.Name)] = athlete
	}

	matches := make([]RiderMatch, 0, len(riderNames))
	for _, name := range riderNames {
		match := RiderMatch{RiderName: name, MatchType: MatchTypeNone}

		if athlete, ok := exact[name]; ok {
			match.MatchType = MatchTypeExact
			match.AthleteID = athlete.ID
			match.AthleteName = athlete.Name
		} else if athlete, ok := normalized[NormalizeName(name)]; ok {
			match.MatchType = MatchTypeNormalized
			match.AthleteID = athlete.ID
			match.AthleteName = athlete.Name
		} else {
			match.Suggestions = suggestAthletes(name, roster)
			log.Debug().
				Str("rider", name).
				Int("suggestions", len(match.Suggestions)).
				Msg("rider name unmatched against roster")
		}

		matches = append(matches, match)
	}

	return matches
}

// suggestAthletes ranks roster entries by Jaro-Winkler similarity of the
// normalized names. Jaro-Winkler weights matching prefixes heavily, which
// suits rider names where the given name is usually transcribed correctly
// and the surname carries the typos.
func suggestAthletes(riderName string, roster []Athlete) []Suggestion {
	query := NormalizeName(riderName)
	if query == "" {
		return nil
	}

	var suggestions []Suggestion
	for _, athlete := range roster {
		similarity := float64(edlib.JaroWinklerSimilarity(query, NormalizeName(athlete.Name)))
		if similarity >= suggestionMinSimilarity {
			suggestions = append(suggestions, Suggestion{
				AthleteID:   athlete.ID,
				AthleteName: athlete.Name,
				Similarity:  similarity,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
