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
	"github.com/rs/zerolog/log"
)

// Component weights of the similarity score. The denominator is the fixed
// sum of all weights (9), never reduced when a component is empty on both
// sides; the 0.85 historical-match threshold is calibrated against it.
const (
	wordOverlapWeight    = 4.0
	starRatingWeight     = 2.0
	eventTypeWeight      = 2.0
	booleanFeatureWeight = 1.0
	totalWeight          = wordOverlapWeight + starRatingWeight + eventTypeWeight + booleanFeatureWeight
)

// booleanFeatureKeywords are the six presence flags compared pairwise for
// the boolean agreement component. Championship is not part of this set; it
// is only counted in the event-type overlap.
var booleanFeatureKeywords = []string{
	"qualifier",
	"challenger",
	"open",
	"faces",
	"week",
	"freeride",
}

// EventSimilarity computes a weighted similarity in [0,1] between two
// canonical event names:
//
//	word overlap      (weight 4): Jaccard of word facet sets
//	star rating       (weight 2): all-or-nothing ordered sequence equality
//	event-type overlap (weight 2): Jaccard of type keyword sets
//	boolean agreement (weight 1): fraction of six presence flags that agree
//
// Inputs may be raw names; facet extraction normalizes internally and
// normalization is idempotent. Pure and symmetric.
func EventSimilarity(a, b string) float64 {
	facetsA := ExtractFacets(a)
	facetsB := ExtractFacets(b)

	score := wordOverlapWeight * jaccard(facetsA.Words, facetsB.Words)

	if starRatingsEqual(facetsA.StarRating, facetsB.StarRating) {
		score += starRatingWeight
	}

	score += eventTypeWeight * jaccard(facetsA.EventTypeFlags, facetsB.EventTypeFlags)

	agreements := 0
	for _, keyword := range booleanFeatureKeywords {
		_, inA := facetsA.EventTypeFlags[keyword]
		_, inB := facetsB.EventTypeFlags[keyword]
		if inA == inB {
			agreements++
		}
	}
	score += booleanFeatureWeight * float64(agreements) / float64(len(booleanFeatureKeywords))

	similarity := score / totalWeight

	if similarity > 0.7 && similarity <= historicalMatchThreshold {
		log.Debug().
			Str("a", a).
			Str("b", b).
			Float64("similarity", similarity).
			Msg("event similarity below match threshold")
	}

	return similarity
}

// jaccard computes |A∩B| / |A∪B|, defined as 0 when either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for key := range a {
		if _, ok := b[key]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// starRatingsEqual compares the ordered tier sequences for exact equality.
// Two names without any star rating are equal (both empty).
func starRatingsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
