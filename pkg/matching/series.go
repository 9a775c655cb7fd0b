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

// SeriesCategory groups events for the series listing.
type SeriesCategory string

const (
	SeriesProTour    SeriesCategory = "pro_tour"
	SeriesChallenger SeriesCategory = "challenger"
	SeriesQualifier  SeriesCategory = "qualifier"
	SeriesJunior     SeriesCategory = "junior"
	SeriesOther      SeriesCategory = "other"
)

// ClassifyEvent derives the series category of an event name from its
// facets. Junior is checked first: junior events also carry a tier keyword
// ("Freeride Junior Qualifier") and would otherwise land in that tier.
// Tour stops carry neither qualifier nor challenger, so names with a
// recognized competition keyword or star rating default to the pro tour.
func ClassifyEvent(name string) SeriesCategory {
	facets := ExtractFacets(name)

	if facets.Junior {
		return SeriesJunior
	}
	if _, ok := facets.EventTypeFlags["challenger"]; ok {
		return SeriesChallenger
	}
	if _, ok := facets.EventTypeFlags["qualifier"]; ok {
		return SeriesQualifier
	}
	if len(facets.EventTypeFlags) > 0 || len(facets.StarRating) > 0 {
		return SeriesProTour
	}
	return SeriesOther
}
