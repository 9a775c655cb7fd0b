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

// historicalMatchThreshold is the similarity above which two differently
// named events are judged to be the same recurring competition. Calibrated
// against the fixed-denominator scoring in EventSimilarity.
const historicalMatchThreshold = 0.85

// IsSameEventAcrossTime decides whether two event names refer to the same
// recurring competition in different seasons.
//
// Identical raw strings return false: the same record is not "historical"
// relative to itself, and the guard keeps an event out of its own history
// listing. Equal canonical forms return true immediately; otherwise the
// similarity score decides.
//
// Pure and total; symmetric because EventSimilarity is symmetric.
func IsSameEventAcrossTime(current, historical string) bool {
	if current == historical {
		return false
	}

	if NormalizeEventName(current) == NormalizeEventName(historical) {
		return true
	}

	return EventSimilarity(current, historical) > historicalMatchThreshold
}
