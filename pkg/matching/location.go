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
	"regexp"
	"strings"
	"unicode"
)

// Sentinel results of ExtractLocation and EventLocation. These are UI hints,
// not ground truth: rankings and series-wide records have no venue, and some
// names simply defeat the heuristics.
const (
	LocationGeneric = "Generic"
	LocationUnknown = "Unknown"
	LocationTBD     = "TBD"
)

// locationEntry maps a lowercase substring to its canonical venue name.
type locationEntry struct {
	key      string
	location string
}

// knownLocations is scanned IN ORDER and the first hit wins, so entry order
// is load-bearing. "xtreme" must map to Verbier (the Xtreme Verbier finals
// drop the venue from some season names) and "andorra" to Ordino before any
// broader pattern could claim them. Keep this a slice, never a map.
var knownLocations = []locationEntry{
	{"chamonix", "Chamonix"},
	{"verbier", "Verbier"},
	{"fieberbrunn", "Fieberbrunn"},
	{"kicking horse", "Kicking Horse"},
	{"revelstoke", "Revelstoke"},
	{"xtreme", "Verbier"},
	{"ordino", "Ordino"},
	{"baqueira", "Baqueira"},
	{"obertauern", "Obertauern"},
	{"la clusaz", "La Clusaz"},
	{"andorra", "Ordino"},
}

// nonLocationPatterns identify names that describe rankings, series, or
// categories rather than a venue-bound competition.
var nonLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)world\s+championship`),
	regexp.MustCompile(`(?i)qualifying\s+list`),
	regexp.MustCompile(`(?i)national\s+rankings?`),
	regexp.MustCompile(`(?i)region\s+\d+`),
	regexp.MustCompile(`(?i)freeride'her`),
	regexp.MustCompile(`(?i)challenger\s+by\s+\w+`),
}

// locationExtractionPatterns are positional heuristics tried in order after
// the known-location table misses. Each captures a single candidate word.
var locationExtractionPatterns = []*regexp.Regexp{
	// year then location: "2025 Obertauern ..."
	regexp.MustCompile(`\b20\d{2}\s+([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ'-]+)`),
	// location then year: "... Obertauern 2025"
	regexp.MustCompile(`([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ'-]+)\s+20\d{2}\b`),
	// "Freeride Week at Grandvalira Challenger"
	regexp.MustCompile(`(?i)freeride\s+week\s+(?:at\s+)?([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ'-]+)\s+(?:challenger|qualifier|by)`),
	// "Grandvalira Open", "Open Faces", "<venue> Week"
	regexp.MustCompile(`(?i)([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ'-]+)\s+(?:open|faces|week)\b`),
}

// excludedCaptures rejects captures that are competition vocabulary rather
// than places.
var excludedCaptures = map[string]struct{}{
	"open": {}, "freeride": {}, "week": {}, "by": {}, "faces": {},
	"the": {}, "and": {}, "of": {}, "in": {},
}

// fallbackStopWords rejects fallback words that can never be venues.
var fallbackStopWords = map[string]struct{}{
	"open": {}, "freeride": {}, "week": {}, "faces": {},
	"challenger": {}, "qualifier": {},
}

// ExtractLocation resolves a canonical venue name from an event name.
// It returns LocationGeneric for names matching a known non-location pattern
// and LocationUnknown when every heuristic misses. Callers must treat the
// result as a display hint.
func ExtractLocation(name string) string {
	s := orgPrefixRegex.ReplaceAllString(strings.TrimSpace(name), "")
	if s == "" {
		return LocationUnknown
	}

	for _, pattern := range nonLocationPatterns {
		if pattern.MatchString(s) {
			return LocationGeneric
		}
	}

	lower := strings.ToLower(s)
	for _, entry := range knownLocations {
		if strings.Contains(lower, entry.key) {
			return entry.location
		}
	}

	for _, pattern := range locationExtractionPatterns {
		match := pattern.FindStringSubmatch(s)
		if match == nil {
			continue
		}
		captured := match[1]
		if len(captured) <= 2 {
			continue
		}
		if _, excluded := excludedCaptures[strings.ToLower(captured)]; excluded {
			continue
		}
		return captured
	}

	if word := fallbackLocationWord(s); word != "" {
		return word
	}

	return LocationUnknown
}

// fallbackLocationWord returns the first alphabetic word longer than three
// characters that is not competition vocabulary and not a bare number or
// star-rating token.
func fallbackLocationWord(s string) string {
	for _, word := range strings.Fields(s) {
		if len(word) <= 3 || !isAlphabetic(word) {
			continue
		}
		if _, stop := fallbackStopWords[strings.ToLower(word)]; stop {
			continue
		}
		return word
	}
	return ""
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(word) > 0
}

// EventLocation is the simpler variant used by event-listing formatting:
// names there follow a "<venue> - <rest>" convention, so the left segment of
// the first " - " is the venue. Names without the separator have no venue
// announced yet and read as LocationTBD.
func EventLocation(name string) string {
	if left, _, found := strings.Cut(name, " - "); found {
		if trimmed := strings.TrimSpace(left); trimmed != "" {
			return trimmed
		}
	}
	return LocationTBD
}
