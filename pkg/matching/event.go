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
)

var (
	orgPrefixRegex = regexp.MustCompile(`(?i)^(FWT\s*-?\s*|IFSA\s*-?\s*)`)
	yearTokenRegex = regexp.MustCompile(`\b20\d{2}\b`)
	// Sponsor clauses read "by Dynastar", "by Peak Performance", etc. and sit
	// either directly before a tier keyword or at the end of the name. RE2 has
	// no lookahead, so the tier keyword is captured and written back.
	sponsorClauseRegex = regexp.MustCompile(
		`\s+by\s+(?:[A-Z][A-Za-z0-9&'.-]*\s*)+?(?:(Qualifier|Challenger|Open|Championship)|$)`,
	)
	starRatingRegex = regexp.MustCompile(`\d+\*`)
)

// sponsorBrands is an ordered list of brand words that prefix event names
// ("Dynastar Verbier Qualifier"). Multi-word brands appear as their parts
// ("peak", "performance", "north", "face") so repeated application strips
// them word by word.
var sponsorBrands = []string{
	"dynastar",
	"salomon",
	"atomic",
	"rossignol",
	"volkl",
	"k2",
	"peak",
	"performance",
	"orage",
	"north",
	"face",
}

// eventTypeKeywords are the competition type markers tested by substring
// presence during facet extraction and similarity scoring. Order is fixed so
// scoring iterates deterministically.
var eventTypeKeywords = []string{
	"qualifier",
	"challenger",
	"open",
	"faces",
	"week",
	"championship",
	"freeride",
}

// minFacetWordLen filters connective noise ("by", "at", "2*") out of the
// word facet.
const minFacetWordLen = 2

// FacetSet holds the structured attributes extracted from a canonical event
// name, used for component-wise similarity scoring.
type FacetSet struct {
	// Words is the set of space-split tokens longer than two characters.
	Words map[string]struct{}
	// EventTypeFlags is the set of eventTypeKeywords present as substrings.
	EventTypeFlags map[string]struct{}
	// LocationHint is the canonical location when the known-location table
	// resolves one, otherwise empty. Best-effort, display use only.
	LocationHint string
	// StarRating is the ordered sequence of "N*" tier markers. Compared for
	// exact equality, never as a set: ["2*"] != ["3*"].
	StarRating []string
	// Junior is tracked separately from EventTypeFlags.
	Junior bool
}

// NormalizeEventName reduces a competition name to its canonical comparable
// form through six ordered stages: trim, organization prefix ("FWT - ",
// "IFSA "), year tokens, trailing "by <Sponsor>" clause (tier keyword
// retained), leading sponsor brand on 3+ word names, then whitespace
// collapse and lowercasing. Deterministic and idempotent:
//
//	NormalizeEventName("2025 Verbier Freeride Week by Dynastar Qualifier 2*")
//	  == "verbier freeride week qualifier 2*"
//
// It never fails: names without any recognized pattern pass through stages
// unchanged apart from whitespace collapse and lowercasing.
func NormalizeEventName(name string) string {
	// Stage 1: Trim
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	// Stage 2: Organization Prefix Stripping
	s = orgPrefixRegex.ReplaceAllString(s, "")

	// Stage 3: Year Token Stripping (anywhere in the string, not just leading)
	s = yearTokenRegex.ReplaceAllString(s, " ")

	// Stage 4: Sponsor Clause Stripping (tier keyword retained)
	s = sponsorClauseRegex.ReplaceAllString(s, " $1")

	// Stage 5: Leading Sponsor Brand Stripping
	words := strings.Fields(s)
	if len(words) > 2 && isSponsorBrand(words[0]) {
		words = words[1:]
	}

	// Stage 6: Whitespace Collapse + Lowercase
	return strings.ToLower(strings.Join(words, " "))
}

func isSponsorBrand(word string) bool {
	lower := strings.ToLower(word)
	for _, brand := range sponsorBrands {
		if lower == brand {
			return true
		}
	}
	return false
}

// ExtractFacets derives the FacetSet of an event name. The input may be raw
// or already canonical; normalization is idempotent so both yield identical
// facets. Absence of any pattern yields empty facets, never an error.
func ExtractFacets(name string) FacetSet {
	canonical := NormalizeEventName(name)

	facets := FacetSet{
		Words:          make(map[string]struct{}),
		EventTypeFlags: make(map[string]struct{}),
		StarRating:     starRatingRegex.FindAllString(canonical, -1),
	}

	for _, word := range strings.Fields(canonical) {
		if len(word) > minFacetWordLen {
			facets.Words[word] = struct{}{}
		}
	}

	for _, keyword := range eventTypeKeywords {
		if strings.Contains(canonical, keyword) {
			facets.EventTypeFlags[keyword] = struct{}{}
		}
	}

	facets.Junior = strings.Contains(canonical, "junior")

	if loc := ExtractLocation(name); loc != LocationGeneric && loc != LocationUnknown {
		facets.LocationHint = loc
	}

	return facets
}
