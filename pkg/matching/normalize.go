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
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// specialCharReplacer handles letters that canonical decomposition leaves
// untouched (they are standalone letters, not base+combining-mark pairs).
// Applied BEFORE decomposition so "Øst" becomes "Ost", not "st".
var specialCharReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
)

// NormalizeName strips diacritics and special characters from a name and
// returns a lowercase, trimmed form suitable for accent-insensitive equality.
//
// Examples:
//   - "José Øst" → "jose ost"
//   - "Müller"   → "muller"
//   - ""         → ""
//
// This function is deterministic and idempotent:
//
//	NormalizeName(NormalizeName(x)) == NormalizeName(x)
func NormalizeName(raw string) string {
	s := specialCharReplacer.Replace(raw)

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		s = normalized
	}

	return strings.ToLower(strings.TrimSpace(s))
}
