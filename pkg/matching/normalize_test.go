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

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain_ascii",
			input:    "Jon Smith",
			expected: "jon smith",
		},
		{
			name:     "french_diacritics",
			input:    "José Dupré",
			expected: "jose dupre",
		},
		{
			name:     "german_umlaut_and_eszett",
			input:    "Müller-Groß",
			expected: "muller-gross",
		},
		{
			name:     "nordic_o_slash",
			input:    "Øst",
			expected: "ost",
		},
		{
			name:     "nordic_ae_ligature",
			input:    "Kjær",
			expected: "kjaer",
		},
		{
			name:     "oe_ligature",
			input:    "Cœur",
			expected: "coeur",
		},
		{
			name:     "icelandic_eth_and_thorn",
			input:    "Þórður",
			expected: "thordur",
		},
		{
			name:     "polish_l_stroke",
			input:    "Michał Łach",
			expected: "michal lach",
		},
		{
			name:     "croatian_d_stroke",
			input:    "Đorđe",
			expected: "dorde",
		},
		{
			name:     "uppercase_special_chars",
			input:    "ØST ÆRA",
			expected: "ost aera",
		},
		{
			name:     "surrounding_whitespace",
			input:    "  Anna Meier  ",
			expected: "anna meier",
		},
		{
			name:     "empty_string",
			input:    "",
			expected: "",
		},
		{
			name:     "pure_punctuation",
			input:    "***",
			expected: "***",
		},
		{
			name:     "non_latin_passthrough",
			input:    "山田太郎",
			expected: "山田太郎",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"José Øst",
		"Müller-Groß",
		"  Anna  ",
		"Þórður Łach Đorđe",
		"",
	}

	for _, input := range inputs {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(once), "input %q", input)
	}
}
