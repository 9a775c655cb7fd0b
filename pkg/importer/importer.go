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

// Package importer parses externally produced video run metadata (CSV run
// sheets, XML sidecar files) into rider runs for roster reconciliation.
package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// RiderRun is one video run attributed to a free-text rider name. The name
// is whatever the editing tool emitted; reconciliation against the athlete
// roster happens downstream.
type RiderRun struct {
	RiderName string `csv:"rider_name"`
	VideoURL  string `csv:"video_url"`
	Section   string `csv:"section"`
	RunNumber int    `csv:"run_number"`
}

// ParseCSV reads a run sheet. The header row is required; unknown columns
// are ignored so editors can keep their own bookkeeping columns.
func ParseCSV(r io.Reader) ([]RiderRun, error) {
	var runs []RiderRun
	if err := gocsv.Unmarshal(r, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse run sheet CSV: %w", err)
	}
	return validRuns(runs), nil
}

type xmlRun struct {
	Rider   string `xml:"rider"`
	Number  int    `xml:"number"`
	Section string `xml:"section"`
	Video   struct {
		URL string `xml:"url,attr"`
	} `xml:"video"`
}

type xmlRunList struct {
	XMLName xml.Name `xml:"runs"`
	Runs    []xmlRun `xml:"run"`
}

// ParseXML reads an XML sidecar file in the <runs><run>...</run></runs>
// shape used by the highlight export tool.
func ParseXML(r io.Reader) ([]RiderRun, error) {
	var list xmlRunList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse run metadata XML: %w", err)
	}

	runs := make([]RiderRun, 0, len(list.Runs))
	for _, run := range list.Runs {
		runs = append(runs, RiderRun{
			RiderName: run.Rider,
			RunNumber: run.Number,
			Section:   run.Section,
			VideoURL:  run.Video.URL,
		})
	}
	return validRuns(runs), nil
}

// validRuns drops rows without a rider name; those are section markers or
// editor scratch rows, not runs.
func validRuns(runs []RiderRun) []RiderRun {
	valid := runs[:0]
	for _, run := range runs {
		run.RiderName = strings.TrimSpace(run.RiderName)
		if run.RiderName != "" {
			valid = append(valid, run)
		}
	}
	return valid
}

// RiderNames returns the distinct rider names of runs in first-seen order.
func RiderNames(runs []RiderRun) []string {
	seen := make(map[string]struct{}, len(runs))
	names := make([]string, 0, len(runs))
	for _, run := range runs {
		if _, ok := seen[run.RiderName]; ok {
			continue
		}
		seen[run.RiderName] = struct{}{}
		names = append(names, run.RiderName)
	}
	return names
}
