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

// Package liveheats is the GraphQL client for the third-party results
// provider. It owns the wire queries; response shapes are re-exported as
// plain structs so callers never see GraphQL.
package liveheats

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/config"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/shared/httpclient"
	json "github.com/goccy/go-json"
)

// Event is a competition as listed by the provider.
type Event struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// RosterEntry is one registered athlete in an event division.
type RosterEntry struct {
	AthleteID string `json:"athleteId"`
	Name      string `json:"name"`
	Division  string `json:"division"`
	Bib       string `json:"bib"`
}

const organisationEventsQuery = `query organisationEvents($shortName: String!) {
  organisationByShortName(shortName: $shortName) {
    events {
      id
      name
      date
      status
    }
  }
}`

const eventRosterQuery = `query eventRoster($id: ID!) {
  event(id: $id) {
    eventDivisions {
      division { name }
      entries {
        bib
        athlete { id name }
      }
    }
  }
}`

// Client speaks GraphQL-over-HTTP to the results provider.
type Client struct {
	http      *http.Client
	url       string
	shortName string
}

// New creates a Client from the provider config section. shortName selects
// the organisation whose events are proxied.
func New(cfg config.Provider, shortName string) *Client {
	return &Client{
		url:       cfg.URL,
		shortName: shortName,
		http:      httpclient.New(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
}

// OrganisationEvents lists every event of the configured organisation,
// newest first as returned by the provider.
func (c *Client) OrganisationEvents(ctx context.Context) ([]Event, error) {
	var payload struct {
		OrganisationByShortName struct {
			Events []Event `json:"events"`
		} `json:"organisationByShortName"`
	}

	vars := map[string]any{"shortName": c.shortName}
	if err := c.query(ctx, organisationEventsQuery, vars, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch organisation events: %w", err)
	}
	return payload.OrganisationByShortName.Events, nil
}

// EventRoster returns the registered athletes of an event across all
// divisions.
func (c *Client) EventRoster(ctx context.Context, eventID string) ([]RosterEntry, error) {
	var payload struct {
		Event struct {
			EventDivisions []struct {
				Division struct {
					Name string `json:"name"`
				} `json:"division"`
				Entries []struct {
					Bib     string `json:"bib"`
					Athlete struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"athlete"`
				} `json:"entries"`
			} `json:"eventDivisions"`
		} `json:"event"`
	}

	vars := map[string]any{"id": eventID}
	if err := c.query(ctx, eventRosterQuery, vars, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch event roster: %w", err)
	}

	var roster []RosterEntry
	for _, division := range payload.Event.EventDivisions {
		for _, entry := range division.Entries {
			roster = append(roster, RosterEntry{
				AthleteID: entry.Athlete.ID,
				Name:      entry.Athlete.Name,
				Division:  division.Division.Name,
				Bib:       entry.Bib,
			})
		}
	}
	return roster, nil
}

type graphqlError struct {
	Message string `json:"message"`
}

// query posts a GraphQL request and decodes data into dest. Provider-side
// errors arrive with HTTP 200 and a non-empty errors array.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, dest any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": vars,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("provider error: %s", envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("failed to decode provider data: %w", err)
	}
	return nil
}
