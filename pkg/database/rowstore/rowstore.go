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

// Package rowstore is a generic client for the hosted Postgres-over-REST
// service (PostgREST dialect). Tables are plain row collections here;
// business rules live with the callers.
package rowstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/config"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/shared/httpclient"
	json "github.com/goccy/go-json"
)

// keyTransport attaches the service-role key and schema profile headers to
// every request.
type keyTransport struct {
	base   http.RoundTripper
	apiKey string
	schema string
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey != "" {
		req.Header.Set("apikey", t.apiKey)
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if t.schema != "" {
		if req.Method == http.MethodGet || req.Method == http.MethodHead {
			req.Header.Set("Accept-Profile", t.schema)
		} else {
			req.Header.Set("Content-Profile", t.schema)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// Client issues row operations against the REST service.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a Client from the Supabase config section.
func New(cfg config.Supabase) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: httpclient.NewWithTransport(&keyTransport{
			base:   httpclient.PooledTransport,
			apiKey: cfg.ServiceKey,
			schema: cfg.Schema,
		}),
	}
}

// Error is a failed row operation. PostgREST reports a JSON body with
// message/code/details, preserved here for logging.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rowstore: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("rowstore: status %d", e.Status)
}

type filter struct {
	column string
	op     string
	value  string
}

// Query builds PostgREST query parameters. The zero value selects all rows
// and columns.
type Query struct {
	selectCols string
	order      string
	filters    []filter
	limit      int
}

func NewQuery() Query { return Query{} }

// Select restricts returned columns, e.g. "id,name".
func (q Query) Select(cols string) Query {
	q.selectCols = cols
	return q
}

// Eq adds an equality filter on column.
func (q Query) Eq(column string, value any) Query {
	q.filters = append(q.filters, filter{column, "eq", fmt.Sprint(value)})
	return q
}

// In adds a membership filter on column.
func (q Query) In(column string, values ...string) Query {
	q.filters = append(q.filters, filter{column, "in", "(" + strings.Join(values, ",") + ")"})
	return q
}

// Gte adds a greater-or-equal filter on column.
func (q Query) Gte(column string, value any) Query {
	q.filters = append(q.filters, filter{column, "gte", fmt.Sprint(value)})
	return q
}

// Order sorts by column; descending when desc is true.
func (q Query) Order(column string, desc bool) Query {
	if desc {
		q.order = column + ".desc"
	} else {
		q.order = column + ".asc"
	}
	return q
}

// Limit caps the number of returned rows.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

func (q Query) encode() string {
	params := url.Values{}
	if q.selectCols != "" {
		params.Set("select", q.selectCols)
	}
	for _, f := range q.filters {
		params.Set(f.column, f.op+"."+f.value)
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return params.Encode()
}

// SelectRows fetches rows from table into dest (a pointer to a slice).
func (c *Client) SelectRows(ctx context.Context, table string, q Query, dest any) error {
	return c.do(ctx, http.MethodGet, table, q, nil, nil, dest)
}

// InsertRows inserts rows (a struct, map, or slice of either) into table.
// When dest is non-nil the inserted representation is decoded into it.
func (c *Client) InsertRows(ctx context.Context, table string, rows, dest any) error {
	headers := http.Header{}
	if dest != nil {
		headers.Set("Prefer", "return=representation")
	}
	return c.do(ctx, http.MethodPost, table, Query{}, rows, headers, dest)
}

// UpdateRows patches the rows selected by q with the non-zero fields of patch.
func (c *Client) UpdateRows(ctx context.Context, table string, q Query, patch, dest any) error {
	headers := http.Header{}
	if dest != nil {
		headers.Set("Prefer", "return=representation")
	}
	return c.do(ctx, http.MethodPatch, table, q, patch, headers, dest)
}

// UpsertRows inserts rows, merging on conflict with existing primary keys.
func (c *Client) UpsertRows(ctx context.Context, table string, rows, dest any) error {
	headers := http.Header{}
	prefer := "resolution=merge-duplicates"
	if dest != nil {
		prefer += ",return=representation"
	}
	headers.Set("Prefer", prefer)
	return c.do(ctx, http.MethodPost, table, Query{}, rows, headers, dest)
}

// DeleteRows removes the rows selected by q. Callers must pass a filtered
// query; deleting a whole table is rejected.
func (c *Client) DeleteRows(ctx context.Context, table string, q Query) error {
	if len(q.filters) == 0 {
		return &Error{Message: "refusing unfiltered delete on " + table, Status: http.StatusBadRequest}
	}
	return c.do(ctx, http.MethodDelete, table, q, nil, nil, nil)
}

// RPC calls a Postgres function exposed under /rpc with args as the JSON
// body, decoding the result into dest when non-nil.
func (c *Client) RPC(ctx context.Context, fn string, args, dest any) error {
	return c.do(ctx, http.MethodPost, "rpc/"+fn, Query{}, args, nil, dest)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	q Query,
	body any,
	headers http.Header,
	dest any,
) error {
	endpoint := c.baseURL + "/" + path
	if encoded := q.encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		storeErr := &Error{Status: resp.StatusCode}
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			// Best effort; non-JSON bodies leave the message empty.
			_ = json.Unmarshal(data, storeErr)
		}
		return storeErr
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
