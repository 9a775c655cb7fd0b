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

// Package cache provides an in-memory TTL cache for upstream API responses.
// The hosted deployment fronted this with Redis; the interface here is where
// that would plug back in.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a TTL cache keyed by string. Concurrent misses for the same key
// collapse into a single upstream fetch.
type Cache struct {
	clock   clockwork.Clock
	entries map[string]entry
	group   singleflight.Group
	mu      sync.RWMutex
}

// New creates a Cache using the given clock. Pass clockwork.NewRealClock()
// outside tests.
func New(clock clockwork.Clock) *Cache {
	return &Cache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, or ok=false when absent or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.clock.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetOrFetch returns the cached value for key or runs fetch to populate it.
// Concurrent callers for the same missing key share one fetch invocation.
// Fetch errors are returned to every waiting caller and nothing is cached.
func (c *Cache) GetOrFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetch func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err, shared := c.group.Do(key, func() (any, error) {
		// The key may have been filled between the Get and the Do.
		if cached, ok := c.Get(key); ok {
			return cached, nil
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, fetched, ttl)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug().Str("key", key).Msg("cache fetch shared between callers")
	}

	data, _ := value.([]byte)
	return data, nil
}

// StartJanitor evicts expired entries every interval until ctx is cancelled.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := c.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				c.evictExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *Cache) evictExpired() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
