// Package cache provides the per-organization read-through cache of the
// lookup collections the slot resolver and the room pool depend on.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/metrics"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/redis"
)

// Collection names one cached lookup table.
type Collection string

const (
	Subjects Collection = "subjects"
	Labs     Collection = "labs"
	Batches  Collection = "batches"
	Faculty  Collection = "faculty"
	Rooms    Collection = "rooms"
)

// Store is the key/value backend; *redis.Client satisfies it.
// Get must return redis.ErrMiss for an absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Entry is one cached lookup record.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// LookupCache reads lookup collections through Store, loading from the
// repositories on a miss. A nil store disables caching.
type LookupCache struct {
	store  Store
	repo   *repository.Repository
	ttl    time.Duration
	logger *zap.Logger
}

// NewLookupCache creates a LookupCache. store may be nil.
func NewLookupCache(store Store, repo *repository.Repository, ttl time.Duration, logger *zap.Logger) *LookupCache {
	return &LookupCache{store: store, repo: repo, ttl: ttl, logger: logger}
}

// Each collection has a generation counter; cached values live under the
// current generation. Invalidate bumps the counter, so a load that started
// before a mutation writes into a generation nobody reads any more.

func genKey(orgID string, col Collection) string {
	return fmt.Sprintf("lookup:%s:%s:gen", orgID, col)
}

func dataKey(orgID string, col Collection, gen int64) string {
	return fmt.Sprintf("lookup:%s:%s:v%d", orgID, col, gen)
}

// generation reads the current generation; an absent counter is 0.
func (c *LookupCache) generation(ctx context.Context, orgID string, col Collection) (int64, error) {
	raw, err := c.store.Get(ctx, genKey(orgID, col))
	if errors.Is(err, redis.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

// Entries returns a collection in repository order (by name).
func (c *LookupCache) Entries(ctx context.Context, orgID string, col Collection) ([]Entry, error) {
	cacheable := false
	var gen int64
	if c.store != nil {
		var err error
		gen, err = c.generation(ctx, orgID, col)
		if err != nil {
			c.logger.Warn("lookup cache generation read failed", zap.String("collection", string(col)), zap.Error(err))
			metrics.IncLookupCache(string(col), "error")
		} else {
			cacheable = true
			if entries, ok := c.read(ctx, dataKey(orgID, col, gen), col); ok {
				return entries, nil
			}
		}
	}

	entries, err := c.load(ctx, orgID, col)
	if err != nil {
		return nil, err
	}

	if cacheable {
		raw, _ := json.Marshal(entries)
		if err := c.store.Set(ctx, dataKey(orgID, col, gen), raw, c.ttl); err != nil {
			c.logger.Warn("lookup cache write failed", zap.String("collection", string(col)), zap.Error(err))
		}
	}
	return entries, nil
}

func (c *LookupCache) read(ctx context.Context, key string, col Collection) ([]Entry, bool) {
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var entries []Entry
		if jerr := json.Unmarshal(raw, &entries); jerr == nil {
			metrics.IncLookupCache(string(col), "hit")
			return entries, true
		}
		c.logger.Warn("corrupt lookup cache entry, reloading", zap.String("collection", string(col)))
		metrics.IncLookupCache(string(col), "miss")
	case errors.Is(err, redis.ErrMiss):
		metrics.IncLookupCache(string(col), "miss")
	default:
		c.logger.Warn("lookup cache read failed", zap.String("collection", string(col)), zap.Error(err))
		metrics.IncLookupCache(string(col), "error")
	}
	return nil, false
}

// Invalidate moves the given collections of an organization to a new
// generation and drops the previous value. Failures are logged; the TTL
// bounds how long a stale entry can survive then.
func (c *LookupCache) Invalidate(ctx context.Context, orgID string, cols ...Collection) {
	if c.store == nil {
		return
	}
	for _, col := range cols {
		gen, err := c.store.Incr(ctx, genKey(orgID, col))
		if err != nil {
			c.logger.Warn("lookup cache invalidation failed", zap.String("collection", string(col)), zap.Error(err))
			continue
		}
		if err := c.store.Del(ctx, dataKey(orgID, col, gen-1)); err != nil {
			c.logger.Warn("lookup cache cleanup failed", zap.String("collection", string(col)), zap.Error(err))
		}
	}
}

// Lookups assembles the resolver's lookup tables for an organization.
func (c *LookupCache) Lookups(ctx context.Context, orgID string) (timetable.Lookups, error) {
	var out timetable.Lookups
	targets := []struct {
		col Collection
		dst *map[string]timetable.Ref
	}{
		{Subjects, &out.Subjects},
		{Labs, &out.Labs},
		{Batches, &out.Batches},
		{Faculty, &out.FacultyUsers},
	}
	for _, t := range targets {
		entries, err := c.Entries(ctx, orgID, t.col)
		if err != nil {
			return timetable.Lookups{}, err
		}
		m := make(map[string]timetable.Ref, len(entries))
		for _, e := range entries {
			m[e.ID] = timetable.Ref{Name: e.Name, Abbreviation: e.Abbreviation}
		}
		*t.dst = m
	}
	return out, nil
}

// RoomNames returns the configured room names of an organization.
func (c *LookupCache) RoomNames(ctx context.Context, orgID string) ([]string, error) {
	entries, err := c.Entries(ctx, orgID, Rooms)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (c *LookupCache) load(ctx context.Context, orgID string, col Collection) ([]Entry, error) {
	var entries []Entry
	switch col {
	case Subjects:
		rows, err := c.repo.Subject.List(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			entries = append(entries, Entry{ID: r.SubjectID, Name: r.Name, Abbreviation: r.Abbreviation})
		}
	case Labs:
		rows, err := c.repo.Lab.List(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			entries = append(entries, Entry{ID: r.LabID, Name: r.Name, Abbreviation: r.Abbreviation})
		}
	case Batches:
		rows, err := c.repo.Batch.List(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			entries = append(entries, Entry{ID: r.BatchID, Name: r.Name})
		}
	case Faculty:
		rows, err := c.repo.User.List(ctx, orgID, model.RoleFaculty)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			entries = append(entries, Entry{ID: r.UserID, Name: r.Name})
		}
	case Rooms:
		rows, err := c.repo.Room.List(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			entries = append(entries, Entry{ID: r.RoomID, Name: r.Name})
		}
	default:
		return nil, fmt.Errorf("unknown lookup collection %q", col)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
