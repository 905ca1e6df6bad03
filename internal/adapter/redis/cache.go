package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"labor-analytics/internal/domain"
	"labor-analytics/internal/ports"
)

const (
	entryKeyPrefix = "labor:entries:" // labor:entries:{gen}:{start}:{end}
	entryGenKey    = "labor:entries:gen"
)

// Cache implements ports.EntryCache with JSON values in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(gen int64, start, end time.Time) string {
	return fmt.Sprintf("%s%d:%s:%s", entryKeyPrefix, gen, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

// generation reads the current cache generation. A missing counter is 0.
func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, entryGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

func (c *Cache) GetEntries(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.client.Get(ctx, c.key(gen, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("failed to get cached entries: %w", err)
	}
	var entries []domain.TimeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, gen, false, fmt.Errorf("failed to unmarshal cached entries: %w", err)
	}
	return entries, gen, true, nil
}

// Invalidate bumps the generation. Windows cached under older generations
// are no longer addressed and expire with their TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, entryGenKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate entry cache: %w", err)
	}
	return nil
}

func (c *Cache) SetEntries(ctx context.Context, gen int64, start, end time.Time, entries []domain.TimeEntry) error {
	if entries == nil {
		entries = []domain.TimeEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}
	if err := c.client.Set(ctx, c.key(gen, start, end), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache entries: %w", err)
	}
	return nil
}

// CachedSource is a read-through decorator over a ports.Source. Only entry
// windows are cached; directories always come from the wrapped source so
// every query sees a fresh snapshot. Cache failures are logged and skipped.
type CachedSource struct {
	ports.Source
	cache ports.EntryCache
	log   *slog.Logger
}

func NewCachedSource(src ports.Source, cache ports.EntryCache, log *slog.Logger) *CachedSource {
	return &CachedSource{Source: src, cache: cache, log: log}
}

func (s *CachedSource) EntriesForRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
	entries, gen, ok, cacheErr := s.cache.GetEntries(ctx, start, end)
	if cacheErr != nil {
		s.log.Warn("entry cache read failed", slog.String("error", cacheErr.Error()))
	}
	if ok {
		s.log.Debug("entry cache hit", slog.Time("start", start), slog.Time("end", end))
		return entries, nil
	}

	entries, err := s.Source.EntriesForRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	// No write without a known generation.
	if cacheErr != nil {
		return entries, nil
	}
	if err := s.cache.SetEntries(ctx, gen, start, end, entries); err != nil {
		s.log.Warn("entry cache write failed", slog.String("error", err.Error()))
	}
	return entries, nil
}
