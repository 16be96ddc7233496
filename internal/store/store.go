// Package store owns bookmark persistence: id generation, record encoding
// and newest-first listing over a kv.Store namespace.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/kv"
	"github.com/MrSnakeDoc/timemark/internal/logger"
)

// ErrNotFound is returned by Get for ids with no bookmark record.
var ErrNotFound = errors.New("bookmark not found")

// IDGenerator produces fresh bookmark ids.
type IDGenerator func() string

// UUIDv7 returns ids of the form "bookmark_<uuidv7>". v7 ids sort by
// creation time and carry a monotonic counter within the same millisecond.
func UUIDv7() IDGenerator {
	return func() string {
		return domain.IDPrefix + uuid.Must(uuid.NewV7()).String()
	}
}

// Store handles bookmark records in a key-value namespace
type Store struct {
	kv     kv.Store
	logger logger.Logger
	newID  IDGenerator
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator overrides the id strategy (tests).
func WithIDGenerator(gen IDGenerator) Option { return func(s *Store) { s.newID = gen } }

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New creates a bookmark store on top of a kv backend
func New(backend kv.Store, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		logger: log,
		newID:  UUIDv7(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save assigns a new id, stamps CreatedAt and writes the record.
func (s *Store) Save(ctx context.Context, c domain.Candidate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	id := s.newID()
	if _, err := s.kv.Get(ctx, id); err == nil {
		return "", fmt.Errorf("bookmark id collision: %s", id)
	} else if !errors.Is(err, kv.ErrNotFound) {
		return "", fmt.Errorf("failed to check bookmark id: %w", err)
	}

	b := domain.Bookmark{
		ID:               id,
		Platform:         c.Platform,
		Title:            c.Title,
		URL:              c.URL,
		TimestampDisplay: c.TimestampDisplay,
		TimestampSeconds: c.TimestampSeconds,
		Note:             strings.TrimSpace(c.Note),
		CreatedAt:        s.now().UTC(),
	}

	data, err := json.Marshal(&b)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	if err := s.kv.Set(ctx, id, data); err != nil {
		return "", fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.logger.Info("bookmark saved",
		logger.String("bookmark_id", id),
		logger.String("platform", string(b.Platform)),
		logger.String("timestamp", b.TimestampDisplay))

	return id, nil
}

// List returns every bookmark, newest first.
// Records outside the bookmark namespace or that fail to decode are skipped.
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	all, err := s.kv.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(all))
	for key, data := range all {
		if !strings.HasPrefix(key, domain.IDPrefix) {
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal(data, &b); err != nil {
			s.logger.Warn("skipping unreadable bookmark record",
				logger.String("key", key),
				logger.Error(err))
			continue
		}
		if !strings.HasPrefix(b.ID, domain.IDPrefix) {
			continue
		}
		bookmarks = append(bookmarks, b)
	}

	sort.Slice(bookmarks, func(i, j int) bool {
		a, b := bookmarks[i], bookmarks[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return bookmarks, nil
}

// Get returns one bookmark by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	if !strings.HasPrefix(id, domain.IDPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := s.kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &b, nil
}

// Delete removes a bookmark. Deleting an unknown id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !strings.HasPrefix(id, domain.IDPrefix) {
		return nil
	}
	if err := s.kv.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	s.logger.Info("bookmark deleted", logger.String("bookmark_id", id))
	return nil
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
