package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/kv"
	"github.com/MrSnakeDoc/timemark/internal/kv/memory"
	"github.com/MrSnakeDoc/timemark/internal/logger"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	backend := memory.New()
	s := New(backend, logger.New("error", false),
		WithClock(stepClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))))
	return s, backend
}

func videoCandidate(title string, seconds int) domain.Candidate {
	return domain.Candidate{
		Platform:         domain.PlatformVideo,
		Title:            title,
		URL:              "https://www.youtube.com/watch?v=" + strings.ReplaceAll(title, " ", ""),
		TimestampSeconds: seconds,
		TimestampDisplay: domain.FormatTime(seconds),
		Note:             "note for " + title,
	}
}

func TestSaveThenListNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	firstID, err := s.Save(ctx, videoCandidate("first", 10))
	if err != nil {
		t.Fatalf("Save(first) error = %v", err)
	}
	secondID, err := s.Save(ctx, videoCandidate("second", 3725))
	if err != nil {
		t.Fatalf("Save(second) error = %v", err)
	}

	if !strings.HasPrefix(secondID, domain.IDPrefix) {
		t.Errorf("id %q missing prefix", secondID)
	}
	if firstID == secondID {
		t.Fatal("Save() returned duplicate ids")
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d bookmarks, want 2", len(list))
	}

	newest := list[0]
	if newest.ID != secondID {
		t.Errorf("List()[0].ID = %s, want %s", newest.ID, secondID)
	}
	if newest.Title != "second" || newest.TimestampSeconds != 3725 || newest.TimestampDisplay != "1:02:05" {
		t.Errorf("List()[0] fields = %+v", newest)
	}
	if newest.Note != "note for second" {
		t.Errorf("List()[0].Note = %q", newest.Note)
	}
	if !newest.CreatedAt.After(list[1].CreatedAt) {
		t.Error("newest bookmark should have the latest CreatedAt")
	}
}

func TestListIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Save(ctx, videoCandidate(fmt.Sprintf("clip %d", i), i*30)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	a, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	b, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two List() calls without writes returned different content")
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	keepID, _ := s.Save(ctx, videoCandidate("keep", 1))
	dropID, _ := s.Save(ctx, videoCandidate("drop", 2))

	if err := s.Delete(ctx, dropID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list, _ := s.List(ctx)
	if len(list) != 1 || list[0].ID != keepID {
		t.Fatalf("List() after delete = %+v", list)
	}

	before, _ := s.List(ctx)
	if err := s.Delete(ctx, "bookmark_does-not-exist"); err != nil {
		t.Errorf("Delete(absent) error = %v, want nil", err)
	}
	after, _ := s.List(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Error("Delete(absent) changed the list")
	}
}

func TestDeleteIgnoresForeignKeys(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	_ = backend.Set(ctx, "settings", []byte(`{"theme":"dark"}`))

	if err := s.Delete(ctx, "settings"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if backend.Len() != 1 {
		t.Error("Delete() removed a key outside the bookmark namespace")
	}
}

func TestListFiltersNamespace(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Save(ctx, videoCandidate("real", 5))
	_ = backend.Set(ctx, "settings", []byte(`{"id":"settings"}`))
	_ = backend.Set(ctx, "bookmark_corrupt", []byte(`not json`))
	_ = backend.Set(ctx, "bookmark_spoof", []byte(`{"id":"other_1"}`))

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Title != "real" {
		t.Errorf("List() = %+v, want only the real bookmark", list)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	s, backend := newTestStore(t)

	_, err := s.Save(context.Background(), domain.Candidate{Platform: domain.PlatformAudio})
	if !errors.Is(err, domain.ErrInvalidCandidate) {
		t.Errorf("Save() error = %v, want ErrInvalidCandidate", err)
	}
	if backend.Len() != 0 {
		t.Error("invalid candidate was written")
	}
}

func TestSaveNeverOverwrites(t *testing.T) {
	backend := memory.New()
	s := New(backend, logger.New("error", false),
		WithIDGenerator(func() string { return "bookmark_fixed" }))
	ctx := context.Background()

	if _, err := s.Save(ctx, videoCandidate("one", 1)); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if _, err := s.Save(ctx, videoCandidate("two", 2)); err == nil {
		t.Fatal("second Save() with colliding id should fail")
	}

	b, err := s.Get(ctx, "bookmark_fixed")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Title != "one" {
		t.Errorf("record was overwritten: %+v", b)
	}
}

func TestSaveKeepsTextVerbatim(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		title string
		note  string
		want  string
	}{
		{"multi-line note", "Talk", "line one\nline two", "line one\nline two"},
		{"angle brackets", "Best of <Kids> 2024", "compare <Intro> vs <Outro>", "compare <Intro> vs <Outro>"},
		{"entities and spacing", "Tom &amp; Jerry", "  a  &  b\t ", "a  &  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			c := videoCandidate("x", 1)
			c.Title = tt.title
			c.Note = tt.note

			id, err := s.Save(ctx, c)
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			b, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if b.Title != tt.title || b.Note != tt.want {
				t.Errorf("Get() title=%q note=%q, want title=%q note=%q", b.Title, b.Note, tt.title, tt.want)
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 1 || list[0].ID != id || list[0].Title != tt.title || list[0].Note != tt.want {
				t.Errorf("List()[0] = %+v", list[0])
			}
		})
	}
}

// failingKV rejects every operation, simulating a broken backend.
type failingKV struct{ kv.Store }

var errBackend = errors.New("backend down")

func (failingKV) Set(context.Context, string, []byte) error      { return errBackend }
func (failingKV) Get(context.Context, string) ([]byte, error)    { return nil, kv.ErrNotFound }
func (failingKV) Remove(context.Context, string) error           { return errBackend }
func (failingKV) All(context.Context) (map[string][]byte, error) { return nil, errBackend }

func TestBackendFailuresPropagate(t *testing.T) {
	s := New(failingKV{}, logger.New("error", false))
	ctx := context.Background()

	if _, err := s.Save(ctx, videoCandidate("x", 1)); !errors.Is(err, errBackend) {
		t.Errorf("Save() error = %v, want backend error", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, errBackend) {
		t.Errorf("List() error = %v, want backend error", err)
	}
	if err := s.Delete(ctx, "bookmark_1"); !errors.Is(err, errBackend) {
		t.Errorf("Delete() error = %v, want backend error", err)
	}
}

func TestUUIDv7IDsAreOrdered(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		next := gen()
		if next <= prev {
			t.Fatalf("id %s not greater than %s", next, prev)
		}
		prev = next
	}
}

func TestGetMissing(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	_ = backend.Set(ctx, "settings", []byte(`{}`))

	for _, id := range []string{"bookmark_nope", "settings"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}
