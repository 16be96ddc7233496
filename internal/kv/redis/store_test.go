package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/timemark/internal/kv"
)

// newTestStore connects to the Redis named by TIMEMARK_TEST_REDIS_ADDR.
// Each test gets its own namespace so runs never collide.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("TIMEMARK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TIMEMARK_TEST_REDIS_ADDR not set, skipping redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	s := NewStore(client, "timemark-test:"+t.Name()+":")
	t.Cleanup(func() {
		ctx := context.Background()
		all, _ := s.All(ctx)
		for k := range all {
			_ = s.Remove(ctx, k)
		}
		_ = client.Close()
	})
	return s
}

func TestStoreSetGetRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "bookmark_1", []byte(`{"id":"bookmark_1"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, "bookmark_1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"id":"bookmark_1"}` {
		t.Errorf("Get() = %s", got)
	}

	if err := s.Remove(ctx, "bookmark_1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, "bookmark_1"); err != nil {
		t.Fatalf("Remove(absent) error = %v", err)
	}
	if _, err := s.Get(ctx, "bookmark_1"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after remove error = %v, want ErrNotFound", err)
	}
}

func TestStoreAllReadsNamespaceOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"bookmark_a", "bookmark_b", "other"} {
		if err := s.Set(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All() returned %d keys, want 3", len(all))
	}
	if string(all["bookmark_b"]) != "bookmark_b" {
		t.Errorf("All()[bookmark_b] = %s", all["bookmark_b"])
	}
}

func TestStripNamespace(t *testing.T) {
	s := NewStore(nil, "ns:")

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ns:bookmark_1", "bookmark_1", true},
		{"ns:", "", false},
		{"other:bookmark_1", "", false},
	}

	for _, tt := range tests {
		got, ok := s.stripNamespace(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("stripNamespace(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
