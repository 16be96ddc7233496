package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/kv/memory"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TIMEMARK_STORE", "sqlite")
	t.Setenv("TIMEMARK_SQLITE_PATH", filepath.Join(t.TempDir(), "bookmarks.db"))
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestOpenWithoutBrowser(t *testing.T) {
	cfg := testConfig(t)
	rt, err := Open(context.Background(), cfg, logger.Nop(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close()

	if rt.Browser != nil {
		t.Fatal("browser should not be attached")
	}

	client := messaging.NewClient(messaging.NewLocal(rt.Dispatcher))
	ctx := context.Background()

	media, err := client.CurrentMedia(ctx, "")
	if err != nil || media != nil {
		t.Fatalf("CurrentMedia = %v, %v; want nil, nil", media, err)
	}

	id, err := client.SaveBookmark(ctx, domain.Candidate{
		Platform:         domain.PlatformVideo,
		Title:            "Talk",
		URL:              "https://www.youtube.com/watch?v=abc",
		TimestampSeconds: 65,
	})
	if err != nil {
		t.Fatalf("SaveBookmark: %v", err)
	}

	list, err := client.Bookmarks(ctx)
	if err != nil || len(list) != 1 || list[0].ID != id {
		t.Fatalf("Bookmarks = %v, %v", list, err)
	}

	if _, err := client.OpenBookmark(ctx, id); !messaging.IsRemote(err) {
		t.Fatalf("OpenBookmark without browser: %v", err)
	}
}

func TestOpenPersists(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	rt, err := Open(ctx, cfg, logger.Nop(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Store.Save(ctx, domain.Candidate{Platform: domain.PlatformAudio, Title: "Song", URL: "https://open.spotify.com/track/1"}); err != nil {
		t.Fatal(err)
	}
	rt.Close()

	rt, err = Open(ctx, cfg, logger.Nop(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	list, err := rt.Store.List(ctx)
	if err != nil || len(list) != 1 || list[0].Title != "Song" {
		t.Fatalf("List after reopen = %v, %v", list, err)
	}
}

func TestOpenKVOverride(t *testing.T) {
	cfg := testConfig(t)
	mem := memory.New()
	rt, err := Open(context.Background(), cfg, logger.Nop(), Options{KV: mem})
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	if _, err := rt.Store.Save(context.Background(), domain.Candidate{Platform: domain.PlatformAudio, Title: "Song", URL: "https://open.spotify.com/track/1"}); err != nil {
		t.Fatal(err)
	}
	if mem.Len() != 1 {
		t.Fatalf("memory backend has %d keys", mem.Len())
	}
}

func TestOpenKVUnknown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = "etcd"
	if _, err := OpenKV(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestOpenBadSelectors(t *testing.T) {
	cfg := testConfig(t)
	cfg.SelectorsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Open(context.Background(), cfg, logger.Nop(), Options{KV: memory.New()})
	if err == nil {
		t.Fatal("expected error for missing selectors file")
	}
}

func TestRuntimeDeps(t *testing.T) {
	cfg := testConfig(t)
	rt, err := Open(context.Background(), cfg, logger.Nop(), Options{KV: memory.New()})
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	d := rt.Deps()
	if d.Browser != nil {
		t.Error("Deps.Browser should be nil without a browser")
	}
	if d.StoreKind != "sqlite" || d.Dispatcher == nil || d.Bookmarks == nil {
		t.Errorf("Deps = %+v", d)
	}
	if err := d.Bookmarks.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
