package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/kv/memory"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
	"github.com/MrSnakeDoc/timemark/internal/probe"
	"github.com/MrSnakeDoc/timemark/internal/store"
)

type fakeMedia struct {
	mu   sync.Mutex
	tab  probe.Tab
	snap *domain.MediaSnapshot
}

func (f *fakeMedia) set(tab probe.Tab, snap *domain.MediaSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tab, f.snap = tab, snap
}

func (f *fakeMedia) ActiveTab(context.Context) (probe.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tab.ID == "" {
		return probe.Tab{}, probe.ErrNoPage
	}
	return f.tab, nil
}

func (f *fakeMedia) ActiveMedia(ctx context.Context) (*domain.MediaSnapshot, probe.Tab, error) {
	tab, err := f.ActiveTab(ctx)
	if err != nil {
		return nil, tab, err
	}
	snap, err := f.TabMedia(ctx, tab.ID)
	return snap, tab, err
}

func (f *fakeMedia) TabMedia(context.Context, string) (*domain.MediaSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := domain.PlatformForURL(f.tab.URL); !ok {
		return nil, probe.ErrUnsupportedPage
	}
	if f.snap == nil {
		return nil, nil
	}
	s := *f.snap
	return &s, nil
}

type fakeOpener struct {
	mu   sync.Mutex
	urls []string
}

func (o *fakeOpener) Open(_ context.Context, u string) (probe.Tab, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, u)
	return probe.Tab{ID: "opened", URL: u}, nil
}

// testBed is an in-process page and store side shared by every command run
// in a test.
type testBed struct {
	media  *fakeMedia
	opener *fakeOpener
	store  *store.Store
	disp   *messaging.Dispatcher
}

func newTestBed(t *testing.T) *testBed {
	t.Helper()
	log := logger.Nop()
	tb := &testBed{
		media:  &fakeMedia{},
		opener: &fakeOpener{},
		store:  store.New(memory.New(), log),
	}
	tb.disp = messaging.NewDispatcher(tb.media, tb.store, tb.opener, log)
	return tb
}

func (tb *testBed) playVideo(title string, at int) {
	url := "https://www.youtube.com/watch?v=abc"
	tb.media.set(probe.Tab{ID: "t1", URL: url}, &domain.MediaSnapshot{
		Platform:    domain.PlatformVideo,
		Title:       title,
		URL:         url,
		CurrentTime: at,
		Duration:    600,
		IsPlaying:   true,
	})
}

func (tb *testBed) seed(t *testing.T, titles ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(titles))
	for i, title := range titles {
		id, err := tb.store.Save(context.Background(), domain.Candidate{
			Platform:         domain.PlatformAudio,
			Title:            title,
			URL:              "https://open.spotify.com/track/" + title,
			TimestampSeconds: i * 30,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// run executes args against the test bed and returns stdout.
func (tb *testBed) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	e := newEnv(strings.NewReader(stdin), &out, &errOut)
	e.dial = func(context.Context, *env, bool) (*session, error) {
		return &session{
			client: messaging.NewClient(messaging.NewLocal(tb.disp)),
			cfg:    &config.Config{PollInterval: time.Hour},
			logger: logger.Nop(),
			close:  func() {},
		}, nil
	}
	err := execute(e, args)
	return out.String(), err
}
