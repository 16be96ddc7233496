package probe

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/timemark/internal/logger"
)

type fakeDOM struct {
	mu       sync.Mutex
	location string
	texts    map[string][]string
	attrs    map[string]map[string]string
	media    map[string]MediaElement
}

func newFakeDOM(location string) *fakeDOM {
	return &fakeDOM{
		location: location,
		texts:    map[string][]string{},
		attrs:    map[string]map[string]string{},
		media:    map[string]MediaElement{},
	}
}

func (f *fakeDOM) withText(sel string, values ...string) *fakeDOM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[sel] = values
	return f
}

func (f *fakeDOM) withAttr(sel, name, value string) *fakeDOM {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attrs[sel] == nil {
		f.attrs[sel] = map[string]string{}
	}
	f.attrs[sel][name] = value
	return f
}

func (f *fakeDOM) withMedia(sel string, m MediaElement) *fakeDOM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[sel] = m
	return f
}

func (f *fakeDOM) setTime(sel string, t float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.media[sel]
	m.CurrentTime = t
	f.media[sel] = m
}

func (f *fakeDOM) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location
}

func (f *fakeDOM) Text(sel string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.texts[sel]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (f *fakeDOM) Texts(sel string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts[sel]...)
}

func (f *fakeDOM) Attr(sel, name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.attrs[sel][name]
	return v, ok
}

func (f *fakeDOM) Exists(sel string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, t := f.texts[sel]
	_, a := f.attrs[sel]
	_, m := f.media[sel]
	return t || a || m
}

func (f *fakeDOM) Media(sel string) (MediaElement, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[sel]
	return m, ok
}

type fakePages struct {
	mu       sync.Mutex
	active   Tab
	tabs     []Tab
	doms     map[string]DOM
	attached int
}

func (p *fakePages) Active(context.Context) (Tab, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active.ID == "" {
		return Tab{}, ErrNoPage
	}
	return p.active, nil
}

func (p *fakePages) List(context.Context) ([]Tab, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Tab(nil), p.tabs...), nil
}

func (p *fakePages) Attach(_ context.Context, id string) (DOM, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attached++
	return p.doms[id], nil
}

func testLogger() logger.Logger { return logger.New("error", false) }
