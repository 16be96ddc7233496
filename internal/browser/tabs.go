package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/MrSnakeDoc/timemark/internal/probe"
)

const navigateTimeout = 30 * time.Second

// pageState is what Active needs to know about each open page.
type pageState struct {
	tab     probe.Tab
	visible bool
	focused bool
}

// Active returns the tab the user is most likely looking at: a focused page,
// else a visible one, else the first page.
func (m *Manager) Active(ctx context.Context) (probe.Tab, error) {
	states, err := m.states(ctx)
	if err != nil {
		return probe.Tab{}, err
	}
	i := pickActive(states)
	if i < 0 {
		return probe.Tab{}, probe.ErrNoPage
	}
	return states[i].tab, nil
}

func (m *Manager) List(ctx context.Context) ([]probe.Tab, error) {
	states, err := m.states(ctx)
	if err != nil {
		return nil, err
	}
	tabs := make([]probe.Tab, 0, len(states))
	for _, s := range states {
		tabs = append(tabs, s.tab)
	}
	return tabs, nil
}

// Attach binds a DOM view to a tab by target id.
func (m *Manager) Attach(_ context.Context, tabID string) (probe.DOM, error) {
	b := m.Browser()
	if b == nil {
		return nil, ErrNotStarted
	}
	page, err := b.PageFromTarget(proto.TargetTargetID(tabID))
	if err != nil {
		return nil, fmt.Errorf("browser: attach %s: %w", tabID, err)
	}
	return newPageDOM(page, m.cfg.EvalTimeout), nil
}

// Open loads pageURL in a new tab and brings it to the front.
func (m *Manager) Open(ctx context.Context, pageURL string) (probe.Tab, error) {
	b := m.Browser()
	if b == nil {
		return probe.Tab{}, ErrNotStarted
	}

	page, err := stealth.Page(b)
	if err != nil {
		return probe.Tab{}, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		_ = page.Close()
		return probe.Tab{}, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if _, err := page.Activate(); err != nil {
		m.logger.Debugf("activate tab failed: %v", err)
	}

	return probe.Tab{ID: string(page.TargetID), URL: pageURL}, nil
}

func (m *Manager) states(ctx context.Context) ([]pageState, error) {
	b := m.Browser()
	if b == nil {
		return nil, ErrNotStarted
	}

	pages, err := b.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("browser: list pages: %w", err)
	}

	states := make([]pageState, 0, len(pages))
	for _, p := range pages {
		info, err := p.Info()
		if err != nil || info.Type != proto.TargetTargetInfoTypePage {
			continue
		}
		vis := m.visibility(p)
		states = append(states, pageState{
			tab:     probe.Tab{ID: string(info.TargetID), URL: info.URL, Title: info.Title},
			visible: vis.Visible,
			focused: vis.Focused,
		})
	}
	return states, nil
}

type visibility struct {
	Visible bool `json:"visible"`
	Focused bool `json:"focused"`
}

func (m *Manager) visibility(p *rod.Page) visibility {
	var v visibility
	d := newPageDOM(p, m.cfg.EvalTimeout)
	d.eval(`() => ({visible: document.visibilityState === "visible", focused: document.hasFocus()})`, &v)
	return v
}

func pickActive(states []pageState) int {
	if len(states) == 0 {
		return -1
	}
	for i, s := range states {
		if s.focused {
			return i
		}
	}
	for i, s := range states {
		if s.visible {
			return i
		}
	}
	return 0
}
