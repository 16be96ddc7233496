package browser

import (
	"encoding/json"
	"time"

	"github.com/go-rod/rod"

	"github.com/MrSnakeDoc/timemark/internal/probe"
)

// pageDOM answers probe.DOM queries by evaluating small scripts in the page.
// Any failure reads as "not found".
type pageDOM struct {
	page    *rod.Page
	timeout time.Duration
}

func newPageDOM(page *rod.Page, timeout time.Duration) *pageDOM {
	return &pageDOM{page: page, timeout: timeout}
}

const (
	jsLocation = `() => location.href`
	jsText     = `(s) => {
		const el = document.querySelector(s);
		return el ? (el.textContent || "").trim() : null;
	}`
	jsTexts = `(s) => Array.from(document.querySelectorAll(s), el => (el.textContent || "").trim())`
	jsAttr  = `(s, n) => {
		const el = document.querySelector(s);
		return el && el.hasAttribute(n) ? el.getAttribute(n) : null;
	}`
	jsExists = `(s) => document.querySelector(s) !== null`
	jsMedia  = `(s) => {
		const el = document.querySelector(s);
		if (!el || typeof el.currentTime !== "number") return null;
		return {
			currentTime: el.currentTime || 0,
			duration: isFinite(el.duration) ? el.duration : 0,
			paused: !!el.paused,
		};
	}`
)

func (d *pageDOM) Location() string {
	var s string
	d.eval(jsLocation, &s)
	return s
}

func (d *pageDOM) Text(selector string) (string, bool) {
	var s *string
	if !d.eval(jsText, &s, selector) || s == nil {
		return "", false
	}
	return *s, true
}

func (d *pageDOM) Texts(selector string) []string {
	var out []string
	d.eval(jsTexts, &out, selector)
	return out
}

func (d *pageDOM) Attr(selector, name string) (string, bool) {
	var s *string
	if !d.eval(jsAttr, &s, selector, name) || s == nil {
		return "", false
	}
	return *s, true
}

func (d *pageDOM) Exists(selector string) bool {
	var ok bool
	d.eval(jsExists, &ok, selector)
	return ok
}

func (d *pageDOM) Media(selector string) (probe.MediaElement, bool) {
	var m *probe.MediaElement
	if !d.eval(jsMedia, &m, selector) || m == nil {
		return probe.MediaElement{}, false
	}
	return *m, true
}

// eval runs js with args and decodes its JSON result into out.
func (d *pageDOM) eval(js string, out any, args ...any) bool {
	page := d.page.Timeout(d.timeout)
	defer page.CancelTimeout()

	res, err := page.Eval(js, args...)
	if err != nil || res == nil {
		return false
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
