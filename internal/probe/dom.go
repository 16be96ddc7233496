package probe

// MediaElement is the state of an HTML media element as the page reports it.
// Duration is 0 when the page reports NaN or Infinity.
type MediaElement struct {
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Paused      bool    `json:"paused"`
}

// DOM is the read-only view of a live page that samplers work against.
// Lookups never fail loudly: a missing element, a detached page or a
// script error all read as "not found".
type DOM interface {
	// Location is the page's current address.
	Location() string
	// Text returns the trimmed textContent of the first match.
	Text(selector string) (string, bool)
	// Texts returns the textContent of every match, in document order.
	Texts(selector string) []string
	// Attr returns an attribute of the first match.
	Attr(selector, name string) (string, bool)
	// Exists reports whether any element matches.
	Exists(selector string) bool
	// Media returns the state of the first matching media element.
	Media(selector string) (MediaElement, bool)
}

// firstText walks selectors in priority order and returns the first
// non-empty text.
func firstText(dom DOM, selectors []string) (string, bool) {
	for _, sel := range selectors {
		if txt, ok := dom.Text(sel); ok && txt != "" {
			return txt, true
		}
	}
	return "", false
}

func anyExists(dom DOM, selectors []string) bool {
	for _, sel := range selectors {
		if dom.Exists(sel) {
			return true
		}
	}
	return false
}
