// Package messaging implements the request/response contract between the
// popup side (coordinator) and the page side (probes, store, host).
package messaging

import (
	"errors"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/probe"
)

// Actions understood by the Dispatcher.
const (
	ActionGetCurrentMedia = "getCurrentMedia"
	ActionSaveBookmark    = "saveBookmark"
	ActionGetBookmarks    = "getBookmarks"
	ActionDeleteBookmark  = "deleteBookmark"

	// Host capabilities.
	ActionGetActiveTab = "getActiveTab"
	ActionOpenBookmark = "openBookmark"
)

// Request is one message. Only the fields its action needs are set.
type Request struct {
	Action   string            `json:"action"`
	Bookmark *domain.Candidate `json:"bookmark,omitempty"`
	ID       string            `json:"id,omitempty"`
	// TabID addresses getCurrentMedia to one tab. Empty means the active tab.
	TabID string `json:"tabId,omitempty"`
}

// Response is the envelope for every action except getCurrentMedia,
// which answers with a bare snapshot or null.
type Response struct {
	Success   bool              `json:"success"`
	Result    string            `json:"result,omitempty"`
	Bookmarks []domain.Bookmark `json:"bookmarks,omitzero"`
	Tab       *probe.Tab        `json:"tab,omitempty"`
	Error     string            `json:"error,omitempty"`
	// Code names a failure the popup side reacts to. Empty for other errors.
	Code string `json:"code,omitempty"`
}

// Failure codes.
const (
	CodeNoPage = "no_page"
)

func ok() Response { return Response{Success: true} }

func failure(err error) Response {
	resp := Response{Success: false, Error: err.Error()}
	if errors.Is(err, probe.ErrNoPage) {
		resp.Code = CodeNoPage
	}
	return resp
}
