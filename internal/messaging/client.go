package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/probe"
)

// Transport carries one request and returns the raw JSON answer.
// An error means the channel itself failed.
type Transport interface {
	RoundTrip(ctx context.Context, req Request) ([]byte, error)
}

// Client is the typed popup-side view of the contract.
type Client struct {
	transport Transport
}

func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// RemoteError is a {success:false} answer.
type RemoteError struct {
	Action string
	Msg    string
	Code   string
}

func (e *RemoteError) Error() string { return e.Action + ": " + e.Msg }

// Unwrap maps known failure codes back to their sentinels so callers can
// use errors.Is across the channel.
func (e *RemoteError) Unwrap() error {
	if e.Code == CodeNoPage {
		return probe.ErrNoPage
	}
	return nil
}

// IsRemote reports whether err came back as a failure envelope rather than
// a broken channel.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// CurrentMedia returns nil, nil when the tab has no media.
func (c *Client) CurrentMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error) {
	raw, err := c.transport.RoundTrip(ctx, Request{Action: ActionGetCurrentMedia, TabID: tabID})
	if err != nil {
		return nil, err
	}
	var snap *domain.MediaSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	return snap, nil
}

func (c *Client) ActiveTab(ctx context.Context) (probe.Tab, error) {
	resp, err := c.call(ctx, Request{Action: ActionGetActiveTab})
	if err != nil {
		return probe.Tab{}, err
	}
	if resp.Tab == nil {
		return probe.Tab{}, probe.ErrNoPage
	}
	return *resp.Tab, nil
}

func (c *Client) SaveBookmark(ctx context.Context, b domain.Candidate) (string, error) {
	resp, err := c.call(ctx, Request{Action: ActionSaveBookmark, Bookmark: &b})
	if err != nil {
		return "", err
	}
	return resp.Result, nil
}

func (c *Client) Bookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	resp, err := c.call(ctx, Request{Action: ActionGetBookmarks})
	if err != nil {
		return nil, err
	}
	return resp.Bookmarks, nil
}

func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	_, err := c.call(ctx, Request{Action: ActionDeleteBookmark, ID: id})
	return err
}

func (c *Client) OpenBookmark(ctx context.Context, id string) (probe.Tab, error) {
	resp, err := c.call(ctx, Request{Action: ActionOpenBookmark, ID: id})
	if err != nil {
		return probe.Tab{}, err
	}
	if resp.Tab == nil {
		return probe.Tab{}, nil
	}
	return *resp.Tab, nil
}

func (c *Client) call(ctx context.Context, req Request) (Response, error) {
	raw, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, fmt.Errorf("decode %s response: %w", req.Action, err)
	}
	if !resp.Success {
		return resp, &RemoteError{Action: req.Action, Msg: resp.Error, Code: resp.Code}
	}
	return resp, nil
}
