package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Local delivers requests to an in-process Dispatcher, still going through
// JSON so both sides see exactly what a remote peer would.
type Local struct {
	dispatcher *Dispatcher
}

func NewLocal(d *Dispatcher) *Local { return &Local{dispatcher: d} }

func (l *Local) RoundTrip(ctx context.Context, req Request) ([]byte, error) {
	// Round-trip the request too, so pointer payloads are not shared.
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	var in Request
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	out, err := l.dispatcher.Handle(ctx, in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// MessagesPath is where the HTTP server accepts contract messages.
const MessagesPath = "/api/messages"

// HTTP posts requests to a running timemark server.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) RoundTrip(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+MessagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
