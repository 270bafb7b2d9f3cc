package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

const (
	pathState      = "/api/game/state"
	pathStart      = "/api/game/start"
	pathNextAction = "/api/game/next_action"
	pathRestart    = "/api/game/restart"
	pathReset      = "/api/game/reset"
)

// HTTPClient talks to the simulation server's JSON API.
type HTTPClient struct {
	base    string
	timeout time.Duration
	c       *client.Client
}

// NewHTTPClient creates a client for the server at baseURL. A zero timeout
// disables the per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	var opts []config.ClientOption
	if timeout > 0 {
		opts = append(opts, client.WithDialTimeout(timeout))
	}
	c, err := client.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("new http client: %w", err)
	}
	return &HTTPClient{base: strings.TrimRight(baseURL, "/"), timeout: timeout, c: c}, nil
}

func (h *HTTPClient) State(ctx context.Context) (*snapshot.Snapshot, error) {
	return h.do(ctx, consts.MethodGet, pathState, nil)
}

func (h *HTTPClient) StartGame(ctx context.Context, req StartRequest) (*snapshot.Snapshot, error) {
	return h.do(ctx, consts.MethodPost, pathStart, req)
}

func (h *HTTPClient) NextAction(ctx context.Context) (*snapshot.Snapshot, error) {
	return h.do(ctx, consts.MethodPost, pathNextAction, nil)
}

func (h *HTTPClient) Restart(ctx context.Context) (*snapshot.Snapshot, error) {
	return h.do(ctx, consts.MethodPost, pathRestart, nil)
}

func (h *HTTPClient) Reset(ctx context.Context) (*snapshot.Snapshot, error) {
	return h.do(ctx, consts.MethodPost, pathReset, nil)
}

func (h *HTTPClient) do(ctx context.Context, method, path string, body any) (*snapshot.Snapshot, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(h.base + path)
	req.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(b)
	}

	var err error
	if h.timeout > 0 {
		err = h.c.DoTimeout(ctx, req, resp, h.timeout)
	} else {
		err = h.c.Do(ctx, req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if code := resp.StatusCode(); code != consts.StatusOK {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, code, truncate(resp.Body(), 200))
	}
	snap, err := snapshot.Decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return snap, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
