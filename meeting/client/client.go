package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/transport"
)

const (
	ErrRequestFailed errors.Code = "request failed"

	defaultTimeout = 10 * time.Second
)

// apiError is the error body of the control API.
type apiError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// Client drives a remote meet-embed daemon. API errors carry the server's
// error code, so errors.Is(err, meeting.ErrEngineNotReady) works remotely.
type Client struct {
	http   *resty.Client
	logger *log.Logger
}

func New(baseURL, token string, logger *log.Logger) *Client {
	if logger == nil {
		panic("logger is required")
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(defaultTimeout).
		SetError(&apiError{})
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{http: rc, logger: logger}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(ErrRequestFailed, err, "%s %s", method, path)
	}
	c.logger.Debug("api resp", log.String("path", path), log.Int("status", resp.StatusCode()))

	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*apiError); ok && e.Code != "" {
		return errors.New(errors.Code(e.Code), e.Error)
	}
	return errors.Newf(ErrRequestFailed, "%s %s: status %d", method, path, resp.StatusCode())
}

func (c *Client) Mount(ctx context.Context, props *meeting.HostProps) (*transport.MountResponse, error) {
	var out transport.MountResponse
	if err := c.do(ctx, http.MethodPost, "/api/meeting", props, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unmount reports whether a meeting was mounted.
func (c *Client) Unmount(ctx context.Context) (bool, error) {
	var out struct {
		Unmounted bool `json:"unmounted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/meeting", nil, &out); err != nil {
		return false, err
	}
	return out.Unmounted, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/meeting/close", nil, nil)
}

func (c *Client) SetAudioOnly(ctx context.Context, value bool) error {
	return c.do(ctx, http.MethodPut, "/api/meeting/audio-only", transport.SetAudioOnlyBody{Value: &value}, nil)
}

func (c *Client) SetAudioMuted(ctx context.Context, muted bool) error {
	return c.do(ctx, http.MethodPut, "/api/meeting/audio-muted", transport.SetMutedBody{Muted: &muted}, nil)
}

func (c *Client) SetVideoMuted(ctx context.Context, muted bool) error {
	return c.do(ctx, http.MethodPut, "/api/meeting/video-muted", transport.SetMutedBody{Muted: &muted}, nil)
}

func (c *Client) GetRoomsInfo(ctx context.Context) (meeting.RoomsInfo, error) {
	var out meeting.RoomsInfo
	err := c.do(ctx, http.MethodGet, "/api/meeting/rooms", nil, &out)
	return out, err
}

func (c *Client) Settings(ctx context.Context) (*transport.SettingsResponse, error) {
	var out transport.SettingsResponse
	if err := c.do(ctx, http.MethodGet, "/api/meeting/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
