package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/quorumbot/httpclient"
)

// Client speaks JSON in both directions.
type Client struct {
	http *httpclient.Client
}

// New sets JSON Content-Type and Accept headers unless cfg.Headers
// overrides them.
func New(cfg httpclient.Config) (*Client, error) {
	headers := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	maps.Copy(headers, cfg.Headers)
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP exposes the raw client for downloads and multipart uploads.
func (c *Client) HTTP() *httpclient.Client { return c.http }

// Response is a decoded reply.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Post sends body as JSON and decodes the reply into T. On an HTTP error
// the reply is still decoded when it parses, since APIs such as Telegram
// explain failures in the body; the error is returned alongside.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	raw, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path, Body: body})
	if raw == nil {
		return nil, err
	}
	out := &Response[T]{StatusCode: raw.StatusCode, Headers: raw.Headers}
	if len(raw.Body) == 0 {
		return out, err
	}
	if decErr := json.Unmarshal(raw.Body, &out.Data); decErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("rest: decode %s reply: %w", path, decErr)
	}
	return out, err
}
