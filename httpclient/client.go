package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/kbukum/quorumbot/resilience"
)

// Client sends requests relative to a base URL. Every call waits on the
// rate limiter when one is configured.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *resilience.RateLimiter
}

func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		http: &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone(), Timeout: cfg.Timeout},
		cfg:  cfg,
	}
	if rl := cfg.RateLimiter; rl != nil {
		c.limiter = resilience.NewRateLimiter(*rl)
	}
	return c, nil
}

func (c *Client) Name() string { return c.cfg.Name }

// Do sends req exactly once. On a non-2xx status both the response and a
// classified *Error are returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewTimeoutError(err)
		}
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(httpReq)
	if err != nil {
		var ne net.Error
		if ctx.Err() != nil || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read body: %w", err))
	}
	resp := &Response{StatusCode: res.StatusCode, Headers: firstValues(res.Header), Body: body}
	if statusErr := ClassifyStatusCode(res.StatusCode, body); statusErr != nil {
		return resp, statusErr
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError("encode body: " + err.Error())
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolve(req.Path), body)
	if err != nil {
		return nil, NewValidationError("build request: " + err.Error())
	}
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	h := httpReq.Header
	for _, set := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range set {
			h.Set(k, v)
		}
	}
	switch {
	case contentType == "":
	case strings.HasPrefix(contentType, "multipart/"):
		// the boundary belongs to this body
		h.Set("Content-Type", contentType)
	case h.Get("Content-Type") == "":
		h.Set("Content-Type", contentType)
	}

	auth := req.Auth
	if auth == nil {
		auth = c.cfg.Auth
	}
	if auth != nil {
		auth(httpReq)
	}
	return httpReq, nil
}

// resolve leaves absolute URLs alone, which the Telegram file download
// relies on.
func (c *Client) resolve(path string) string {
	if c.cfg.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
