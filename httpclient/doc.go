// Package httpclient is the outbound HTTP layer shared by the answer
// backends, the Telegram Bot API client and the speech-to-text client.
//
// Non-2xx responses come back as a typed *Error carrying the status code
// and body, so callers can report exactly what a backend said. An optional
// rate limiter paces every call. Requests are never retried.
//
//	c, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://openrouter.ai/api/v1",
//	    Auth:    httpclient.BearerAuth(token),
//	})
//	resp, err := c.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/chat/completions", Body: payload})
package httpclient
