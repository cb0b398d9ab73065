package telegram

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/kbukum/quorumbot/httpclient"
	"github.com/kbukum/quorumbot/httpclient/rest"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/transport"
)

// APIError is a failed Bot API call. Its text never contains the bot token.
type APIError struct {
	Method string
	// Code is the Bot API error_code or the HTTP status; 0 if no response.
	Code        int
	Description string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
	}
	return fmt.Sprintf("telegram %s: %s", e.Method, e.Description)
}

// Client calls the Bot API.
type Client struct {
	cfg  Config
	api  *rest.Client
	poll *rest.Client
	log  *logger.Logger

	offset int64
}

var (
	_ transport.Sender     = (*Client)(nil)
	_ transport.Receiver   = (*Client)(nil)
	_ transport.FileSource = (*Client)(nil)
)

// New creates a Bot API client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	api, err := rest.New(httpclient.Config{
		Name:        "telegram",
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.RequestTimeout,
		RateLimiter: cfg.RateLimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: create client: %w", err)
	}
	poll, err := rest.New(httpclient.Config{
		Name:    "telegram-poll",
		BaseURL: cfg.BaseURL,
		Timeout: cfg.PollTimeout + cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: create poll client: %w", err)
	}
	return &Client{cfg: cfg, api: api, poll: poll, log: log.WithComponent("telegram")}, nil
}

func (c *Client) redact(s string) string {
	return strings.ReplaceAll(s, c.cfg.Token, "<token>")
}

func call[T any](ctx context.Context, c *Client, api *rest.Client, method string, params any) (T, error) {
	var zero T
	resp, err := rest.Post[envelope[T]](ctx, api, "/bot"+c.cfg.Token+"/"+method, params)
	if err != nil {
		apiErr := &APIError{Method: method, Description: c.redact(err.Error())}
		if resp != nil && resp.Data.Description != "" {
			apiErr.Code, apiErr.Description = resp.Data.ErrorCode, resp.Data.Description
		} else if he, ok := httpclient.AsError(err); ok {
			apiErr.Code = he.StatusCode
		}
		return zero, apiErr
	}
	if !resp.Data.OK {
		return zero, &APIError{Method: method, Code: resp.Data.ErrorCode, Description: resp.Data.Description}
	}
	return resp.Data.Result, nil
}

type sendParams struct {
	ChatID           int64  `json:"chat_id"`
	MessageID        int64  `json:"message_id,omitempty"`
	Text             string `json:"text"`
	ParseMode        string `json:"parse_mode,omitempty"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

// Send posts a message. If Telegram cannot parse the markup, the message is
// sent again as plain text.
func (c *Client) Send(ctx context.Context, chatID int64, text string, opts transport.SendOptions) (transport.Handle, error) {
	p := sendParams{ChatID: chatID, Text: text, ParseMode: string(opts.ParseMode), ReplyToMessageID: opts.ReplyTo}
	msg, err := call[Message](ctx, c, c.api, "sendMessage", p)
	if err != nil && p.ParseMode != "" && isParseError(err) {
		c.log.WithContext(ctx).Warn("markup rejected, sending plain text", logger.Fields(logger.FieldChatID, chatID))
		p.ParseMode = ""
		msg, err = call[Message](ctx, c, c.api, "sendMessage", p)
	}
	if err != nil {
		return transport.Handle{}, err
	}
	return transport.Handle{ChatID: msg.Chat.ID, MessageID: msg.MessageID}, nil
}

// Edit replaces the text of a sent message. Editing to identical text is
// not an error.
func (c *Client) Edit(ctx context.Context, h transport.Handle, text string, opts transport.SendOptions) error {
	p := sendParams{ChatID: h.ChatID, MessageID: h.MessageID, Text: text, ParseMode: string(opts.ParseMode)}
	_, err := call[Message](ctx, c, c.api, "editMessageText", p)
	if err != nil && p.ParseMode != "" && isParseError(err) {
		p.ParseMode = ""
		_, err = call[Message](ctx, c, c.api, "editMessageText", p)
	}
	if isNotModified(err) {
		return nil
	}
	return err
}

func isParseError(err error) bool {
	e, ok := err.(*APIError)
	return ok && e.Code == http.StatusBadRequest && strings.Contains(e.Description, "can't parse entities")
}

func isNotModified(err error) bool {
	e, ok := err.(*APIError)
	return ok && e.Code == http.StatusBadRequest && strings.Contains(e.Description, "message is not modified")
}

// Download fetches an attachment by file id.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, string, error) {
	f, err := call[File](ctx, c, c.api, "getFile", map[string]string{"file_id": fileID})
	if err != nil {
		return nil, "", err
	}
	if f.FilePath == "" {
		return nil, "", &APIError{Method: "getFile", Description: "no file_path in response"}
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/file/bot" + c.cfg.Token + "/" + f.FilePath
	resp, err := c.api.HTTP().Do(ctx, httpclient.Request{Method: http.MethodGet, Path: url})
	if err != nil {
		apiErr := &APIError{Method: "download", Description: c.redact(err.Error())}
		if he, ok := httpclient.AsError(err); ok {
			apiErr.Code = he.StatusCode
		}
		return nil, "", apiErr
	}
	return resp.Body, path.Base(f.FilePath), nil
}

// SetWebhook registers the webhook URL and secret with Telegram.
func (c *Client) SetWebhook(ctx context.Context) error {
	_, err := call[bool](ctx, c, c.api, "setWebhook", map[string]any{
		"url":             c.cfg.WebhookURL,
		"secret_token":    c.cfg.WebhookSecret,
		"allowed_updates": []string{"message"},
	})
	return err
}

// DeleteWebhook removes any registered webhook so getUpdates works.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := call[bool](ctx, c, c.api, "deleteWebhook", map[string]any{})
	return err
}
