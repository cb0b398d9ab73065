// Package whisper implements transcription.Provider against a Whisper HTTP
// sidecar. The sidecar accepts a multipart "file" upload on POST /transcribe
// and answers GET / while healthy.
package whisper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/quorumbot/httpclient"
	"github.com/kbukum/quorumbot/httpclient/rest"
	"github.com/kbukum/quorumbot/transcription"
)

const (
	// ProviderName is the name the provider reports.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:5001"
	defaultWhisperTimeout = 120 * time.Second
	defaultFileName       = "voice.ogg"
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	URL     string `yaml:"url" mapstructure:"url"`
	// APIKey is sent as a bearer token when the sidecar sits behind a gateway.
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Language string        `yaml:"language" mapstructure:"language"`
	Task     string        `yaml:"task" mapstructure:"task" validate:"omitempty,oneof=transcribe translate"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultWhisperURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultWhisperTimeout
	}
	if c.Task == "" {
		c.Task = transcription.TaskTranscribe
	}
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *rest.Client
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := rest.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: strings.TrimRight(cfg.URL, "/"),
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.APIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks the sidecar health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.HTTP().Do(ctx, httpclient.Request{Method: "GET", Path: "/"})
	return err == nil && resp.IsSuccess()
}

type transcribeResponse struct {
	transcription.Response
	Error string `json:"error,omitempty"`
}

// Transcribe uploads req.Audio and returns the trimmed text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("whisper: empty audio")
	}
	task := req.Task
	if task == "" {
		task = p.cfg.Task
	}
	lang := req.Language
	if lang == "" {
		lang = p.cfg.Language
	}
	name := req.FileName
	if name == "" {
		name = defaultFileName
	}

	fields := map[string]string{"task": task}
	if lang != "" {
		fields["language"] = lang
	}
	body := &httpclient.MultipartBody{
		Fields: fields,
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    name,
			ContentType: "application/octet-stream",
			Data:        req.Audio,
		}},
	}

	resp, err := rest.Post[transcribeResponse](ctx, p.client, "/transcribe", body)
	if err != nil {
		if resp != nil && resp.Data.Error != "" {
			return nil, fmt.Errorf("whisper: %s: %w", resp.Data.Error, err)
		}
		return nil, fmt.Errorf("whisper: %w", err)
	}
	out := resp.Data.Response
	out.Text = strings.TrimSpace(out.Text)
	if out.Task == "" {
		out.Task = task
	}
	return &out, nil
}

var _ transcription.Provider = (*Provider)(nil)
