package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/quorumbot/httpclient"
	"github.com/kbukum/quorumbot/httpclient/rest"
	"github.com/kbukum/quorumbot/provider"
	"github.com/kbukum/quorumbot/resilience"
)

var ErrNoDialect = errors.New("llm: dialect is required")

// Adapter sends completions to one HTTP endpoint in one Dialect. Request
// fields left zero are filled from Config. With a circuit_breaker section
// every model gets its own breaker.
type Adapter struct {
	client   *rest.Client
	dialect  Dialect
	defaults CompletionRequest
	breakers *resilience.CircuitBreakers
}

var _ provider.RequestResponse[CompletionRequest, CompletionResponse] = (*Adapter)(nil)

// New looks up cfg.Dialect among the registered dialects.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	d, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(d, cfg)
}

// NewWithDialect skips the registry; cfg.Dialect is overwritten with d's name.
func NewWithDialect(d Dialect, cfg Config) (*Adapter, error) {
	if d == nil {
		return nil, ErrNoDialect
	}
	cfg.Dialect = d.Name()
	cfg.ApplyDefaults()
	return build(d, cfg)
}

func build(d Dialect, cfg Config) (*Adapter, error) {
	client, err := rest.New(cfg.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	a := &Adapter{
		client:   client,
		dialect:  d,
		defaults: CompletionRequest{Model: cfg.Model, Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens},
	}
	if cfg.CircuitBreaker != nil {
		cb := *cfg.CircuitBreaker
		if cb.IsFailure == nil {
			// A 4xx (unknown model, spent quota) is our fault, not the upstream's.
			cb.IsFailure = httpclient.IsRetryable
		}
		a.breakers = resilience.NewCircuitBreakers(cb)
	}
	return a, nil
}

func (c Config) httpConfig() httpclient.Config {
	return httpclient.Config{
		Name:        c.Name,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		Headers:     c.Headers,
		Auth:        httpclient.BearerAuth(c.APIKey),
		RateLimiter: c.RateLimiter,
	}
}

func (a *Adapter) Name() string { return a.client.HTTP().Name() }

// IsAvailable is false only while the default model's breaker is open.
func (a *Adapter) IsAvailable(context.Context) bool {
	return a.breakers == nil || a.breakers.Get(a.defaults.Model).State() != resilience.StateOpen
}

// Execute makes one call. An HTTP failure is returned wrapped, with the
// *httpclient.Error (status and body) reachable through AsError.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.defaults.Model
	}
	if req.Temperature == 0 {
		req.Temperature = a.defaults.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.defaults.MaxTokens
	}

	payload, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: encode %s request: %w", a.dialect.Name(), err)
	}
	var resp *rest.Response[json.RawMessage]
	post := func() (err error) {
		resp, err = rest.Post[json.RawMessage](ctx, a.client, a.dialect.ChatPath(), payload)
		return err
	}
	if a.breakers == nil {
		err = post()
	} else if err = a.breakers.Get(req.Model).Execute(post); errors.Is(err, resilience.ErrCircuitOpen) {
		err = httpclient.NewConnectionError(err)
	}
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", req.Model, err)
	}
	out, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: decode %s reply: %w", a.dialect.Name(), err)
	}
	return *out, nil
}

// Complete asks model one question under a system prompt and returns the
// reply text. p may be an Adapter wrapped in provider middleware.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, CompletionResponse], model, system, user string) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		Model:        model,
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	return resp.Content, err
}
