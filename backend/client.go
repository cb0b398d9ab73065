package backend

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/kbukum/quorumbot/llm"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/provider"
)

// Completer is the chat completion provider the client calls, usually an
// *llm.Adapter.
type Completer = provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]

// Caller issues one backend call. Call never fails past the boundary: the
// outcome is always a Result.
type Caller interface {
	Call(ctx context.Context, req Request) Result
}

// Client calls answer backends through one completion provider.
type Client struct {
	completer Completer
	log       *logger.Logger
}

// NewClient wraps completer with logging, metrics and tracing middleware.
// metrics may be nil.
func NewClient(completer Completer, log *logger.Logger, metrics *observability.Metrics) *Client {
	wrapped := provider.Chain(
		provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log),
		provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](metrics, "backend"),
		provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("backend"),
	)(completer)
	return &Client{completer: wrapped, log: log.WithComponent("backend")}
}

// Call sends the prompt to req.Backend. Failures are logged with the
// backend, status and truncated body, then returned as a *Error result.
func (c *Client) Call(ctx context.Context, req Request) Result {
	ctx, span := observability.StartSpan(ctx, "backend.call")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrBackend, req.Backend.Name)
	observability.SetSpanAttribute(ctx, observability.AttrModel, req.Backend.ID)

	start := time.Now()
	text, err := llm.Complete(ctx, c.completer, req.Backend.ID, req.System, req.Prompt)
	fields := logger.Fields(
		logger.FieldBackend, req.Backend.Name,
		logger.FieldModel, req.Backend.ID,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	log := c.log.WithContext(ctx)

	if err != nil {
		be := newError(req.Backend.Name, err)
		fields[logger.FieldStatus] = be.Status
		fields["body"] = be.Detail
		fields[logger.FieldError] = err.Error()
		log.Error("backend call failed", fields)
		observability.SetSpanError(ctx, be)
		return Result{Name: req.Backend.Name, Err: be}
	}

	fields["chars"] = utf8.RuneCountInString(text)
	log.Info("backend answered", fields)
	return Result{Name: req.Backend.Name, Text: text}
}

var _ Caller = (*Client)(nil)
