package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/prompt"
	"github.com/kbukum/quorumbot/sanitize"
)

// Publisher receives status text while a dispatch runs, typically by
// editing a chat message in place.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, text string) error

func (f PublisherFunc) Publish(ctx context.Context, text string) error { return f(ctx, text) }

type discard struct{}

func (discard) Publish(context.Context, string) error { return nil }

// Orchestrator runs quorum and selected-model queries.
type Orchestrator struct {
	caller  backend.Caller
	prompts *prompt.Builder
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates an orchestrator. metrics may be nil.
func New(caller backend.Caller, prompts *prompt.Builder, log *logger.Logger, metrics *observability.Metrics) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		caller:  caller,
		prompts: prompts,
		log:     log.WithComponent("orchestrator"),
		metrics: metrics,
	}
}

type update struct {
	index  int
	status Status
}

// Dispatch asks every backend the same question concurrently and returns
// one result per backend in submission order. A backend failure never
// cancels the others. pub may be nil.
func (o *Orchestrator) Dispatch(ctx context.Context, q prompt.Query, backends []backend.Backend, pub Publisher) []backend.Result {
	if pub == nil {
		pub = discard{}
	}
	ctx, span := observability.StartSpan(ctx, "orchestrator.dispatch")
	defer span.End()

	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name
	}
	observability.SetSpanAttribute(ctx, observability.AttrBackends, names)
	start := time.Now()

	board := NewStatusBoard(names)
	o.publish(ctx, pub, board.Render())

	// Buffered so a worker never waits on a slow publish.
	updates := make(chan update, len(backends))
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for u := range updates {
			board.Set(u.index, u.status)
			o.publish(ctx, pub, board.Render())
		}
	}()

	system := o.prompts.AnswerSystem(q.Battle)
	userPrompt := o.prompts.Question(q)

	results := make([]backend.Result, len(backends))
	var g errgroup.Group
	for i, b := range backends {
		g.Go(func() error {
			r := o.caller.Call(ctx, backend.Request{Backend: b, System: system, Prompt: userPrompt})
			results[i] = r
			st := Done
			if !r.OK() {
				st = Error
			}
			updates <- update{index: i, status: st}
			return nil
		})
	}
	_ = g.Wait()
	close(updates)
	<-drained

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	status := "success"
	if failed == len(results) && failed > 0 {
		status = "error"
	}
	o.metrics.RecordOperation(ctx, "orchestrator", "dispatch", status, time.Since(start))
	o.log.WithContext(ctx).Info("dispatch finished", logger.Fields(
		"backends", len(backends),
		"failed", failed,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return results
}

func (o *Orchestrator) publish(ctx context.Context, pub Publisher, text string) {
	if err := pub.Publish(ctx, text); err != nil {
		o.log.WithContext(ctx).Warn("status publish failed", logger.Fields(logger.FieldError, err.Error()))
	}
}

// Synthesize asks synth to merge results into one answer. On failure the
// returned error is a *backend.Error.
func (o *Orchestrator) Synthesize(ctx context.Context, q prompt.Query, results []backend.Result, synth backend.Backend) (string, error) {
	r := o.caller.Call(ctx, backend.Request{
		Backend: synth,
		System:  o.prompts.SynthesisSystem(q.Battle),
		Prompt:  o.prompts.Synthesis(q, results),
	})
	if !r.OK() {
		return "", r.Err
	}
	return r.Text, nil
}

// Summarize asks synth for a battle summary over the rendered history.
func (o *Orchestrator) Summarize(ctx context.Context, history string, synth backend.Backend) (string, error) {
	r := o.caller.Call(ctx, backend.Request{
		Backend: synth,
		System:  o.prompts.SummarySystem(),
		Prompt:  o.prompts.Summary(history),
	})
	if !r.OK() {
		return "", r.Err
	}
	return r.Text, nil
}

// Quorum dispatches to backends, announces the synthesis step on pub and
// returns the synthesized answer. If the synthesizer fails, the answer is
// its failure line followed by the raw per-backend answers.
func (o *Orchestrator) Quorum(ctx context.Context, q prompt.Query, backends []backend.Backend, synth backend.Backend, pub Publisher) string {
	if pub == nil {
		pub = discard{}
	}
	results := o.Dispatch(ctx, q, backends, pub)
	o.publish(ctx, pub, fmt.Sprintf("🤔 Synthesizing final answer with %s...", synth.Name))

	text, err := o.Synthesize(ctx, q, results, synth)
	if err == nil {
		return text
	}
	o.log.WithContext(ctx).Warn("synthesis failed, returning raw answers", logger.Fields(
		logger.FieldBackend, synth.Name, logger.FieldError, err.Error(),
	))
	failure := prompt.ResultText(backend.Result{Name: synth.Name, Err: err})
	return failure + sanitize.SectionSeparator + FormatResults(results)
}

// FormatResults labels each result as "**Name:**" followed by its text and
// separates them with a horizontal rule.
func FormatResults(results []backend.Result) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = "**" + r.Name + ":**\n" + prompt.ResultText(r)
	}
	return strings.Join(parts, sanitize.SectionSeparator)
}
