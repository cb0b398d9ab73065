package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/battle"
	"github.com/kbukum/quorumbot/chunk"
	"github.com/kbukum/quorumbot/errors"
	"github.com/kbukum/quorumbot/history"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/orchestrator"
	"github.com/kbukum/quorumbot/prompt"
	"github.com/kbukum/quorumbot/sanitize"
	"github.com/kbukum/quorumbot/transcription"
	"github.com/kbukum/quorumbot/transport"
)

const (
	thinkingText = "🤔 Thinking..."
	emptyAnswer  = "(empty response)"
)

// Deps are the collaborators of a Dispatcher. Files and Transcriber are
// optional; without them voice messages are ignored.
type Deps struct {
	Sender       transport.Sender
	Files        transport.FileSource
	Transcriber  transcription.Provider
	Catalog      *backend.Catalog
	Orchestrator *orchestrator.Orchestrator
	Battle       *battle.Machine
	History      history.Store
	Prompts      *prompt.Builder
}

// Dispatcher handles one inbound event at a time per call; calls may run
// concurrently.
type Dispatcher struct {
	Deps
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(deps Deps, cfg Config, log *logger.Logger, metrics *observability.Metrics) *Dispatcher {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		Deps:    deps,
		cfg:     cfg,
		log:     log.WithComponent("bot"),
		metrics: metrics,
		now:     time.Now,
	}
}

// HandleEvent implements transport.Handler synchronously.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev transport.Event) {
	d.Handle(ctx, ev)
}

// Handle routes ev and delivers the outcome. Failures are reported to the
// chat or logged; nothing is returned.
func (d *Dispatcher) Handle(ctx context.Context, ev transport.Event) {
	if d.cfg.TargetChatID != 0 && ev.ChatID != d.cfg.TargetChatID {
		d.log.Debug("ignoring message from non-target chat", logger.Fields(logger.FieldChatID, ev.ChatID))
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.ReceivedAt = d.now()
	ctx = logger.ContextWithEventID(ctx, ev.ID)
	ctx, span := observability.StartSpan(ctx, "bot.handle")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrChatID, ev.ChatID)

	if ev.IsVoice() {
		text, ok := d.transcribe(ctx, ev)
		if !ok {
			return
		}
		ev.Text = text
	}
	if ev.Text == "" {
		return
	}

	kind := Route(ev.Text)
	observability.SetSpanAttribute(ctx, observability.AttrCommand, string(kind))
	d.metrics.RecordCommand(ctx, string(kind))
	fields := logger.Fields(
		logger.FieldChatID, ev.ChatID,
		logger.FieldMessageID, ev.MessageID,
		logger.FieldUserID, ev.AuthorID,
		logger.FieldCommand, string(kind),
	)
	if !ev.SentAt.IsZero() {
		fields["lag_ms"] = ev.ReceivedAt.Sub(ev.SentAt).Milliseconds()
	}
	d.log.WithContext(ctx).Info("event routed", fields)

	switch kind {
	case KindStartBattle:
		d.startBattle(ctx, ev)
	case KindStopBattle:
		d.stopBattle(ctx, ev)
	case KindSelect:
		d.selectModels(ctx, ev)
	case KindQuorum:
		d.quorum(ctx, ev)
	default:
		d.archive(ctx, ev, ev.Text)
	}
}

func (d *Dispatcher) record(ev transport.Event, text string) history.ChatRecord {
	return history.ChatRecord{
		ChatID:     ev.ChatID,
		AuthorID:   ev.AuthorID,
		AuthorName: ev.AuthorName,
		Text:       text,
		CreatedAt:  ev.ReceivedAt,
	}
}

func (d *Dispatcher) archive(ctx context.Context, ev transport.Event, text string) {
	if err := d.History.Append(ctx, d.record(ev, text)); err != nil {
		d.log.WithContext(ctx).Error("archive message failed", logger.Fields(
			logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error(),
		))
	}
}

func (d *Dispatcher) startBattle(ctx context.Context, ev transport.Event) {
	msg, err := d.Battle.Start(ctx, d.record(ev, ev.Text))
	if err != nil {
		d.replyError(ctx, ev, err)
		return
	}
	d.reply(ctx, ev, msg, transport.ParseModeMarkdown)
}

func (d *Dispatcher) stopBattle(ctx context.Context, ev transport.Event) {
	s, err := d.Battle.Status(ctx, ev.ChatID)
	if err != nil {
		d.replyError(ctx, ev, err)
		return
	}

	// The pending notice only goes out when a battle is running; Stop
	// re-checks the state under its lock and reports the conflict otherwise.
	var (
		pending transport.Handle
		sent    bool
	)
	if s.Active {
		pending, sent = d.reply(ctx, ev, battle.SummaryPending, transport.ParseModeNone)
	}
	out, err := d.Battle.Stop(ctx, d.record(ev, ev.Text))
	if err != nil {
		d.deliver(ctx, ev, pending, sent, d.errorText(ctx, ev, err), transport.ParseModeNone)
		return
	}
	d.deliver(ctx, ev, pending, sent, out.Message(), transport.ParseModeMarkdown)
}

func (d *Dispatcher) selectModels(ctx context.Context, ev transport.Event) {
	backends, question, err := ParseSelect(ev.Text, d.Catalog)
	if err != nil {
		d.replyError(ctx, ev, err)
		return
	}
	d.archive(ctx, ev, "q2: "+question)

	thinking, sent := d.reply(ctx, ev, thinkingText, transport.ParseModeNone)
	q, ok := d.query(ctx, ev, question)
	if !ok {
		d.deliver(ctx, ev, thinking, sent, errors.UserMessage(errors.Internal(nil)), transport.ParseModeNone)
		return
	}
	results := d.Orchestrator.Dispatch(ctx, q, backends, d.publisher(thinking, sent))
	text := sanitize.StripMarkupKeepLabels(orchestrator.FormatResults(results))
	d.deliver(ctx, ev, thinking, sent, text, transport.ParseModeMarkdown)
}

func (d *Dispatcher) quorum(ctx context.Context, ev transport.Event) {
	question := QuorumQuestion(ev.Text)
	d.archive(ctx, ev, question)

	thinking, sent := d.reply(ctx, ev, thinkingText, transport.ParseModeNone)
	q, ok := d.query(ctx, ev, question)
	if !ok {
		d.deliver(ctx, ev, thinking, sent, errors.UserMessage(errors.Internal(nil)), transport.ParseModeNone)
		return
	}
	answer := d.Orchestrator.Quorum(ctx, q, d.Catalog.Quorum(), d.Catalog.Synthesizer(), d.publisher(thinking, sent))
	d.deliver(ctx, ev, thinking, sent, sanitize.StripMarkup(answer), transport.ParseModeNone)
}

// query builds the prompt input with the history window battle mode
// selects. The window already contains the archived question.
func (d *Dispatcher) query(ctx context.Context, ev transport.Event, question string) (prompt.Query, bool) {
	records, session, err := d.Battle.Window(ctx, ev.ChatID, d.Prompts.HistoryLimit())
	if err != nil {
		d.log.WithContext(ctx).Error("load history window failed", logger.Fields(
			logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error(),
		))
		return prompt.Query{}, false
	}
	return prompt.Query{
		Text:       question,
		AuthorID:   ev.AuthorID,
		AuthorName: ev.AuthorName,
		History:    history.Format(records),
		Battle:     session.Active,
	}, true
}

// publisher edits the status message in place. Without one, status
// updates are dropped.
func (d *Dispatcher) publisher(h transport.Handle, sent bool) orchestrator.Publisher {
	if !sent {
		return nil
	}
	return orchestrator.PublisherFunc(func(ctx context.Context, text string) error {
		return d.Sender.Edit(ctx, h, text, transport.SendOptions{})
	})
}

// reply sends text as a reply to ev. sent is false when the transport
// failed; the failure is logged.
func (d *Dispatcher) reply(ctx context.Context, ev transport.Event, text string, mode transport.ParseMode) (transport.Handle, bool) {
	h, err := d.Sender.Send(ctx, ev.ChatID, text, transport.SendOptions{ParseMode: mode, ReplyTo: ev.MessageID})
	if err != nil {
		d.log.WithContext(ctx).Error("send failed", logger.Fields(
			logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error(),
		))
		return transport.Handle{}, false
	}
	return h, true
}

func (d *Dispatcher) replyError(ctx context.Context, ev transport.Event, err error) {
	d.reply(ctx, ev, d.errorText(ctx, ev, err), transport.ParseModeNone)
}

// errorText renders err for the chat. Errors that are not AppErrors are
// logged and shown as a generic internal error.
func (d *Dispatcher) errorText(ctx context.Context, ev transport.Event, err error) string {
	if _, ok := errors.AsAppError(err); !ok {
		d.log.WithContext(ctx).Error("command failed", logger.Fields(
			logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error(),
		))
		err = errors.Internal(err)
	}
	return errors.UserMessage(err)
}

// deliver splits text to the message limit. The first chunk replaces the
// status message when there is one; the rest are sent as replies.
func (d *Dispatcher) deliver(ctx context.Context, ev transport.Event, status transport.Handle, hasStatus bool,
	text string, mode transport.ParseMode) {
	if strings.TrimSpace(text) == "" {
		text = emptyAnswer
	}
	chunks := chunk.Split(text, d.cfg.MaxMessageLength)
	if hasStatus {
		if err := d.Sender.Edit(ctx, status, chunks[0], transport.SendOptions{ParseMode: mode}); err != nil {
			d.log.WithContext(ctx).Error("edit failed", logger.Fields(
				logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error(),
			))
		}
		chunks = chunks[1:]
	}
	for _, c := range chunks {
		d.reply(ctx, ev, c, mode)
	}
}
