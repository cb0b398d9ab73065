package battle

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/errors"
	"github.com/kbukum/quorumbot/history"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/provider"
	"github.com/kbukum/quorumbot/sanitize"
	"github.com/kbukum/quorumbot/score"
)

// Session is the battle state of one chat. StartedAt is set iff Active.
type Session struct {
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// Config configures battle mode.
type Config struct {
	// Project names the subject in the start announcement.
	Project string `mapstructure:"project"`
	// SessionTTL expires an abandoned active session (0 keeps it forever).
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Summarizer produces the battle summary text from rendered history.
type Summarizer interface {
	Summarize(ctx context.Context, history string, synth backend.Backend) (string, error)
}

// Machine runs the idle/active transitions of every chat.
type Machine struct {
	cfg        Config
	sessions   provider.StateStore[Session]
	history    history.Store
	summarizer Summarizer
	synth      backend.Backend
	log        *logger.Logger
	now        func() time.Time

	// transitions of chats sharing a stripe serialize
	stripes [lockStripes]sync.Mutex
}

const lockStripes = 64

// New creates a battle machine.
func New(cfg Config, sessions provider.StateStore[Session], hist history.Store,
	summarizer Summarizer, synth backend.Backend, log *logger.Logger) *Machine {
	if cfg.Project == "" {
		cfg.Project = "XLN"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Machine{
		cfg:        cfg,
		sessions:   sessions,
		history:    hist,
		summarizer: summarizer,
		synth:      synth,
		log:        log.WithComponent("battle"),
		now:        time.Now,
	}
}

func (m *Machine) lock(chatID int64) func() {
	l := &m.stripes[uint64(chatID)%lockStripes]
	l.Lock()
	return l.Unlock
}

func key(chatID int64) string { return strconv.FormatInt(chatID, 10) }

// Status returns the session of chatID; a chat never seen is idle.
func (m *Machine) Status(ctx context.Context, chatID int64) (Session, error) {
	s, err := m.sessions.Load(ctx, key(chatID))
	if err != nil {
		return Session{}, err
	}
	if s == nil || !s.Active || s.StartedAt == nil {
		return Session{}, nil
	}
	return *s, nil
}

// Start activates battle mode for cmd.ChatID and archives cmd. It returns
// the announcement, or a STATE_CONFLICT error if a battle is already active.
func (m *Machine) Start(ctx context.Context, cmd history.ChatRecord) (string, error) {
	unlock := m.lock(cmd.ChatID)
	s, err := m.Status(ctx, cmd.ChatID)
	if err != nil {
		unlock()
		return "", err
	}
	if s.Active {
		unlock()
		return "", errors.StateConflict(alreadyActive)
	}
	now := m.stamp(&cmd)
	if err := m.sessions.Save(ctx, key(cmd.ChatID), &Session{Active: true, StartedAt: &now}, m.cfg.SessionTTL); err != nil {
		unlock()
		return "", err
	}
	unlock()

	m.archive(ctx, cmd)
	m.log.WithContext(ctx).Info("battle started", logger.Fields(logger.FieldChatID, cmd.ChatID))
	return StartMessage(m.cfg.Project), nil
}

// Outcome is the result of stopping a battle.
type Outcome struct {
	// Summary is the summary text, or the failure line when SummaryErr is set.
	Summary string
	Table   *score.Table
	// SummaryErr is a SUMMARY_GENERATION_FAILED AppError when the
	// summary could not be produced.
	SummaryErr error
}

// Message composes the final battle message: banner, summary, scoreboard.
func (o *Outcome) Message() string {
	return StopMessage + sanitize.SectionSeparator + "**Battle Summary:**\n\n" + o.Summary +
		sanitize.SectionSeparator + score.FormatScoreboard(o.Table)
}

// Stop ends the active battle of cmd.ChatID and archives cmd. The session
// is idle once Stop passes the state check, whether or not the summary
// succeeds. It returns a STATE_CONFLICT error if no battle is active.
func (m *Machine) Stop(ctx context.Context, cmd history.ChatRecord) (*Outcome, error) {
	unlock := m.lock(cmd.ChatID)
	s, err := m.Status(ctx, cmd.ChatID)
	if err != nil {
		unlock()
		return nil, err
	}
	if !s.Active {
		unlock()
		return nil, errors.StateConflict(notActive)
	}
	if err := m.sessions.Save(ctx, key(cmd.ChatID), &Session{}, m.cfg.SessionTTL); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	m.stamp(&cmd)
	m.archive(ctx, cmd)
	log := m.log.WithContext(ctx)
	log.Info("battle stopped", logger.Fields(logger.FieldChatID, cmd.ChatID))

	out := &Outcome{Table: score.NewTable()}
	records, err := m.history.Since(ctx, cmd.ChatID, *s.StartedAt)
	if err == nil {
		out.Summary, err = m.summarizer.Summarize(ctx, history.Format(records), m.synth)
	}
	if err != nil {
		log.Error("battle summary failed", logger.Fields(logger.FieldChatID, cmd.ChatID, logger.FieldError, err.Error()))
		out.SummaryErr = errors.SummaryGeneration(err)
		out.Summary = "Error generating battle summary: " + reason(err)
		return out, nil
	}

	out.Table = score.Extract(out.Summary)
	log.Info("battle summary ready", logger.Fields(
		logger.FieldChatID, cmd.ChatID, "participants", out.Table.Len(), "records", len(records),
	))
	return out, nil
}

// stamp keeps the receipt time the dispatcher put on cmd, so the battle
// start and the chat messages share one clock. Unstamped commands get the
// machine's own.
func (m *Machine) stamp(cmd *history.ChatRecord) time.Time {
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = m.now()
	}
	return cmd.CreatedAt
}

func reason(err error) string {
	if be, ok := backend.AsError(err); ok {
		return be.Reason()
	}
	return err.Error()
}

// Window returns the history the prompts should see: everything since the
// battle started, or the last limit records when idle.
func (m *Machine) Window(ctx context.Context, chatID int64, limit int) ([]history.ChatRecord, Session, error) {
	s, err := m.Status(ctx, chatID)
	if err != nil {
		return nil, Session{}, err
	}
	var records []history.ChatRecord
	if s.Active {
		records, err = m.history.Since(ctx, chatID, *s.StartedAt)
	} else {
		records, err = m.history.LastN(ctx, chatID, limit)
	}
	return records, s, err
}

func (m *Machine) archive(ctx context.Context, rec history.ChatRecord) {
	if err := m.history.Append(ctx, rec); err != nil {
		m.log.WithContext(ctx).Warn("archive battle command failed", logger.Fields(
			logger.FieldChatID, rec.ChatID, logger.FieldError, err.Error(),
		))
	}
}
