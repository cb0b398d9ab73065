package transport

import (
	"context"
	"time"
)

// Event is one inbound chat message.
type Event struct {
	// ID correlates log lines of one handled event.
	ID         string
	ChatID     int64
	MessageID  int64
	AuthorID   int64
	AuthorName string
	Text       string
	// VoiceFileID is set for voice messages; Text is then empty.
	VoiceFileID string
	// SentAt is the platform's own send time, when it reports one. It is
	// only logged: ReceivedAt, stamped by the handler on arrival, orders
	// history and battle windows.
	SentAt     time.Time
	ReceivedAt time.Time
}

// IsVoice reports whether the event carries a voice message.
func (e Event) IsVoice() bool { return e.VoiceFileID != "" }

// Handle addresses a sent message for later edits.
type Handle struct {
	ChatID    int64
	MessageID int64
}

// ParseMode selects how the chat renders message text.
type ParseMode string

const (
	ParseModeNone     ParseMode = ""
	ParseModeMarkdown ParseMode = "Markdown"
)

// SendOptions tunes one send or edit.
type SendOptions struct {
	ParseMode ParseMode
	// ReplyTo quotes this message id when non-zero.
	ReplyTo int64
}

// Sender delivers and edits messages.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, opts SendOptions) (Handle, error)
	Edit(ctx context.Context, h Handle, text string, opts SendOptions) error
}

// Handler consumes inbound events.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event)

func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) { f(ctx, ev) }

// Receiver produces inbound events until ctx is done.
type Receiver interface {
	Receive(ctx context.Context, h Handler) error
}

// FileSource downloads attachments such as voice messages.
type FileSource interface {
	Download(ctx context.Context, fileID string) (data []byte, fileName string, err error)
}
