package telegram

import (
	"strings"
	"time"

	"github.com/kbukum/quorumbot/transport"
)

// envelope is the Bot API response wrapper.
type envelope[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Update is one getUpdates entry or webhook payload.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is the subset of a Telegram message the bot reads.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
	Voice     *Voice `json:"voice,omitempty"`
}

// User is a message author.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat identifies a conversation.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Voice is a voice note attachment.
type Voice struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
	MimeType string `json:"mime_type,omitempty"`
}

// File is a getFile result.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// DisplayName is the username, else the full name, else "Unknown".
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.Username != "" {
		return u.Username
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return "Unknown"
}

// Event converts u into a transport event. It reports false for updates
// without a text or voice message.
func (u Update) Event() (transport.Event, bool) {
	m := u.Message
	if m == nil || (m.Text == "" && m.Voice == nil) {
		return transport.Event{}, false
	}
	ev := transport.Event{
		ChatID:     m.Chat.ID,
		MessageID:  m.MessageID,
		AuthorName: m.From.DisplayName(),
		Text:       m.Text,
		SentAt:     time.Unix(m.Date, 0),
	}
	if m.From != nil {
		ev.AuthorID = m.From.ID
	}
	if m.Voice != nil {
		ev.VoiceFileID = m.Voice.FileID
	}
	return ev, true
}
