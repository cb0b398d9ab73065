package history

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ChatRecord is one archived chat message.
type ChatRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID     int64     `gorm:"index:idx_chat_created,priority:1;not null" json:"chat_id"`
	AuthorID   int64     `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"size:255" json:"author_name"`
	Text       string    `gorm:"type:text" json:"text"`
	CreatedAt  time.Time `gorm:"index:idx_chat_created,priority:2" json:"created_at"`
}

// TableName pins the GORM table name.
func (ChatRecord) TableName() string { return "chat_records" }

// Store is the chat log. Implementations are safe for concurrent use.
type Store interface {
	// Append adds rec to the log. A zero CreatedAt is set to the current time.
	Append(ctx context.Context, rec ChatRecord) error
	// LastN returns up to n most recent records of chatID, oldest first.
	LastN(ctx context.Context, chatID int64, n int) ([]ChatRecord, error)
	// Since returns every record of chatID created at or after t, oldest first.
	Since(ctx context.Context, chatID int64, t time.Time) ([]ChatRecord, error)
}

const timeLayout = "2006-01-02 15:04:05"

// Format renders records one per line as "[time] author: text", the form
// embedded into prompts.
func Format(records []ChatRecord) string {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%s] %s: %s", r.CreatedAt.Format(timeLayout), r.AuthorName, r.Text)
	}
	return sb.String()
}
