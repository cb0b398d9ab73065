package history

import (
	"context"
	"slices"
	"time"

	"github.com/kbukum/quorumbot/database"
)

// GormStore persists the log through GORM.
type GormStore struct {
	db *database.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store over db. The chat_records table must exist;
// register ChatRecord with database.Component.WithAutoMigrate or call Migrate.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the chat_records table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&ChatRecord{})
}

func (s *GormStore) Append(ctx context.Context, rec ChatRecord) error {
	rec.ID = 0
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	// SQLite compares timestamps as text; a single zone keeps that ordered.
	rec.CreatedAt = rec.CreatedAt.UTC()
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return database.FromDatabase(err, "chat record")
	}
	return nil
}

func (s *GormStore) LastN(ctx context.Context, chatID int64, n int) ([]ChatRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	var out []ChatRecord
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").Order("id DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, database.FromDatabase(err, "chat record")
	}
	slices.Reverse(out)
	return out, nil
}

func (s *GormStore) Since(ctx context.Context, chatID int64, t time.Time) ([]ChatRecord, error) {
	var out []ChatRecord
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND created_at >= ?", chatID, t.UTC()).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, database.FromDatabase(err, "chat record")
	}
	return out, nil
}
