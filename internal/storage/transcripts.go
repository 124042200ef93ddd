package storage

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// TranscriptTurn is one persisted conversation turn. Orders themselves are
// never persisted; the transcript is an audit trail only.
type TranscriptTurn struct {
	ID        uint      `gorm:"primary_key"`
	SessionID string    `gorm:"index;not null"`
	Role      string    `gorm:"not null"`
	Text      string    `gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptStore writes conversation turns to SQLite. It is optional; a
// nil *TranscriptStore accepts and drops everything.
type TranscriptStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the transcript database at path
func Open(path string) (*TranscriptStore, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript store: %w", err)
	}
	if err := db.AutoMigrate(&TranscriptTurn{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate transcript store: %w", err)
	}
	return &TranscriptStore{db: db}, nil
}

// Record appends one turn to a session's transcript
func (s *TranscriptStore) Record(sessionID, role, text string) error {
	if s == nil {
		return nil
	}
	turn := TranscriptTurn{SessionID: sessionID, Role: role, Text: text}
	if err := s.db.Create(&turn).Error; err != nil {
		return fmt.Errorf("record transcript turn: %w", err)
	}
	return nil
}

// Session returns a session's turns in order
func (s *TranscriptStore) Session(sessionID string) ([]TranscriptTurn, error) {
	if s == nil {
		return nil, nil
	}
	var turns []TranscriptTurn
	err := s.db.Where("session_id = ?", sessionID).Order("id asc").Find(&turns).Error
	if err != nil {
		return nil, fmt.Errorf("load transcript for %s: %w", sessionID, err)
	}
	return turns, nil
}

// Close closes the underlying database
func (s *TranscriptStore) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
