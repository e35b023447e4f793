package specification

import (
	"airdrop-tracker-be/internal/repository/scope"

	"gorm.io/gorm"
)

// NewestFirst orders chat messages by send time, latest first.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.NewestSentFirst)
}

// NewestOccurredFirst orders activity log entries, latest first.
type NewestOccurredFirst struct{}

func (s NewestOccurredFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.NewestOccurredFirst)
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}
