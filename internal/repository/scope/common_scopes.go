package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// NewestSentFirst breaks sent_at ties by id so paging is stable.
func NewestSentFirst(db *gorm.DB) *gorm.DB {
	return db.Order("sent_at DESC").Order("id DESC")
}

func NewestOccurredFirst(db *gorm.DB) *gorm.DB {
	return db.Order("occurred_at DESC")
}
