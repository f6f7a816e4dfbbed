package specification

import (
	"gorm.io/gorm"
)

type ByID struct {
	ID string
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OrderByCreatedAtAsc yields arrival order.
type OrderByCreatedAtAsc struct{}

func (s OrderByCreatedAtAsc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
