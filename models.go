package main

import (
	"time"

	"github.com/codingcraftz/wedding/guestbook"
	"gorm.io/datatypes"
)

// GuestbookEntry is a stored guestbook message
type GuestbookEntry struct {
	ID         string    `gorm:"primaryKey;type:text"`
	Author     string    `gorm:"not null"`
	Message    string    `gorm:"type:text;not null"`
	SecretHash string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index"`
}

func (e GuestbookEntry) toMessage() guestbook.Message {
	return guestbook.Message{
		ID:        e.ID,
		Author:    e.Author,
		Body:      e.Message,
		CreatedAt: e.CreatedAt,
	}
}

// Preference is a persisted per-visitor flag
type Preference struct {
	VisitorID string         `gorm:"primaryKey;type:text"`
	Key       string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}
