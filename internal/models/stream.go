// Package models defines the persisted entities of the service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Stream represents one configured camera stream
type Stream struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name          string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	SourceURL     string    `json:"source_url" gorm:"type:text;not null;column:source_url" validate:"required"`
	ChannelID     string    `json:"channel_id" gorm:"type:text;not null;default:'0';column:channel_id"`
	Enabled       bool      `json:"enabled" gorm:"type:integer;not null;default:1;column:enabled"`
	RetentionDays int       `json:"retention_days" gorm:"type:integer;not null;default:7;column:retention_days"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewStream creates a new Stream with generated UUID and timestamps
func NewStream(name, sourceURL, channelID string, retentionDays int) *Stream {
	now := time.Now().UTC()
	return &Stream{
		ID:            uuid.New(),
		Name:          name,
		SourceURL:     sourceURL,
		ChannelID:     channelID,
		Enabled:       true,
		RetentionDays: retentionDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
