package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jthom21/moviola/internal/models"
)

// StreamRepository handles database operations for stream configuration
type StreamRepository struct {
	db *DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *DB) *StreamRepository {
	return &StreamRepository{db: db}
}

// Create inserts a new stream into the database
func (r *StreamRepository) Create(ctx context.Context, stream *models.Stream) error {
	result := r.db.WithContext(ctx).Create(stream)
	if result.Error != nil {
		return fmt.Errorf("failed to create stream: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a stream by its UUID
func (r *StreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Stream, error) {
	var stream models.Stream
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&stream)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &stream, nil
}

// List retrieves all streams ordered by name
func (r *StreamRepository) List(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	result := r.db.WithContext(ctx).Order("name ASC").Find(&streams)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list streams: %w", MapGormError(result.Error))
	}
	return streams, nil
}

// Update updates an existing stream
func (r *StreamRepository) Update(ctx context.Context, stream *models.Stream) error {
	stream.UpdatedAt = time.Now().UTC()

	// Use Select to explicitly update all fields including zero values
	result := r.db.WithContext(ctx).
		Where("id = ?", stream.ID.String()).
		Select("name", "source_url", "channel_id", "enabled", "retention_days", "updated_at").
		Updates(stream)
	if result.Error != nil {
		return fmt.Errorf("failed to update stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a stream by its UUID
func (r *StreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Stream{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
