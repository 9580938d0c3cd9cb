package repository

import (
	"context"

	"glassmap/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository records and lists audit log entries.
type ActivityRepository interface {
	Log(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}
