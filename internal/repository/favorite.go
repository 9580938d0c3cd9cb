package repository

import (
	"context"

	"glassmap/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	Add(ctx context.Context, userID, spotID uint) error
	Remove(ctx context.Context, userID, spotID uint) error
	IsFavorite(ctx context.Context, userID, spotID uint) (bool, error)
	SpotIDs(ctx context.Context, userID uint) ([]uint, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, spotID uint) error {
	// Use INSERT ... ON CONFLICT DO NOTHING to handle race conditions
	// This is atomic and prevents duplicate key errors
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO favorites (user_id, spot_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, spot_id) DO NOTHING`,
		userID, spotID,
	).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, spotID uint) error {
	// Hard delete; removing an absent favorite is a no-op
	return r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND spot_id = ?", userID, spotID).
		Delete(&models.Favorite{}).Error
}

func (r *favoriteRepository) IsFavorite(ctx context.Context, userID, spotID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND spot_id = ?", userID, spotID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favoriteRepository) SpotIDs(ctx context.Context, userID uint) ([]uint, error) {
	var spotIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("spot_id", &spotIDs).Error
	return spotIDs, err
}
