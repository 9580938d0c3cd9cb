package models

import "time"

// Favorite marks a spot as saved by a user. The (user, spot) pair is unique
// and writes are idempotent.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_spot" json:"user_id"`
	SpotID    uint      `gorm:"not null;index;uniqueIndex:idx_user_spot" json:"spot_id"`
	CreatedAt time.Time `json:"created_at"`
}
