package models

import "time"

// Activity log actions.
const (
	ActionSpotCreated = "spot_created"
	ActionSpotUpdated = "spot_updated"
	ActionSpotDeleted = "spot_deleted"
	ActionRoleChanged = "role_changed"
	ActionUserLogin   = "user_login"
)

// ActivityLog records a mutating admin or auth action for auditing.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `gorm:"not null;index" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
