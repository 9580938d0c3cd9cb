// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Spot represents a point of interest shown on the map.
//
// Spots are never physically removed while referenced: DELETE flips IsActive
// and every read path filters on it.
type Spot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	// WGS84 decimal degrees.
	Latitude  float64 `gorm:"not null;type:decimal(10,8)" json:"latitude"`
	Longitude float64 `gorm:"not null;type:decimal(11,8)" json:"longitude"`
	Icon      string  `json:"icon"`
	Rating    float64 `gorm:"default:0;type:decimal(3,2)" json:"rating"`
	// Price is nullable; a spot with no price passes price-range filters.
	Price      *float64 `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	EditorPick bool     `gorm:"default:false" json:"editor_pick"`
	IsActive   bool     `gorm:"default:true;index" json:"is_active"`
	CreatedBy  uint     `json:"created_by"`
	UpdatedBy  uint     `json:"updated_by"`

	Media          []Media         `gorm:"foreignKey:SpotID" json:"media"`
	Tips           []Tip           `gorm:"foreignKey:SpotID" json:"tips"`
	Hours          []OpeningHours  `gorm:"foreignKey:SpotID" json:"hours"`
	Social         []SocialLink    `gorm:"foreignKey:SpotID" json:"social"`
	Author         *Author         `gorm:"foreignKey:SpotID" json:"author,omitempty"`
	RelatedArticle *RelatedArticle `gorm:"foreignKey:SpotID" json:"related_article,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Media types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is an image or video attached to a spot, ordered by DisplayOrder.
type Media struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SpotID       uint   `gorm:"not null;index" json:"spot_id"`
	Type         string `gorm:"not null" json:"type"`
	URL          string `gorm:"not null" json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
}

// Tip is a short free-text visitor tip for a spot.
type Tip struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SpotID       uint   `gorm:"not null;index" json:"spot_id"`
	TipText      string `gorm:"type:text;not null" json:"tip_text"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
	CreatedBy    uint   `json:"created_by"`
}

// OpeningHours holds one weekday's open/close window for a spot.
// DayOfWeek uses the Sunday=0 convention. Times are "HH:MM" strings.
type OpeningHours struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SpotID    uint   `gorm:"not null;index" json:"spot_id"`
	DayOfWeek int    `gorm:"not null" json:"day_of_week"`
	OpenTime  string `gorm:"type:varchar(5)" json:"open_time"`
	CloseTime string `gorm:"type:varchar(5)" json:"close_time"`
	IsClosed  bool   `gorm:"default:false" json:"is_closed"`
}

// Social platforms accepted for a spot link.
const (
	PlatformInstagram = "instagram"
	PlatformWebsite   = "website"
)

// SocialLink maps a platform name to a URL, unique per (spot, platform).
type SocialLink struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SpotID   uint   `gorm:"not null;index;uniqueIndex:idx_spot_platform" json:"spot_id"`
	Platform string `gorm:"not null;uniqueIndex:idx_spot_platform" json:"platform"`
	URL      string `gorm:"not null" json:"url"`
}

// Author is the single listed author of a spot's write-up.
type Author struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SpotID    uint   `gorm:"not null;uniqueIndex" json:"spot_id"`
	Name      string `gorm:"not null" json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RelatedArticle links a spot to at most one external article.
type RelatedArticle struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	SpotID uint   `gorm:"not null;uniqueIndex" json:"spot_id"`
	Title  string `gorm:"not null" json:"title"`
	URL    string `gorm:"not null" json:"url"`
}
