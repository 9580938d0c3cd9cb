// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"glassmap/internal/cache"
	"glassmap/internal/middleware"
	"glassmap/internal/models"

	"gorm.io/gorm"
)

// haversineSQL computes the great-circle distance in kilometers between the
// bound point and a spot's coordinates. Earth radius 6371 km.
const haversineSQL = "(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * " +
	"cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude))))"

// SpotFilter carries the optional predicates for a spot listing. Zero values
// mean "not set": empty strings skip the clause and nil pointers skip the
// radius clause. Radius filtering needs all three of Lat, Lng and RadiusKm.
type SpotFilter struct {
	Category      string
	Search        string
	Lat           *float64
	Lng           *float64
	RadiusKm      *float64
	FavoritesOnly bool
	UserID        uint
}

// HasRadius reports whether the filter carries a complete radius predicate.
func (f SpotFilter) HasRadius() bool {
	return f.Lat != nil && f.Lng != nil && f.RadiusKm != nil
}

// Fingerprint returns a stable cache key fragment for the filter. Listings
// scoped to a user's favorites are never cached, so the fingerprint covers
// only the shared predicates.
func (f SpotFilter) Fingerprint() string {
	v := url.Values{}
	if f.Category != "" && f.Category != "all" {
		v.Set("category", f.Category)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.HasRadius() {
		v.Set("lat", fmt.Sprintf("%.6f", *f.Lat))
		v.Set("lng", fmt.Sprintf("%.6f", *f.Lng))
		v.Set("radius", fmt.Sprintf("%.3f", *f.RadiusKm))
	}
	return v.Encode()
}

// SpotRepository defines the interface for spot data operations
type SpotRepository interface {
	Create(ctx context.Context, spot *models.Spot) error
	GetByID(ctx context.Context, id uint) (*models.Spot, error)
	List(ctx context.Context, filter SpotFilter) ([]*models.Spot, error)
	Update(ctx context.Context, spot *models.Spot) error
	SoftDelete(ctx context.Context, id, deletedBy uint) error
}

// spotRepository implements SpotRepository
type spotRepository struct {
	db *gorm.DB
}

// NewSpotRepository creates a new spot repository
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

// preloadChildren attaches every child collection a formatted spot needs.
// Media and tips come back in display order so callers never re-sort.
func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Tips", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Hours", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC")
		}).
		Preload("Social").
		Preload("Author").
		Preload("RelatedArticle")
}

func (r *spotRepository) Create(ctx context.Context, spot *models.Spot) error {
	defer middleware.TrackQuery("create", "spots")()

	// gorm creates the nested children in the same transaction
	err := r.db.WithContext(ctx).Create(spot).Error
	if err == nil {
		cache.InvalidateSpotLists(ctx)
	}
	return err
}

func (r *spotRepository) GetByID(ctx context.Context, id uint) (*models.Spot, error) {
	var spot models.Spot
	err := cache.Aside(ctx, cache.SpotKey(id), &spot, cache.SpotTTL, func() error {
		return preloadChildren(r.db.WithContext(ctx)).
			Where("is_active = ?", true).
			First(&spot, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

// applyFilter chains the WHERE clauses for each predicate the filter sets.
// Inactive spots are excluded unconditionally.
func (r *spotRepository) applyFilter(db *gorm.DB, filter SpotFilter) *gorm.DB {
	q := db.Model(&models.Spot{}).Where("spots.is_active = ?", true)

	if filter.Category != "" && filter.Category != "all" {
		q = q.Joins("JOIN categories ON categories.id = spots.category_id").
			Where("categories.slug = ?", filter.Category)
	}

	if filter.Search != "" {
		like := "%" + strings.TrimSpace(filter.Search) + "%"
		q = q.Where("(spots.name ILIKE ? OR spots.description ILIKE ?)", like, like)
	}

	if filter.HasRadius() {
		q = q.Where(haversineSQL+" <= ?", *filter.Lat, *filter.Lng, *filter.Lat, *filter.RadiusKm)
	}

	if filter.FavoritesOnly && filter.UserID != 0 {
		q = q.Joins("JOIN favorites ON favorites.spot_id = spots.id").
			Where("favorites.user_id = ?", filter.UserID)
	}

	return q
}

func (r *spotRepository) List(ctx context.Context, filter SpotFilter) ([]*models.Spot, error) {
	defer middleware.TrackQuery("list", "spots")()

	var spots []*models.Spot
	err := preloadChildren(r.applyFilter(r.db.WithContext(ctx), filter)).
		Order("spots.id ASC").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

// childModels lists the spot child tables replaced wholesale on update.
var childModels = []interface{}{
	&models.Media{},
	&models.Tip{},
	&models.OpeningHours{},
	&models.SocialLink{},
	&models.Author{},
	&models.RelatedArticle{},
}

// Update replaces the spot row and all of its children atomically. The
// incoming spot carries the full desired child state; existing children are
// removed and the new set inserted in one transaction.
func (r *spotRepository) Update(ctx context.Context, spot *models.Spot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range childModels {
			if err := tx.Where("spot_id = ?", spot.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(spot).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateSpot(ctx, spot.ID)
	cache.InvalidateSpotLists(ctx)
	return nil
}

// SoftDelete deactivates the spot. Children and favorites stay in place so
// the record can be audited or restored.
func (r *spotRepository) SoftDelete(ctx context.Context, id, deletedBy uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Spot{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_active": false, "updated_by": deletedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateSpot(ctx, id)
	cache.InvalidateSpotLists(ctx)
	return nil
}
