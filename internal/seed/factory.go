// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"glassmap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		IsActive:     true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSpot constructs and persists a sample spot with media, tips, hours
// and social links inside the given bounding box.
func (f *Factory) CreateSpot(category *models.Category, createdBy uint, overrides ...func(*models.Spot)) (*models.Spot, error) {
	price := float64(gofakeit.Number(5, 120))
	spot := &models.Spot{
		Name:        gofakeit.Company(),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		CategoryID:  &category.ID,
		Latitude:    gofakeit.Float64Range(36.0, 37.2),
		Longitude:   gofakeit.Float64Range(28.0, 29.5),
		Icon:        category.Icon,
		Rating:      float64(gofakeit.Number(20, 50)) / 10,
		Price:       &price,
		EditorPick:  f.r.Float32() < 0.15,
		IsActive:    true,
		CreatedBy:   createdBy,
		UpdatedBy:   createdBy,
		Media:       f.buildMedia(),
		Tips:        f.buildTips(createdBy),
		Hours:       f.buildHours(),
		Social: []models.SocialLink{
			{Platform: models.PlatformWebsite, URL: gofakeit.URL()},
		},
	}

	if f.r.Float32() < 0.3 {
		spot.Author = &models.Author{
			Name:      gofakeit.Name(),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
	}

	for _, override := range overrides {
		override(spot)
	}

	if err := f.db.Create(spot).Error; err != nil {
		return nil, err
	}
	return spot, nil
}

// CreateFavorite persists a favorite from user on spot, ignoring duplicates.
func (f *Factory) CreateFavorite(userID, spotID uint) error {
	return f.db.Exec(
		"INSERT INTO favorites (user_id, spot_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (user_id, spot_id) DO NOTHING",
		userID, spotID,
	).Error
}

func (f *Factory) buildMedia() []models.Media {
	count := f.r.Intn(3) + 1
	media := make([]models.Media, 0, count)
	for i := 0; i < count; i++ {
		item := models.Media{
			Type:         models.MediaTypeImage,
			URL:          fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			Caption:      gofakeit.Sentence(4),
			DisplayOrder: i,
		}
		if i == 0 && f.r.Float32() < 0.2 {
			item.Type = models.MediaTypeVideo
			item.ThumbnailURL = fmt.Sprintf("https://picsum.photos/seed/%s/400/300", gofakeit.UUID())
		}
		media = append(media, item)
	}
	return media
}

func (f *Factory) buildTips(createdBy uint) []models.Tip {
	count := f.r.Intn(3)
	tips := make([]models.Tip, 0, count)
	for i := 0; i < count; i++ {
		tips = append(tips, models.Tip{
			TipText:      gofakeit.Sentence(8),
			DisplayOrder: i,
			CreatedBy:    createdBy,
		})
	}
	return tips
}

func (f *Factory) buildHours() []models.OpeningHours {
	hours := make([]models.OpeningHours, 0, 7)
	for day := 0; day < 7; day++ {
		entry := models.OpeningHours{DayOfWeek: day}
		// most spots close one weekday
		if day == 1 && f.r.Float32() < 0.4 {
			entry.IsClosed = true
		} else {
			entry.OpenTime = "09:00"
			entry.CloseTime = "23:00"
		}
		hours = append(hours, entry)
	}
	return hours
}
