package seed

import (
	"fmt"
	"log"

	"glassmap/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumSpots    int
	ShouldClean bool
}

// defaultCategories is the built-in category set. Seeding is idempotent on
// slugs.
var defaultCategories = []models.Category{
	{Name: "Restaurants", Slug: "restaurant", Icon: "🍽️"},
	{Name: "Bars", Slug: "bar", Icon: "🍸"},
	{Name: "Cafes", Slug: "cafe", Icon: "☕"},
	{Name: "Beaches", Slug: "beach", Icon: "🏖️"},
	{Name: "Viewpoints", Slug: "viewpoint", Icon: "🌄"},
	{Name: "Hotels", Slug: "hotel", Icon: "🏨"},
	{Name: "Shopping", Slug: "shopping", Icon: "🛍️"},
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d spots...", opts.NumUsers, opts.NumSpots)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	categories, err := createOrGetCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	factory := NewFactory(db)

	users, err := createUsers(db, factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	admin := users[0]
	spots := make([]*models.Spot, 0, opts.NumSpots)
	for i := 0; i < opts.NumSpots; i++ {
		category := categories[i%len(categories)]
		spot, err := factory.CreateSpot(category, admin.ID)
		if err != nil {
			return fmt.Errorf("failed to create spot: %w", err)
		}
		spots = append(spots, spot)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d spots...", i)
		}
	}
	log.Printf("✓ %d spots created", len(spots))

	if err := createFavorites(factory, users, spots); err != nil {
		return fmt.Errorf("failed to create favorites: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE activity_logs, favorites, related_articles, authors, social_links, opening_hours, tips, media, spots, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createOrGetCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(defaultCategories))
	for _, c := range defaultCategories {
		var category models.Category
		err := db.Where(models.Category{Slug: c.Slug}).
			Attrs(models.Category{Name: c.Name, Icon: c.Icon, IsActive: true}).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, nil
}

// createUsers seeds count users. The first user is always the built-in
// admin account.
func createUsers(db *gorm.DB, factory *Factory, count int) ([]*models.User, error) {
	if count < 1 {
		count = 1
	}
	users := make([]*models.User, 0, count)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	var admin models.User
	err := db.Where(models.User{Username: "admin"}).
		Attrs(models.User{
			Email:        "admin@example.com",
			PasswordHash: string(hashed),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return nil, err
	}
	users = append(users, &admin)

	for i := 1; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func createFavorites(factory *Factory, users []*models.User, spots []*models.Spot) error {
	if len(spots) == 0 {
		return nil
	}
	for _, user := range users {
		count := factory.r.Intn(5)
		for i := 0; i < count; i++ {
			spot := spots[factory.r.Intn(len(spots))]
			if err := factory.CreateFavorite(user.ID, spot.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
