package service

import (
	"context"
	"testing"

	"glassmap/internal/database"
	"glassmap/internal/models"
	"glassmap/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*SpotService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	svc := NewSpotService(
		repository.NewSpotRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewActivityRepository(db),
	)
	return svc, db
}

func validInput() *SpotInput {
	return &SpotInput{
		Name:        "Izakaya Juban",
		Description: "Small plates and sake",
		Category:    "bar",
		Lat:         35.65, Lng: 139.73,
		Rating: 4.2,
		Tips:   []string{"Reserve ahead"},
		Hours: map[string]HoursInput{
			"0": {IsClosed: true},
			"5": {Open: "17:00", Close: "23:30"},
		},
		Social: map[string]string{"instagram": "https://instagram.com/juban"},
		Author: &AuthorInput{Name: "Ren"},
	}
}

func TestSpotService_Create(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{Name: "Bar", Slug: "bar", Icon: "🍸", IsActive: true}).Error)

	view, err := svc.Create(ctx, validInput(), 1, "admin")
	require.NoError(t, err)

	assert.Equal(t, "Izakaya Juban", view.Name)
	assert.Equal(t, "bar", view.Category)
	assert.Equal(t, "🍸", view.Icon)
	assert.Equal(t, []string{"Reserve ahead"}, view.Tips)
	require.Len(t, view.Hours, 2)
	assert.True(t, view.Hours[0].IsClosed)
	assert.Equal(t, "23:30", view.Hours[1].Close)
	require.NotNil(t, view.Author)

	// audit entry recorded
	var entries []models.ActivityLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionSpotCreated, entries[0].Action)
	assert.Equal(t, "admin", entries[0].Username)
}

func TestSpotService_Create_UnknownCategory(t *testing.T) {
	svc, _ := setupService(t)

	in := validInput()
	in.Category = "spaceport"

	_, err := svc.Create(context.Background(), in, 1, "admin")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestSpotService_Update(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{Name: "Bar", Slug: "bar", IsActive: true}).Error)
	created, err := svc.Create(ctx, validInput(), 1, "admin")
	require.NoError(t, err)

	name := "Izakaya Juban Annex"
	patch := &SpotPatch{
		Name: &name,
		Tips: []string{"New tip", "Another tip"},
	}

	updated, err := svc.Update(ctx, created.ID, patch, 2, "editor")
	require.NoError(t, err)
	assert.Equal(t, "Izakaya Juban Annex", updated.Name)
	assert.Equal(t, []string{"New tip", "Another tip"}, updated.Tips)

	// updating a missing spot reports not found
	_, err = svc.Update(ctx, 9999, patch, 2, "editor")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestSpotService_Update_OmittedFieldsSurvive(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{Name: "Bar", Slug: "bar", IsActive: true}).Error)

	in := validInput()
	price := 38.0
	in.Price = &price
	in.EditorPick = true
	created, err := svc.Create(ctx, in, 1, "admin")
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(ctx, created.ID, &SpotPatch{Name: &name}, 2, "editor")
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Small plates and sake", updated.Description)
	assert.Equal(t, "bar", updated.Category)
	assert.InDelta(t, 35.65, updated.Lat, 1e-9)
	assert.InDelta(t, 139.73, updated.Lng, 1e-9)
	assert.InDelta(t, 38.0, updated.Price, 1e-9)
	assert.True(t, updated.EditorPick)
	assert.Equal(t, []string{"Reserve ahead"}, updated.Tips)
	require.Len(t, updated.Hours, 2)
	assert.Equal(t, "23:30", updated.Hours[1].Close)
	assert.Equal(t, "https://instagram.com/juban", updated.Social["instagram"])
	require.NotNil(t, updated.Author)
	assert.Equal(t, "Ren", updated.Author.Name)

	// an explicitly empty collection clears it
	updated, err = svc.Update(ctx, created.ID, &SpotPatch{Tips: []string{}}, 2, "editor")
	require.NoError(t, err)
	assert.Empty(t, updated.Tips)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestSpotService_Delete(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{Name: "Bar", Slug: "bar", IsActive: true}).Error)
	created, err := svc.Create(ctx, validInput(), 1, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, 1, "admin"))

	_, err = svc.Get(ctx, created.ID)
	assert.Error(t, err)

	views, err := svc.List(ctx, repository.SpotFilter{})
	require.NoError(t, err)
	assert.Empty(t, views)

	var appErr *models.AppError
	err = svc.Delete(ctx, created.ID, 1, "admin")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
