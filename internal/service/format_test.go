package service

import (
	"encoding/json"
	"testing"

	"glassmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSpot_Defaults(t *testing.T) {
	spot := &models.Spot{
		ID:        1,
		Name:      "Bare Spot",
		Latitude:  10,
		Longitude: 20,
	}

	view := FormatSpot(spot)

	assert.Equal(t, DefaultCategorySlug, view.Category)
	assert.Equal(t, DefaultIcon, view.Icon)
	assert.Zero(t, view.Price)
	assert.Zero(t, view.Rating)
	assert.Equal(t, float64(10), view.Lat)
	assert.Equal(t, float64(20), view.Lng)
	assert.Nil(t, view.Author)
	assert.Nil(t, view.Article)

	// empty collections serialize as [] / {}, never null
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"media":[]`)
	assert.Contains(t, string(raw), `"tips":[]`)
	assert.Contains(t, string(raw), `"hours":[]`)
	assert.Contains(t, string(raw), `"social":{}`)
}

func TestFormatSpot_IconFallbackChain(t *testing.T) {
	category := &models.Category{Slug: "cafe", Icon: "☕"}

	tests := []struct {
		name     string
		spotIcon string
		category *models.Category
		expected string
	}{
		{"Spot Icon Wins", "🍜", category, "🍜"},
		{"Category Icon Next", "", category, "☕"},
		{"Generic Pin Last", "", nil, DefaultIcon},
		{"Category Without Icon", "", &models.Category{Slug: "bar"}, DefaultIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot := &models.Spot{Icon: tt.spotIcon, Category: tt.category}
			assert.Equal(t, tt.expected, FormatSpot(spot).Icon)
		})
	}
}

func TestFormatSpot_Children(t *testing.T) {
	price := 35.0
	spot := &models.Spot{
		ID:       2,
		Name:     "Full Spot",
		Category: &models.Category{Slug: "bar", Icon: "🍸"},
		Price:    &price,
		Rating:   4.5,
		Media: []models.Media{
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/a.jpg", Caption: "front"},
			{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/b.mp4", ThumbnailURL: "https://cdn.example.com/b.jpg"},
		},
		Tips: []models.Tip{
			{TipText: "Go early"},
			{TipText: "Cash only"},
		},
		Hours: []models.OpeningHours{
			{DayOfWeek: 0, IsClosed: true},
			{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "02:00"},
		},
		Social: []models.SocialLink{
			{Platform: models.PlatformInstagram, URL: "https://instagram.com/fullspot"},
			{Platform: models.PlatformWebsite, URL: "https://fullspot.example.com"},
		},
		Author:         &models.Author{Name: "Noor", AvatarURL: "https://cdn.example.com/noor.jpg"},
		RelatedArticle: &models.RelatedArticle{Title: "Hidden Bars", URL: "https://example.com/bars"},
	}

	view := FormatSpot(spot)

	assert.Equal(t, "bar", view.Category)
	assert.Equal(t, 35.0, view.Price)

	require.Len(t, view.Media, 2)
	assert.Equal(t, "https://cdn.example.com/b.jpg", view.Media[1].ThumbnailURL)

	assert.Equal(t, []string{"Go early", "Cash only"}, view.Tips)

	require.Len(t, view.Hours, 2)
	assert.True(t, view.Hours[0].IsClosed)
	assert.Equal(t, "02:00", view.Hours[1].Close)

	assert.Equal(t, map[string]string{
		"instagram": "https://instagram.com/fullspot",
		"website":   "https://fullspot.example.com",
	}, view.Social)

	require.NotNil(t, view.Author)
	assert.Equal(t, "Noor", view.Author.Name)
	require.NotNil(t, view.Article)
	assert.Equal(t, "Hidden Bars", view.Article.Title)
}

func TestSpotInput_Validate(t *testing.T) {
	valid := func() *SpotInput {
		return &SpotInput{
			Name: "Test Spot",
			Lat:  10, Lng: 20,
			Rating: 4,
			Media: []MediaInput{
				{Type: "image", URL: "https://cdn.example.com/a.jpg"},
			},
			Hours: map[string]HoursInput{
				"1": {Open: "09:00", Close: "17:00"},
			},
			Social: map[string]string{"website": "https://example.com"},
		}
	}

	assert.NoError(t, valid().Validate())

	t.Run("Bad Media Type", func(t *testing.T) {
		in := valid()
		in.Media[0].Type = "gif"
		assert.Error(t, in.Validate())
	})

	t.Run("Bad Day Key", func(t *testing.T) {
		in := valid()
		in.Hours["7"] = HoursInput{Open: "09:00", Close: "17:00"}
		assert.Error(t, in.Validate())
	})

	t.Run("Closed Day Skips Time Check", func(t *testing.T) {
		in := valid()
		in.Hours["2"] = HoursInput{IsClosed: true}
		assert.NoError(t, in.Validate())
	})

	t.Run("Bad Social URL", func(t *testing.T) {
		in := valid()
		in.Social["instagram"] = "not-a-url"
		assert.Error(t, in.Validate())
	})

	t.Run("Out Of Range Coordinates", func(t *testing.T) {
		in := valid()
		in.Lat = 120
		assert.Error(t, in.Validate())
	})
}
