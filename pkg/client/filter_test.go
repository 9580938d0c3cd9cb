package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func spotNamed(name, category string) Spot {
	return Spot{Name: name, Category: category}
}

func TestFilter_Category(t *testing.T) {
	spots := []Spot{
		spotNamed("a", "bar"),
		spotNamed("b", "cafe"),
		spotNamed("c", "bar"),
	}
	state := NewFilterState()

	got := FilterAt(spots, "bar", state, nil, time.Now())
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)

	assert.Len(t, FilterAt(spots, "all", state, nil, time.Now()), 3)
	assert.Len(t, FilterAt(spots, "", state, nil, time.Now()), 3)
}

func TestFilter_PriceRange(t *testing.T) {
	spots := []Spot{
		{Name: "cheap", Price: f64(10)},
		{Name: "pricey", Price: f64(200)},
		{Name: "unpriced"},
	}
	state := NewFilterState()
	state.MinPrice = 5
	state.MaxPrice = 50

	got := FilterAt(spots, "all", state, nil, time.Now())
	require.Len(t, got, 2)
	assert.Equal(t, "cheap", got[0].Name)
	assert.Equal(t, "unpriced", got[1].Name, "spots with no price pass the price predicate")
}

func TestFilter_MinRating(t *testing.T) {
	spots := []Spot{
		{Name: "great", Rating: 4.5},
		{Name: "okay", Rating: 3.0},
		{Name: "unrated", Rating: 0},
	}

	state := NewFilterState()
	state.MinRating = 4

	got := FilterAt(spots, "all", state, nil, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "great", got[0].Name)

	state.MinRating = 0
	assert.Len(t, FilterAt(spots, "all", state, nil, time.Now()), 3,
		"zero minRating disables the predicate")
}

func TestFilter_OpenNow(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 4, hour, min, 0, 0, time.UTC)
	}
	day := int(at(12, 0).Weekday())

	dayHours := []Hours{{Day: day, Open: "09:00", Close: "17:00"}}
	nightHours := []Hours{{Day: day, Open: "22:00", Close: "02:00"}}

	tests := []struct {
		name  string
		hours []Hours
		now   time.Time
		open  bool
	}{
		{"Within Day Window", dayHours, at(12, 0), true},
		{"After Day Window", dayHours, at(20, 0), false},
		{"Crosses Midnight Open", nightHours, at(23, 30), true},
		{"Crosses Midnight Closed", nightHours, at(12, 0), false},
		{"No Hours Always Open", nil, at(3, 0), true},
		{"Closed Day", []Hours{{Day: day, IsClosed: true}}, at(12, 0), false},
		{"Other Day Only", []Hours{{Day: (day + 1) % 7, Open: "09:00", Close: "10:00"}}, at(12, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewFilterState()
			state.OpenNow = true
			got := FilterAt([]Spot{{Name: "s", Hours: tt.hours}}, "all", state, nil, tt.now)
			if tt.open {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilter_EditorPickAndVideo(t *testing.T) {
	spots := []Spot{
		{Name: "plain"},
		{Name: "pick", EditorPick: true},
		{Name: "reel", EditorPick: true, Media: []Media{
			{Type: "image", URL: "a.jpg"},
			{Type: "video", URL: "b.mp4"},
		}},
	}

	state := NewFilterState()
	state.EditorPick = true
	assert.Len(t, FilterAt(spots, "all", state, nil, time.Now()), 2)

	state.HasVideo = true
	got := FilterAt(spots, "all", state, nil, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "reel", got[0].Name)
}

func TestFilter_MaxDistance(t *testing.T) {
	user := &LatLng{Lat: 48.8566, Lng: 2.3522}
	spots := []Spot{
		{Name: "near", Lat: 48.8656, Lng: 2.3522}, // ~1km north
		{Name: "far", Lat: 48.9466, Lng: 2.3522},  // ~10km north
	}

	state := NewFilterState()
	state.MaxDistanceKm = f64(5)

	got := FilterAt(spots, "all", state, user, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Name)

	// no user location disables the predicate
	assert.Len(t, FilterAt(spots, "all", state, nil, time.Now()), 2)
}

func TestHaversineKm(t *testing.T) {
	// Paris to London is roughly 344 km
	d := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344, d, 5)

	assert.Zero(t, HaversineKm(10, 20, 10, 20))
}
