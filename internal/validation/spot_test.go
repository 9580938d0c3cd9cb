package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSpotName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Blue Bottle Coffee", false},
		{"Empty", "", true},
		{"Whitespace Only", "   ", true},
		{"Too Long", strings.Repeat("n", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpotName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"Valid", 48.8566, 2.3522, false},
		{"Poles", 90, -180, false},
		{"Lat Too High", 90.01, 0, true},
		{"Lat Too Low", -90.01, 0, true},
		{"Lng Too High", 0, 180.01, true},
		{"Lng Too Low", 0, -180.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"00:00", false},
		{"09:30", false},
		{"23:59", false},
		{"24:00", true},
		{"9:30", true},
		{"12:60", true},
		{"noon", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDayOfWeek(t *testing.T) {
	t.Parallel()
	day, err := ParseDayOfWeek("3")
	assert.NoError(t, err)
	assert.Equal(t, 3, day)

	for _, bad := range []string{"-1", "7", "monday", ""} {
		_, err := ParseDayOfWeek(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateRatingAndPrice(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateRating(0))
	assert.NoError(t, ValidateRating(5))
	assert.Error(t, ValidateRating(5.1))
	assert.Error(t, ValidateRating(-0.1))

	assert.NoError(t, ValidatePrice(nil))
	price := 12.5
	assert.NoError(t, ValidatePrice(&price))
	negative := -1.0
	assert.Error(t, ValidatePrice(&negative))
}
