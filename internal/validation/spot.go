package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	slugRegex      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// ValidateSpotName checks the spot display name.
func ValidateSpotName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("name must not exceed 200 characters")
	}
	return nil
}

// ValidateCoordinates checks WGS84 bounds.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRating checks the 0-5 rating scale.
func ValidateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}

// ValidatePrice rejects negative prices. A nil price is valid.
func ValidatePrice(price *float64) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// ValidateMediaType accepts the supported media kinds.
func ValidateMediaType(mediaType string) error {
	switch mediaType {
	case "image", "video":
		return nil
	}
	return fmt.Errorf("media type must be image or video, got %q", mediaType)
}

// ValidateTimeOfDay checks a 24h "HH:MM" string.
func ValidateTimeOfDay(value string) error {
	if !timeOfDayRegex.MatchString(value) {
		return fmt.Errorf("time must be in HH:MM 24-hour format, got %q", value)
	}
	return nil
}

// ParseDayOfWeek converts a weekday key ("0" through "6", Sunday first)
// into its numeric form.
func ParseDayOfWeek(key string) (int, error) {
	day, err := strconv.Atoi(key)
	if err != nil || day < 0 || day > 6 {
		return 0, fmt.Errorf("day of week must be 0-6, got %q", key)
	}
	return day, nil
}

// ValidateSlug checks a category slug: lowercase alphanumerics separated
// by single hyphens.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > 50 {
		return fmt.Errorf("slug must not exceed 50 characters")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}

// ValidateURL performs a light check that a link looks like an absolute URL.
func ValidateURL(value string) error {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("url must start with http:// or https://")
	}
	return nil
}
