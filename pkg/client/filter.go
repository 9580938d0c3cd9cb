package client

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxPrice is the upper bound of the price slider when unset.
const DefaultMaxPrice = 500

// FilterState holds the user-adjusted advanced filter controls.
// MaxDistanceKm of nil disables the distance predicate.
type FilterState struct {
	MinPrice      float64
	MaxPrice      float64
	MinRating     float64
	OpenNow       bool
	EditorPick    bool
	HasVideo      bool
	MaxDistanceKm *float64
}

// NewFilterState returns the neutral state that keeps every spot.
func NewFilterState() FilterState {
	return FilterState{MaxPrice: DefaultMaxPrice}
}

// Filter narrows spots to those passing the category and every active
// advanced predicate, evaluated against the current wall-clock time.
// It is pure over its inputs; the input slice is not modified.
func Filter(spots []Spot, category string, state FilterState, userLoc *LatLng) []Spot {
	return FilterAt(spots, category, state, userLoc, time.Now())
}

// FilterAt is Filter with an explicit evaluation time for the open-now
// predicate.
func FilterAt(spots []Spot, category string, state FilterState, userLoc *LatLng, now time.Time) []Spot {
	out := make([]Spot, 0, len(spots))
	for _, spot := range spots {
		if matches(spot, category, state, userLoc, now) {
			out = append(out, spot)
		}
	}
	return out
}

func matches(spot Spot, category string, state FilterState, userLoc *LatLng, now time.Time) bool {
	if category != "" && category != "all" && spot.Category != category {
		return false
	}

	// a spot with no price is never excluded by the price range
	if spot.Price != nil && (*spot.Price < state.MinPrice || *spot.Price > state.MaxPrice) {
		return false
	}

	if state.MinRating > 0 && spot.Rating < state.MinRating {
		return false
	}

	if state.OpenNow && !openAt(spot.Hours, now) {
		return false
	}

	if state.EditorPick && !spot.EditorPick {
		return false
	}

	if state.HasVideo && !hasVideo(spot.Media) {
		return false
	}

	if state.MaxDistanceKm != nil && userLoc != nil {
		if HaversineKm(userLoc.Lat, userLoc.Lng, spot.Lat, spot.Lng) > *state.MaxDistanceKm {
			return false
		}
	}

	return true
}

// openAt reports whether the schedule is open at the given time. Spots
// without hours are treated as always open. A close time earlier than the
// open time means the window crosses midnight.
func openAt(hours []Hours, now time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	var today *Hours
	for i := range hours {
		if hours[i].Day == int(now.Weekday()) {
			today = &hours[i]
			break
		}
	}
	if today == nil {
		return true
	}
	if today.IsClosed {
		return false
	}

	openMin, okOpen := minutesSinceMidnight(today.Open)
	closeMin, okClose := minutesSinceMidnight(today.Close)
	if !okOpen || !okClose {
		return true
	}

	current := now.Hour()*60 + now.Minute()
	if closeMin < openMin {
		return current >= openMin || current <= closeMin
	}
	return current >= openMin && current <= closeMin
}

func minutesSinceMidnight(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func hasVideo(media []Media) bool {
	for _, m := range media {
		if m.Type == "video" {
			return true
		}
	}
	return false
}

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
