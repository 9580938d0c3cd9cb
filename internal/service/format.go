// Package service holds the application logic between HTTP handlers and
// repositories: shaping spots for clients and orchestrating writes.
package service

import (
	"glassmap/internal/models"
)

// DefaultCategorySlug is used for spots without a category.
const DefaultCategorySlug = "restaurant"

// DefaultIcon marks spots whose own and category icons are both unset.
const DefaultIcon = "📍"

// SpotView is the client-facing shape of a spot. Field names follow the
// frontend contract rather than the storage schema.
type SpotView struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Icon        string              `json:"icon"`
	Rating      float64             `json:"rating"`
	Lat         float64             `json:"lat"`
	Lng         float64             `json:"lng"`
	Price       float64             `json:"price"`
	EditorPick  bool                `json:"editorPick"`
	Media       []MediaView         `json:"media"`
	Tips        []string            `json:"tips"`
	Hours       []HoursView         `json:"hours"`
	Social      map[string]string   `json:"social"`
	Author      *AuthorView         `json:"author"`
	Article     *RelatedArticleView `json:"relatedArticle"`
}

// MediaView is one media attachment in display order.
type MediaView struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Caption      string `json:"caption,omitempty"`
}

// HoursView is one weekday's opening window.
type HoursView struct {
	Day      int    `json:"day"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

// AuthorView is the spot write-up author.
type AuthorView struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// RelatedArticleView links to an external article.
type RelatedArticleView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FormatSpot flattens a spot and its children into the client shape.
// Missing optional data collapses to defaults: empty collections are
// non-nil, a nil price becomes 0 and icons fall back to the category's
// icon and then a generic pin.
func FormatSpot(spot *models.Spot) SpotView {
	view := SpotView{
		ID:          spot.ID,
		Name:        spot.Name,
		Description: spot.Description,
		Category:    DefaultCategorySlug,
		Icon:        spot.Icon,
		Rating:      spot.Rating,
		Lat:         spot.Latitude,
		Lng:         spot.Longitude,
		EditorPick:  spot.EditorPick,
		Media:       make([]MediaView, 0, len(spot.Media)),
		Tips:        make([]string, 0, len(spot.Tips)),
		Hours:       make([]HoursView, 0, len(spot.Hours)),
		Social:      make(map[string]string, len(spot.Social)),
	}

	if spot.Category != nil && spot.Category.Slug != "" {
		view.Category = spot.Category.Slug
	}
	if view.Icon == "" && spot.Category != nil {
		view.Icon = spot.Category.Icon
	}
	if view.Icon == "" {
		view.Icon = DefaultIcon
	}
	if spot.Price != nil {
		view.Price = *spot.Price
	}

	for _, m := range spot.Media {
		view.Media = append(view.Media, MediaView{
			Type:         m.Type,
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			Caption:      m.Caption,
		})
	}

	for _, tip := range spot.Tips {
		view.Tips = append(view.Tips, tip.TipText)
	}

	for _, h := range spot.Hours {
		view.Hours = append(view.Hours, HoursView{
			Day:      h.DayOfWeek,
			Open:     h.OpenTime,
			Close:    h.CloseTime,
			IsClosed: h.IsClosed,
		})
	}

	for _, s := range spot.Social {
		view.Social[s.Platform] = s.URL
	}

	if spot.Author != nil {
		view.Author = &AuthorView{Name: spot.Author.Name, AvatarURL: spot.Author.AvatarURL}
	}
	if spot.RelatedArticle != nil {
		view.Article = &RelatedArticleView{Title: spot.RelatedArticle.Title, URL: spot.RelatedArticle.URL}
	}

	return view
}

// FormatSpots maps a listing, keeping the input order.
func FormatSpots(spots []*models.Spot) []SpotView {
	views := make([]SpotView, 0, len(spots))
	for _, spot := range spots {
		views = append(views, FormatSpot(spot))
	}
	return views
}
