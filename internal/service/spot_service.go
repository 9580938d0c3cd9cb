package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"glassmap/internal/middleware"
	"glassmap/internal/models"
	"glassmap/internal/repository"
	"glassmap/internal/validation"

	"gorm.io/gorm"
)

// SpotInput is the full write payload for a spot. Hours are keyed by weekday
// number ("0" = Sunday) and social by platform name.
type SpotInput struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Icon        string                `json:"icon"`
	Lat         float64               `json:"lat"`
	Lng         float64               `json:"lng"`
	Rating      float64               `json:"rating"`
	Price       *float64              `json:"price"`
	EditorPick  bool                  `json:"editorPick"`
	Media       []MediaInput          `json:"media"`
	Tips        []string              `json:"tips"`
	Hours       map[string]HoursInput `json:"hours"`
	Social      map[string]string     `json:"social"`
	Author      *AuthorInput          `json:"author"`
	Article     *ArticleInput         `json:"relatedArticle"`
}

// SpotPatch is the partial-update payload for PUT. Nil fields leave the
// stored value untouched; a provided collection replaces the stored set
// wholesale (an empty one clears it).
type SpotPatch struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Icon        *string               `json:"icon"`
	Lat         *float64              `json:"lat"`
	Lng         *float64              `json:"lng"`
	Rating      *float64              `json:"rating"`
	Price       *float64              `json:"price"`
	EditorPick  *bool                 `json:"editorPick"`
	Media       []MediaInput          `json:"media"`
	Tips        []string              `json:"tips"`
	Hours       map[string]HoursInput `json:"hours"`
	Social      map[string]string     `json:"social"`
	Author      *AuthorInput          `json:"author"`
	Article     *ArticleInput         `json:"relatedArticle"`
}

type MediaInput struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Caption      string `json:"caption"`
}

type HoursInput struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

type AuthorInput struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type ArticleInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SpotService orchestrates spot reads and writes over the repositories.
type SpotService struct {
	spots      repository.SpotRepository
	categories repository.CategoryRepository
	activity   repository.ActivityRepository
}

// NewSpotService creates a new spot service.
func NewSpotService(spots repository.SpotRepository, categories repository.CategoryRepository, activity repository.ActivityRepository) *SpotService {
	return &SpotService{spots: spots, categories: categories, activity: activity}
}

// Validate checks every field of the input and returns the first problem.
func (in *SpotInput) Validate() error {
	if err := validation.ValidateSpotName(in.Name); err != nil {
		return err
	}
	if err := validation.ValidateCoordinates(in.Lat, in.Lng); err != nil {
		return err
	}
	if err := validation.ValidateRating(in.Rating); err != nil {
		return err
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return err
	}
	for _, m := range in.Media {
		if err := validation.ValidateMediaType(m.Type); err != nil {
			return err
		}
		if err := validation.ValidateURL(m.URL); err != nil {
			return err
		}
	}
	for key, h := range in.Hours {
		if _, err := validation.ParseDayOfWeek(key); err != nil {
			return err
		}
		if h.IsClosed {
			continue
		}
		if err := validation.ValidateTimeOfDay(h.Open); err != nil {
			return err
		}
		if err := validation.ValidateTimeOfDay(h.Close); err != nil {
			return err
		}
	}
	for _, url := range in.Social {
		if err := validation.ValidateURL(url); err != nil {
			return err
		}
	}
	if in.Article != nil {
		if err := validation.ValidateURL(in.Article.URL); err != nil {
			return err
		}
	}
	return nil
}

// buildSpot assembles a model from validated input, resolving the category
// slug. An unknown category is a validation error; an empty one leaves the
// spot uncategorized.
func (s *SpotService) buildSpot(ctx context.Context, in *SpotInput, userID uint) (*models.Spot, error) {
	spot := &models.Spot{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Latitude:    in.Lat,
		Longitude:   in.Lng,
		Icon:        in.Icon,
		Rating:      in.Rating,
		Price:       in.Price,
		EditorPick:  in.EditorPick,
		IsActive:    true,
		CreatedBy:   userID,
		UpdatedBy:   userID,
	}

	if in.Category != "" {
		category, err := s.categories.GetBySlug(ctx, in.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError(fmt.Sprintf("unknown category %q", in.Category))
			}
			return nil, models.NewInternalError(err)
		}
		spot.CategoryID = &category.ID
	}

	for i, m := range in.Media {
		spot.Media = append(spot.Media, models.Media{
			Type:         m.Type,
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			Caption:      m.Caption,
			DisplayOrder: i,
		})
	}

	for i, tip := range in.Tips {
		spot.Tips = append(spot.Tips, models.Tip{
			TipText:      tip,
			DisplayOrder: i,
			CreatedBy:    userID,
		})
	}

	// map iteration order is random; store hours sorted by day
	days := make([]string, 0, len(in.Hours))
	for key := range in.Hours {
		days = append(days, key)
	}
	sort.Strings(days)
	for _, key := range days {
		day, _ := validation.ParseDayOfWeek(key)
		h := in.Hours[key]
		spot.Hours = append(spot.Hours, models.OpeningHours{
			DayOfWeek: day,
			OpenTime:  h.Open,
			CloseTime: h.Close,
			IsClosed:  h.IsClosed,
		})
	}

	platforms := make([]string, 0, len(in.Social))
	for platform := range in.Social {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		spot.Social = append(spot.Social, models.SocialLink{
			Platform: platform,
			URL:      in.Social[platform],
		})
	}

	if in.Author != nil && in.Author.Name != "" {
		spot.Author = &models.Author{Name: in.Author.Name, AvatarURL: in.Author.AvatarURL}
	}
	if in.Article != nil && in.Article.Title != "" {
		spot.RelatedArticle = &models.RelatedArticle{Title: in.Article.Title, URL: in.Article.URL}
	}

	return spot, nil
}

// inputFromSpot reconstructs the write payload for a stored spot so a patch
// can be merged over it field by field.
func inputFromSpot(spot *models.Spot) *SpotInput {
	in := &SpotInput{
		Name:        spot.Name,
		Description: spot.Description,
		Icon:        spot.Icon,
		Lat:         spot.Latitude,
		Lng:         spot.Longitude,
		Rating:      spot.Rating,
		Price:       spot.Price,
		EditorPick:  spot.EditorPick,
	}
	if spot.Category != nil {
		in.Category = spot.Category.Slug
	}
	for _, m := range spot.Media {
		in.Media = append(in.Media, MediaInput{
			Type:         m.Type,
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			Caption:      m.Caption,
		})
	}
	for _, tip := range spot.Tips {
		in.Tips = append(in.Tips, tip.TipText)
	}
	if len(spot.Hours) > 0 {
		in.Hours = make(map[string]HoursInput, len(spot.Hours))
		for _, h := range spot.Hours {
			in.Hours[strconv.Itoa(h.DayOfWeek)] = HoursInput{
				Open:     h.OpenTime,
				Close:    h.CloseTime,
				IsClosed: h.IsClosed,
			}
		}
	}
	if len(spot.Social) > 0 {
		in.Social = make(map[string]string, len(spot.Social))
		for _, link := range spot.Social {
			in.Social[link.Platform] = link.URL
		}
	}
	if spot.Author != nil {
		in.Author = &AuthorInput{Name: spot.Author.Name, AvatarURL: spot.Author.AvatarURL}
	}
	if spot.RelatedArticle != nil {
		in.Article = &ArticleInput{Title: spot.RelatedArticle.Title, URL: spot.RelatedArticle.URL}
	}
	return in
}

// apply overlays the patch's provided fields onto in.
func (p *SpotPatch) apply(in *SpotInput) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Icon != nil {
		in.Icon = *p.Icon
	}
	if p.Lat != nil {
		in.Lat = *p.Lat
	}
	if p.Lng != nil {
		in.Lng = *p.Lng
	}
	if p.Rating != nil {
		in.Rating = *p.Rating
	}
	if p.Price != nil {
		in.Price = p.Price
	}
	if p.EditorPick != nil {
		in.EditorPick = *p.EditorPick
	}
	if p.Media != nil {
		in.Media = p.Media
	}
	if p.Tips != nil {
		in.Tips = p.Tips
	}
	if p.Hours != nil {
		in.Hours = p.Hours
	}
	if p.Social != nil {
		in.Social = p.Social
	}
	if p.Author != nil {
		in.Author = p.Author
	}
	if p.Article != nil {
		in.Article = p.Article
	}
}

// List returns formatted spots matching the filter.
func (s *SpotService) List(ctx context.Context, filter repository.SpotFilter) ([]SpotView, error) {
	spots, err := s.spots.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FormatSpots(spots), nil
}

// Get returns one formatted spot.
func (s *SpotService) Get(ctx context.Context, id uint) (*SpotView, error) {
	spot, err := s.spots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := FormatSpot(spot)
	return &view, nil
}

// Create validates, stores and formats a new spot, recording the action.
func (s *SpotService) Create(ctx context.Context, in *SpotInput, userID uint, username string) (*SpotView, error) {
	if err := in.Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	spot, err := s.buildSpot(ctx, in, userID)
	if err != nil {
		return nil, err
	}

	if err := s.spots.Create(ctx, spot); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.logActivity(ctx, userID, username, models.ActionSpotCreated, fmt.Sprintf("spot %d (%s)", spot.ID, spot.Name))

	return s.Get(ctx, spot.ID)
}

// Update merges the patch over the stored spot and persists the result.
// Fields absent from the patch keep their stored values.
func (s *SpotService) Update(ctx context.Context, id uint, patch *SpotPatch, userID uint, username string) (*SpotView, error) {
	existing, err := s.spots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Spot", id)
		}
		return nil, models.NewInternalError(err)
	}

	in := inputFromSpot(existing)
	patch.apply(in)

	if err := in.Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	spot, err := s.buildSpot(ctx, in, userID)
	if err != nil {
		return nil, err
	}
	spot.ID = existing.ID
	spot.CreatedBy = existing.CreatedBy
	spot.CreatedAt = existing.CreatedAt
	for i := range spot.Media {
		spot.Media[i].SpotID = spot.ID
	}
	for i := range spot.Tips {
		spot.Tips[i].SpotID = spot.ID
	}
	for i := range spot.Hours {
		spot.Hours[i].SpotID = spot.ID
	}
	for i := range spot.Social {
		spot.Social[i].SpotID = spot.ID
	}
	if spot.Author != nil {
		spot.Author.SpotID = spot.ID
	}
	if spot.RelatedArticle != nil {
		spot.RelatedArticle.SpotID = spot.ID
	}

	if err := s.spots.Update(ctx, spot); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.logActivity(ctx, userID, username, models.ActionSpotUpdated, fmt.Sprintf("spot %d (%s)", spot.ID, spot.Name))

	return s.Get(ctx, spot.ID)
}

// Delete deactivates a spot, keeping the row for auditing.
func (s *SpotService) Delete(ctx context.Context, id, userID uint, username string) error {
	if err := s.spots.SoftDelete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Spot", id)
		}
		return models.NewInternalError(err)
	}

	s.logActivity(ctx, userID, username, models.ActionSpotDeleted, fmt.Sprintf("spot %d", id))
	return nil
}

// logActivity records the action best-effort; a failed audit write never
// fails the request.
func (s *SpotService) logActivity(ctx context.Context, userID uint, username, action, detail string) {
	if s.activity == nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:   userID,
		Username: username,
		Action:   action,
		Detail:   detail,
	}
	if err := s.activity.Log(ctx, entry); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record activity",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
