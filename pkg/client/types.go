// Package client is the Go consumer library for the Liquid Glass Map API:
// an HTTP client with bounded retry, a namespaced response cache and an
// in-memory filter engine for fetched spots.
package client

// Spot mirrors the API's wire shape of a spot.
type Spot struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Icon        string            `json:"icon"`
	Rating      float64           `json:"rating"`
	Lat         float64           `json:"lat"`
	Lng         float64           `json:"lng"`
	Price       *float64          `json:"price"`
	EditorPick  bool              `json:"editorPick"`
	Media       []Media           `json:"media"`
	Tips        []string          `json:"tips"`
	Hours       []Hours           `json:"hours"`
	Social      map[string]string `json:"social"`
	Author      *Author           `json:"author"`
	Article     *RelatedArticle   `json:"relatedArticle"`
}

type Media struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Caption      string `json:"caption,omitempty"`
}

type Hours struct {
	Day      int    `json:"day"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

type Author struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type RelatedArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// LatLng is a user location in WGS84 decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}
