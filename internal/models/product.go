package models

// Product is the read-only listing/detail projection served by the backend.
// Nullable columns map to pointers so "-" placeholders can be told apart
// from real zero values when rendering.
type Product struct {
	ID           int      `json:"id"`
	SiteName     string   `json:"site_name"`
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	Currency     *string  `json:"currency"`
	LastPrice    *int     `json:"last_price"`
	Rating       *float64 `json:"rating"`
	RatingsCount *int     `json:"ratings_count"`
	FirstSeenAt  string   `json:"first_seen_at"`
	LastSeenAt   string   `json:"last_seen_at"`
}

// ProductPage is the paginated envelope returned by the listing endpoint.
type ProductPage struct {
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Items   []Product `json:"items"`
}

// PricePoint is one captured price for a product. The backend returns
// history ordered oldest-first by capture time; PriceMinor is nil when a
// capture found the product without a readable price.
type PricePoint struct {
	ID         int    `json:"id"`
	ProductID  int    `json:"product_id"`
	PriceMinor *int   `json:"price_minor"`
	CapturedAt string `json:"captured_at"`
}

// TrackState reports whether a product has price alerts enabled and the
// configured notification ceiling.
type TrackState struct {
	Tracked  bool `json:"tracked"`
	MaxPrice int  `json:"max_price"`
}
