package model

import "time"

// Screen represents the display device this player process drives.
type Screen struct {
	ID         int        `json:"id"`
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	LocationID int        `json:"location_id"`
	FooterText *string    `json:"footer_text,omitempty"`
	TickerOn   *bool      `json:"ticker_on,omitempty"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// Location groups screens and carries location-wide playback overrides.
type Location struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	City     *string `json:"city,omitempty"`
	ShowNews *bool   `json:"show_news,omitempty"`
}
