package model

import "time"

// Campaign is a named playlist configuration governing one screen, or a
// location generally when ScreenID is nil.
type Campaign struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	LocationID   int        `json:"location_id"`
	ScreenID     *int       `json:"screen_id,omitempty"`
	Active       bool       `json:"active"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	NewsEvery    *int       `json:"news_every,omitempty"`
	NewsDuration *int       `json:"news_duration,omitempty"`
	ShowNews     *bool      `json:"show_news,omitempty"`
}

// InEffect reports whether the campaign is active and inside its optional
// start/end date window at the given instant.
func (c *Campaign) InEffect(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}
	return true
}
