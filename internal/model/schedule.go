package model

import "time"

// Schedule restricts when a media item may show. Every absent field means
// "unconstrained" for that dimension; a disabled schedule never restricts.
// Weekdays follow time.Weekday numbering (0 = Sunday .. 6 = Saturday),
// StartTime/EndTime are "HH:MM" local, bounds inclusive.
type Schedule struct {
	Enabled   bool       `json:"enabled"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	StartTime *string    `json:"start_time,omitempty"`
	EndTime   *string    `json:"end_time,omitempty"`
	Weekdays  []int      `json:"weekdays,omitempty"`
}
