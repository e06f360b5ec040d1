package schedule

import (
	"time"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// InWindow reports whether a media item's schedule allows it to show at the
// given instant. A nil or disabled schedule always allows. Each configured
// dimension is checked independently and all must pass. Safe to call at any
// frequency; no side effects.
func InWindow(s *model.Schedule, now time.Time) bool {
	if s == nil || !s.Enabled {
		return true
	}
	if len(s.Weekdays) > 0 && !weekdayAllowed(s.Weekdays, now.Weekday()) {
		return false
	}
	if s.StartDate != nil {
		start := dayStart(*s.StartDate)
		if now.Before(start) {
			return false
		}
	}
	if s.EndDate != nil {
		end := dayEnd(*s.EndDate)
		if now.After(end) {
			return false
		}
	}
	if s.StartTime != nil || s.EndTime != nil {
		from := "00:00"
		to := "23:59"
		if s.StartTime != nil {
			from = *s.StartTime
		}
		if s.EndTime != nil {
			to = *s.EndTime
		}
		// "HH:MM" compares correctly as a string, bounds inclusive.
		cur := now.Format("15:04")
		if cur < from || cur > to {
			return false
		}
	}
	return true
}

func weekdayAllowed(days []int, wd time.Weekday) bool {
	for _, d := range days {
		if d == int(wd) {
			return true
		}
	}
	return false
}

// dayStart truncates to local midnight so a start date matches from 00:00:00.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayEnd extends to 23:59:59 so an end date matches through the whole day.
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
