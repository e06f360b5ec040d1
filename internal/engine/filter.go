package engine

import (
	"sort"
	"time"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
	"github.com/Nixie-Tech-LLC/stheno/internal/schedule"
)

// EligibleMedia narrows the full media set to the governing campaign's items
// that are active and in-schedule right now, ordered by rank. Schedules are
// evaluated at call time, never cached across a rotation.
func EligibleMedia(media []model.MediaItem, campaignID int, now time.Time) []model.MediaItem {
	var out []model.MediaItem
	for _, m := range media {
		if !m.Active || m.CampaignID != campaignID {
			continue
		}
		if !schedule.InWindow(m.Schedule, now) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
