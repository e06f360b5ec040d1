package engine

import (
	"sort"
	"time"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// SelectCampaign picks the governing campaign for a screen. Campaigns bound
// to this screen win over general (unbound) campaigns; within each group the
// latest start date wins, campaigns without a start date sorting last
// (treated as epoch). Returns nil when nothing is in effect.
//
// Campaigns sharing an identical start date are an unordered tie-break: the
// stable sort keeps arrival order and the first one wins. This matches the
// console's long-standing behavior and is deliberately left as-is.
func SelectCampaign(campaigns []model.Campaign, screenID int, now time.Time) *model.Campaign {
	if c := pickLatest(campaigns, now, func(c *model.Campaign) bool {
		return c.ScreenID != nil && *c.ScreenID == screenID
	}); c != nil {
		return c
	}
	// fall back to general campaigns with no bound screen
	return pickLatest(campaigns, now, func(c *model.Campaign) bool {
		return c.ScreenID == nil
	})
}

func pickLatest(campaigns []model.Campaign, now time.Time, bound func(*model.Campaign) bool) *model.Campaign {
	var set []model.Campaign
	for i := range campaigns {
		c := campaigns[i]
		if c.InEffect(now) && bound(&c) {
			set = append(set, c)
		}
	}
	if len(set) == 0 {
		return nil
	}
	sort.SliceStable(set, func(i, j int) bool {
		return startOrEpoch(set[i]).After(startOrEpoch(set[j]))
	})
	return &set[0]
}

func startOrEpoch(c model.Campaign) time.Time {
	if c.StartDate == nil {
		return time.Unix(0, 0)
	}
	return *c.StartDate
}
