package engine

// cursor is the rotation state for one screen process. All mutation goes
// through Advance; nothing else writes these fields.
type cursor struct {
	index       int
	newsCounter int
	showingNews bool
	newsIndex   int
}

// outcome reports the side effects one Advance step asks for.
type outcome struct {
	// wrapped is true when the primary index rolled over to 0, which
	// schedules a full reload of the player process.
	wrapped bool
}

// Advance moves the cursor one visible unit forward.
//
// Leaving a news unit returns to the primary item the cursor already sits
// on; a primary step increments the index (wrapping) and bumps the news
// counter, flipping to news once the cadence is reached, the pool is
// non-empty, and news is enabled.
func (c *cursor) Advance(eligibleCount, newsPoolSize, cadence int, newsEnabled bool) outcome {
	if c.showingNews {
		if newsPoolSize > 0 {
			c.newsIndex = (c.newsIndex + 1) % newsPoolSize
		}
		c.showingNews = false
		c.newsCounter = 0
		return outcome{}
	}

	if eligibleCount > 0 {
		c.index = (c.index + 1) % eligibleCount
	}
	wrapped := c.index == 0 && eligibleCount > 0

	if cadence < 1 {
		cadence = 1
	}
	c.newsCounter++
	if c.newsCounter >= cadence && newsPoolSize > 0 && newsEnabled {
		c.showingNews = true
		c.newsCounter = 0
	}
	return outcome{wrapped: wrapped}
}
