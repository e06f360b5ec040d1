package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceWrapsAndReportsOnce(t *testing.T) {
	var c cursor
	wraps := 0
	for i := 0; i < 6; i++ {
		if c.Advance(3, 0, 3, false).wrapped {
			wraps++
		}
	}
	// 6 advances over 3 items: indexes 1,2,0,1,2,0
	assert.Equal(t, 2, wraps)
	assert.Equal(t, 0, c.index)
}

func TestAdvanceNewsCadenceScenario(t *testing.T) {
	// campaign cadence 3, 5 eligible items, pool of 2, news enabled:
	// over 10 advances the news flag must be up on the 4th and 8th swaps.
	var c cursor
	var newsSwaps []int
	for i := 1; i <= 10; i++ {
		c.Advance(5, 2, 3, true)
		if c.showingNews {
			newsSwaps = append(newsSwaps, i+1) // swap i+1 is the i-th advance's result
		}
	}
	assert.Equal(t, []int{4, 8}, newsSwaps)
}

func TestAdvanceLeavingNewsReturnsToSameItem(t *testing.T) {
	var c cursor
	for i := 0; i < 3; i++ {
		c.Advance(5, 2, 3, true)
	}
	assert.True(t, c.showingNews)
	idx := c.index

	out := c.Advance(5, 2, 3, true)
	assert.False(t, out.wrapped)
	assert.False(t, c.showingNews)
	assert.Equal(t, idx, c.index, "primary index must not move while leaving news")
	assert.Equal(t, 1, c.newsIndex, "news pool cursor rotates")
	assert.Equal(t, 0, c.newsCounter)
}

func TestAdvanceNewsNeverShowsWhenDisabledOrPoolEmpty(t *testing.T) {
	var c cursor
	for i := 0; i < 12; i++ {
		c.Advance(4, 2, 3, false)
		assert.False(t, c.showingNews)
	}

	c = cursor{}
	for i := 0; i < 12; i++ {
		c.Advance(4, 0, 3, true)
		assert.False(t, c.showingNews)
	}
}

func TestAdvanceCadenceFloorsAtOne(t *testing.T) {
	var c cursor
	c.Advance(5, 1, 0, true)
	assert.True(t, c.showingNews, "cadence below 1 behaves as every item")
}

func TestAdvanceSecondaryAppearsWithinFullRotation(t *testing.T) {
	// cadence below the eligible count means news shows at least once per
	// eligibleCount primary advances
	var c cursor
	seen := false
	for i := 0; i < 4 && !seen; i++ {
		c.Advance(4, 3, 2, true)
		seen = c.showingNews
	}
	assert.True(t, seen)
}
