package model

// NewsItem is an interstitial content unit interleaved between campaign
// media on a counter-based cadence. The pool is platform-wide, not scoped
// to a campaign.
type NewsItem struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Body   *string `json:"body,omitempty"`
	Image  *string `json:"image,omitempty"`
	Source *string `json:"source,omitempty"`
}
