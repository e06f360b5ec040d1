package model

// ContentType tags a media item with its rendering contract.
type ContentType string

const (
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentEmbed    ContentType = "embed"
	ContentDocument ContentType = "document"
	ContentStream   ContentType = "stream"
	ContentClock    ContentType = "clock"
	ContentCurrency ContentType = "currency"
	ContentWeather  ContentType = "weather"
)

// MediaItem is one entry of a campaign's playlist. Duration is ignored for
// video, whose display time is the actual playback length.
type MediaItem struct {
	ID         int         `json:"id"`
	CampaignID int         `json:"campaign_id"`
	Type       ContentType `json:"type"`
	Source     string      `json:"source"`
	Duration   *int        `json:"duration,omitempty"`
	Active     bool        `json:"active"`
	Rank       int         `json:"rank"`
	Schedule   *Schedule   `json:"schedule,omitempty"`
}
