package models

// Scrape job status values reported by the backend. The job runner has
// emitted both "running" and "in_progress" for the active state across
// versions, so both are treated as running.
const (
	ScrapeIdle       = "idle"
	ScrapeRunning    = "running"
	ScrapeInProgress = "in_progress"
	ScrapeDone       = "done"
)

// ScrapeStatus is the polled job-status payload. LenProducts is only
// meaningful when Status is "done".
type ScrapeStatus struct {
	Status      string `json:"status"`
	LenProducts int    `json:"len_products"`
}

// IsRunning reports whether the job is still active.
func (s ScrapeStatus) IsRunning() bool {
	return s.Status == ScrapeRunning || s.Status == ScrapeInProgress
}

// ScrapeSettings holds the scraper result thresholds. Fields are kept as
// strings because the wire format is stringly typed: an empty string means
// "unset" and is encoded as the sentinel -1 when saved.
type ScrapeSettings struct {
	MinPrice   string `json:"min_price"`
	MaxPrice   string `json:"max_price"`
	MinRating  string `json:"min_rating"`
	MinRatings string `json:"min_ratings"`
}

// ScheduleData is the single scheduled-scrape slot. An empty Query means
// no schedule is configured.
type ScheduleData struct {
	Query     string `json:"query"`
	Time      string `json:"time"`
	DiscordID string `json:"discord_id"`
}
