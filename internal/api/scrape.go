package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// TriggerScrape starts a scrape job for the given search query. The backend
// rejects the request when a job is already running.
func (c *Client) TriggerScrape(query string) error {
	v := url.Values{}
	v.Set("query", query)
	var a ack
	if err := c.postJSON("/scrape/trigger", v, nil, &a); err != nil {
		return fmt.Errorf("failed to start scrape: %w", err)
	}
	return a.err("scrape rejected")
}

// ScrapeStatus polls the state of the current scrape job.
func (c *Client) ScrapeStatus() (models.ScrapeStatus, error) {
	var st models.ScrapeStatus
	if err := c.getJSON("/scrape/status", nil, &st); err != nil {
		return models.ScrapeStatus{}, fmt.Errorf("failed to get scrape status: %w", err)
	}
	return st, nil
}

// fromSentinel maps a threshold as the backend reports it onto the form
// model. The backend stringifies whatever the config file holds, so "-1",
// "-1.0" and garbage all mean "unset".
func fromSentinel(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

func toSentinel(s string) string {
	if s == "" {
		return "-1"
	}
	return s
}

// GetSettings fetches the scraper result thresholds. The backend answers
// with string values, and the count field comes back as min_ratings even
// though change_config takes it as min_rating_number.
func (c *Client) GetSettings() (models.ScrapeSettings, error) {
	var w struct {
		MinPrice   string `json:"min_price"`
		MaxPrice   string `json:"max_price"`
		MinRating  string `json:"min_rating"`
		MinRatings string `json:"min_ratings"`
	}
	if err := c.postJSON("/get_config", nil, nil, &w); err != nil {
		return models.ScrapeSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return models.ScrapeSettings{
		MinPrice:   fromSentinel(w.MinPrice),
		MaxPrice:   fromSentinel(w.MaxPrice),
		MinRating:  fromSentinel(w.MinRating),
		MinRatings: fromSentinel(w.MinRatings),
	}, nil
}

// SaveSettings writes the scraper result thresholds as query params. Empty
// fields are sent as the -1 sentinel, which the backend treats as unset.
func (c *Client) SaveSettings(s models.ScrapeSettings) error {
	v := url.Values{}
	v.Set("min_price", toSentinel(s.MinPrice))
	v.Set("max_price", toSentinel(s.MaxPrice))
	v.Set("min_rating", toSentinel(s.MinRating))
	v.Set("min_rating_number", toSentinel(s.MinRatings))
	var a ack
	if err := c.postJSON("/change_config", v, nil, &a); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return a.err("settings rejected")
}

// GetSchedule fetches the scheduled-scrape slot. An empty Query means no
// schedule is configured.
func (c *Client) GetSchedule() (models.ScheduleData, error) {
	var s models.ScheduleData
	if err := c.getJSON("/get_schedule_data", nil, &s); err != nil {
		return models.ScheduleData{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// SaveSchedule replaces the scheduled-scrape slot. The backend holds a
// single slot, so saving clears any existing one first.
func (c *Client) SaveSchedule(s models.ScheduleData) error {
	if err := c.DeleteSchedule(); err != nil {
		return err
	}
	v := url.Values{}
	v.Set("query", s.Query)
	v.Set("time", s.Time)
	if s.DiscordID != "" {
		v.Set("discord_id", s.DiscordID)
	}
	var a ack
	if err := c.postJSON("/add_schedule", v, nil, &a); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return a.err("schedule rejected")
}

// DeleteSchedule clears the scheduled-scrape slot. Clearing an already
// empty slot is not an error.
func (c *Client) DeleteSchedule() error {
	var a ack
	if err := c.postJSON("/delete_schedule", nil, nil, &a); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return a.err("schedule delete rejected")
}
