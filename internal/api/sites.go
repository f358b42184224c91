package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// SiteCount returns how many scraper site definitions exist.
func (c *Client) SiteCount() (int, error) {
	var out struct {
		NrSites int `json:"nr_sites"`
	}
	if err := c.getJSON("/get_site_number", nil, &out); err != nil {
		return 0, fmt.Errorf("failed to get site count: %w", err)
	}
	return out.NrSites, nil
}

// siteWire is the flat shape the site endpoints speak: get_site_settings
// answers with the selectors at the top level, and set_site_settings reads
// every field as a query parameter. The nesting in SiteConfig is purely
// client-side.
type siteWire struct {
	Name              string `json:"name"`
	URL               string `json:"url"`
	URLSearchTemplate string `json:"url_searchTemplate"`
	Product           string `json:"product"`
	Title             string `json:"title"`
	Link              string `json:"link"`
	Price             string `json:"price"`
	Currency          string `json:"currency"`
	Rating            string `json:"rating"`
	ID                string `json:"id"`
	ImageLink         string `json:"image_link"`
	RemoveItemsWith   string `json:"remove_items_with"`
	EndOfPages        string `json:"end_of_pages"`
}

func (w siteWire) config() models.SiteConfig {
	return models.SiteConfig{
		Name:              w.Name,
		URL:               w.URL,
		URLSearchTemplate: w.URLSearchTemplate,
		Selectors: models.SiteSelectors{
			Product:         w.Product,
			Title:           w.Title,
			Link:            w.Link,
			Price:           w.Price,
			Currency:        w.Currency,
			Rating:          w.Rating,
			ID:              w.ID,
			ImageLink:       w.ImageLink,
			RemoveItemsWith: w.RemoveItemsWith,
			EndOfPages:      w.EndOfPages,
		},
	}
}

func siteValues(cfg models.SiteConfig) url.Values {
	v := url.Values{}
	v.Set("name", cfg.Name)
	v.Set("url", cfg.URL)
	v.Set("url_searchTemplate", cfg.URLSearchTemplate)
	v.Set("product", cfg.Selectors.Product)
	v.Set("title", cfg.Selectors.Title)
	v.Set("link", cfg.Selectors.Link)
	v.Set("price", cfg.Selectors.Price)
	v.Set("currency", cfg.Selectors.Currency)
	v.Set("rating", cfg.Selectors.Rating)
	v.Set("id", cfg.Selectors.ID)
	v.Set("image_link", cfg.Selectors.ImageLink)
	v.Set("remove_items_with", cfg.Selectors.RemoveItemsWith)
	v.Set("end_of_pages", cfg.Selectors.EndOfPages)
	return v
}

// SiteSettings fetches the site definition at the given list position.
func (c *Client) SiteSettings(index int) (models.SiteConfig, error) {
	v := url.Values{}
	v.Set("index", strconv.Itoa(index))
	var w siteWire
	if err := c.getJSON("/get_site_settings", v, &w); err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to get site %d: %w", index, err)
	}
	return w.config(), nil
}

// LoadAllSites fetches every site definition in list order.
func (c *Client) LoadAllSites() ([]models.SiteConfig, error) {
	n, err := c.SiteCount()
	if err != nil {
		return nil, err
	}
	sites := make([]models.SiteConfig, 0, n)
	for i := 0; i < n; i++ {
		cfg, err := c.SiteSettings(i)
		if err != nil {
			return nil, err
		}
		sites = append(sites, cfg)
	}
	return sites, nil
}

// SaveSite writes a site definition at the given list position. Passing
// the current site count appends a new entry.
func (c *Client) SaveSite(index int, cfg models.SiteConfig) error {
	v := siteValues(cfg)
	v.Set("index", strconv.Itoa(index))
	var a ack
	if err := c.postJSON("/set_site_settings", v, nil, &a); err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}
	return a.err("site rejected")
}

// DeleteSite removes the site definition at the given list position. Later
// entries shift down by one.
func (c *Client) DeleteSite(index int) error {
	v := url.Values{}
	v.Set("index", strconv.Itoa(index))
	var a ack
	if err := c.postJSON("/delete_site", v, nil, &a); err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return a.err("site delete rejected")
}
