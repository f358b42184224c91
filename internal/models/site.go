package models

// SiteSelectors holds the CSS selectors a scraper site definition needs.
// The backend exchanges them as flat fields; the grouping here is only for
// the client's benefit.
type SiteSelectors struct {
	Product         string
	Title           string
	Link            string
	Price           string
	Currency        string
	Rating          string
	ID              string
	ImageLink       string
	RemoveItemsWith string
	EndOfPages      string
}

// SiteConfig is one scraper site definition. The backend addresses entries
// by list position, which shifts when earlier entries are deleted; LocalID
// is a client-assigned stable identity so edits keep referring to the same
// entry across reorders. It never goes over the wire.
type SiteConfig struct {
	LocalID           int
	Name              string
	URL               string
	URLSearchTemplate string
	Selectors         SiteSelectors
}
