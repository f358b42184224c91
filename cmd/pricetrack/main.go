package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/cache"
	"github.com/pricetrack/pricetrack-tui/internal/ui"
)

const defaultCachePath = "pricetrack-cache.db"

func main() {
	// Show splash screen on startup
	ui.ShowSplash()

	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Parse command line flags
	apiFlag := flag.String("api", "", "Backend address (default http://127.0.0.1:8000)")
	cacheFlag := flag.String("cache", "", "Path to the offline snapshot database")
	queryFlag := flag.String("q", "", "Start with this search query applied")
	siteFlag := flag.String("site", "", "Start with this site filter applied")
	pageFlag := flag.Int("page", 0, "Start on this listing page")
	perPageFlag := flag.Int("per-page", 0, "Products per page (10, 25 or 50)")
	noCacheFlag := flag.Bool("no-cache", false, "Disable the offline snapshot cache")
	flag.Parse()

	baseURL := *apiFlag
	if baseURL == "" {
		baseURL = os.Getenv("PRICETRACK_API")
	}

	cachePath := *cacheFlag
	if cachePath == "" {
		cachePath = os.Getenv("PRICETRACK_CACHE")
	}
	if cachePath == "" {
		cachePath = defaultCachePath
	}

	// A nil store is a valid no-op cache
	var store *cache.Store
	if !*noCacheFlag {
		var err error
		store, err = cache.Open(cachePath)
		if err != nil {
			ui.PrintInfo(fmt.Sprintf("Cache unavailable, continuing without it: %v", err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	client := api.NewClientWithLogging(baseURL, cachePath)

	state := ui.NewListState()
	state.SetQuery(*queryFlag)
	state.SetSite(*siteFlag)
	if *perPageFlag != 0 {
		state.SetPerPage(*perPageFlag)
	}
	if *pageFlag > 1 {
		// SetPage rejects pages past the end, so fetch the real product
		// count first; a deep link out of range just stays on page 1
		if total, err := client.TotalProducts(); err == nil {
			state.SetTotal(total)
		}
		state.SetPage(*pageFlag)
	}

	// Main application loop - the listing hands control to the other
	// screens and gets it back when they finish
	for {
		result, err := ui.RunListing(client, store, state)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Listing failed: %v", err))
			os.Exit(1)
		}

		switch result.Action {
		case ui.ListingQuit:
			return

		case ui.ListingOpenDetail:
			backToListing, err := ui.RunDetail(client, store, result.ProductID)
			if err != nil {
				ui.PrintError(fmt.Sprintf("Product view failed: %v", err))
				os.Exit(1)
			}
			if !backToListing {
				return
			}

		case ui.ListingOpenSites:
			if err := ui.RunSiteEditor(client); err != nil {
				ui.PrintError(fmt.Sprintf("Site editor failed: %v", err))
			}

		case ui.ListingOpenSettings:
			if err := ui.RunSettingsForm(client); err != nil {
				ui.PrintError(fmt.Sprintf("Settings failed: %v", err))
			}

		case ui.ListingOpenScheduler:
			if err := ui.RunSchedulerForm(client); err != nil {
				ui.PrintError(fmt.Sprintf("Scheduler failed: %v", err))
			}

		case ui.ListingDeleteDB:
			if err := ui.RunDeleteDatabase(client); err != nil {
				ui.PrintError(fmt.Sprintf("Database delete failed: %v", err))
			}
		}

		// Clear screen before relaunching the listing (fixes ghost flash
		// from alt-screen transition)
		fmt.Print("\033[H\033[2J")
	}
}
