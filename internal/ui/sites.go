package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// sites.go is the scraper site definition editor. The backend addresses
// sites by list position, which shifts when entries are deleted, so the
// editor keeps its own slice keyed by LocalID and recomputes the wire index
// from slice position on every save and delete.

// The backend ships with Romanian site definitions and its seed data uses
// this default name, so new entries keep the convention.
const defaultSiteNameBase = "Nume nou site"

// NextDefaultSiteName synthesizes a name for a new site that does not
// collide with existing names. The bare base name counts as number 0 and
// numbered variants are "Nume nou site (N)"; the lowest unused number
// wins. Matching is case-insensitive.
func NextDefaultSiteName(existing []string) string {
	used := make(map[int]bool)
	base := strings.ToLower(defaultSiteNameBase)
	for _, name := range existing {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == base {
			used[0] = true
			continue
		}
		if strings.HasPrefix(n, base+" (") && strings.HasSuffix(n, ")") {
			numPart := n[len(base)+2 : len(n)-1]
			if num, err := strconv.Atoi(numPart); err == nil && num > 0 {
				used[num] = true
			}
		}
	}
	if !used[0] {
		return defaultSiteNameBase
	}
	for n := 1; ; n++ {
		if !used[n] {
			return fmt.Sprintf("%s (%d)", defaultSiteNameBase, n)
		}
	}
}

// ValidateSiteName checks that a site name is non-empty and unique among
// the other sites, case-insensitively. selfID is the LocalID of the site
// being edited so it does not collide with itself; pass a negative id for
// new sites.
func ValidateSiteName(name string, sites []models.SiteConfig, selfID int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty")
	}
	lower := strings.ToLower(trimmed)
	for _, s := range sites {
		if s.LocalID == selfID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(s.Name)) == lower {
			return fmt.Errorf("a site named %q already exists", s.Name)
		}
	}
	return nil
}

// siteEditor drives the editor loop over a local copy of the definitions.
type siteEditor struct {
	client      *api.Client
	sites       []models.SiteConfig
	nextLocalID int
}

// RunSiteEditor loads the site definitions and loops through huh forms
// until the user is done. Every save and delete goes straight to the
// backend so the local slice never drifts.
func RunSiteEditor(client *api.Client) error {
	var sites []models.SiteConfig
	var loadErr error
	if err := RunWithSpinner("Loading site definitions...", func() {
		sites, loadErr = client.LoadAllSites()
	}); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}

	ed := &siteEditor{client: client}
	for i := range sites {
		sites[i].LocalID = ed.nextLocalID
		ed.nextLocalID++
	}
	ed.sites = sites

	return ed.loop()
}

func (ed *siteEditor) indexOf(localID int) int {
	for i, s := range ed.sites {
		if s.LocalID == localID {
			return i
		}
	}
	return -1
}

func (ed *siteEditor) names() []string {
	names := make([]string, len(ed.sites))
	for i, s := range ed.sites {
		names[i] = s.Name
	}
	return names
}

const (
	siteActionAdd  = -1
	siteActionDone = -2
)

func (ed *siteEditor) loop() error {
	for {
		options := make([]huh.Option[int], 0, len(ed.sites)+2)
		for _, s := range ed.sites {
			options = append(options, huh.NewOption(s.Name, s.LocalID))
		}
		options = append(options,
			huh.NewOption("+ Add new site", siteActionAdd),
			huh.NewOption("Done", siteActionDone),
		)

		var choice int
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[int]().
				Title("Scraper Sites").
				Description(fmt.Sprintf("%d sites configured", len(ed.sites))).
				Options(options...).
				Value(&choice),
		)).WithTheme(NewAppTheme())

		if err := form.Run(); err != nil {
			if err == huh.ErrUserAborted {
				return nil
			}
			return err
		}

		switch choice {
		case siteActionDone:
			return nil
		case siteActionAdd:
			if err := ed.addSite(); err != nil {
				PrintError(err.Error())
			}
		default:
			if err := ed.editSite(choice); err != nil {
				PrintError(err.Error())
			}
		}
	}
}

func (ed *siteEditor) addSite() error {
	cfg := models.SiteConfig{
		LocalID: ed.nextLocalID,
		Name:    NextDefaultSiteName(ed.names()),
	}

	save, err := ed.siteForm(&cfg, false)
	if err != nil || !save {
		return err
	}

	var saveErr error
	if err := RunWithSpinner("Saving site...", func() {
		// appending = writing one past the last existing index
		saveErr = ed.client.SaveSite(len(ed.sites), cfg)
	}); err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}

	ed.nextLocalID++
	ed.sites = append(ed.sites, cfg)
	PrintSuccess("Site " + cfg.Name + " saved")
	return nil
}

func (ed *siteEditor) editSite(localID int) error {
	idx := ed.indexOf(localID)
	if idx < 0 {
		return fmt.Errorf("site no longer exists")
	}
	cfg := ed.sites[idx]

	save, err := ed.siteForm(&cfg, true)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}

	if cfg.Name == "" {
		// delete was chosen inside the form
		return ed.deleteSite(localID)
	}

	// the slice may have shifted while the form was open only through our
	// own deletes, so recomputing the index here is safe
	idx = ed.indexOf(localID)
	var saveErr error
	if err := RunWithSpinner("Saving site...", func() {
		saveErr = ed.client.SaveSite(idx, cfg)
	}); err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}

	ed.sites[idx] = cfg
	PrintSuccess("Site " + cfg.Name + " saved")
	return nil
}

func (ed *siteEditor) deleteSite(localID int) error {
	idx := ed.indexOf(localID)
	if idx < 0 {
		return fmt.Errorf("site no longer exists")
	}
	name := ed.sites[idx].Name

	var confirm bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete site %q?", name)).
			Description("Products already scraped from it are kept.").
			Value(&confirm),
	)).WithTheme(NewAppTheme())
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}
	if !confirm {
		return nil
	}

	var delErr error
	if err := RunWithSpinner("Deleting site...", func() {
		delErr = ed.client.DeleteSite(idx)
	}); err != nil {
		return err
	}
	if delErr != nil {
		return delErr
	}

	ed.sites = append(ed.sites[:idx], ed.sites[idx+1:]...)
	PrintSuccess("Site " + name + " deleted")
	return nil
}

// siteForm edits cfg in place and returns whether it should be saved.
// For existing sites a "delete" action empties cfg.Name as the signal.
func (ed *siteEditor) siteForm(cfg *models.SiteConfig, existing bool) (bool, error) {
	const (
		outcomeSave = iota
		outcomeCancel
		outcomeDelete
	)

	selfID := cfg.LocalID
	outcome := outcomeSave

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&cfg.Name).
			Validate(func(s string) error {
				return ValidateSiteName(s, ed.sites, selfID)
			}),
		huh.NewInput().
			Title("Base URL").
			Value(&cfg.URL).
			Validate(nonEmpty("base URL")),
		huh.NewInput().
			Title("Search URL template").
			Description("{query} and {page} are substituted by the scraper").
			Value(&cfg.URLSearchTemplate).
			Validate(nonEmpty("search URL template")),
	}

	selectors := []huh.Field{
		huh.NewInput().Title("Product selector").Value(&cfg.Selectors.Product).Validate(nonEmpty("product selector")),
		huh.NewInput().Title("Title selector").Value(&cfg.Selectors.Title).Validate(nonEmpty("title selector")),
		huh.NewInput().Title("Link selector").Value(&cfg.Selectors.Link).Validate(nonEmpty("link selector")),
		huh.NewInput().Title("Price selector").Value(&cfg.Selectors.Price).Validate(nonEmpty("price selector")),
		huh.NewInput().Title("Currency selector").Value(&cfg.Selectors.Currency),
		huh.NewInput().Title("Rating selector").Value(&cfg.Selectors.Rating),
		huh.NewInput().Title("ID selector").Value(&cfg.Selectors.ID),
		huh.NewInput().Title("Image selector").Value(&cfg.Selectors.ImageLink),
		huh.NewInput().Title("Skip items matching").Value(&cfg.Selectors.RemoveItemsWith),
		huh.NewInput().Title("End of pages marker").Value(&cfg.Selectors.EndOfPages),
	}

	actions := []huh.Option[int]{
		huh.NewOption("Save", outcomeSave),
		huh.NewOption("Cancel", outcomeCancel),
	}
	if existing {
		actions = append(actions, huh.NewOption("Delete this site", outcomeDelete))
	}

	form := huh.NewForm(
		huh.NewGroup(fields...).Title("Site"),
		huh.NewGroup(selectors...).Title("Selectors"),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Action").Options(actions...).Value(&outcome),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}

	switch outcome {
	case outcomeCancel:
		return false, nil
	case outcomeDelete:
		cfg.Name = ""
		return true, nil
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	return true, nil
}

func nonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}
