package ui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// forms.go holds the standalone huh flows launched from the listing page:
// scraper settings, the scheduled scrape, and the database wipe.

// scheduleTimePattern accepts 24h HH:MM times.
var scheduleTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidateScheduleTime checks a scheduled-scrape time of day.
func ValidateScheduleTime(s string) error {
	if !scheduleTimePattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("time must be HH:MM (24h)")
	}
	return nil
}

// optionalNumber validates a threshold field: empty means unset, anything
// else must be a non-negative number.
func optionalNumber(what string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("%s must be a non-negative number", what)
		}
		return nil
	}
}

// RunSettingsForm edits the scraper result thresholds.
func RunSettingsForm(client *api.Client) error {
	var settings models.ScrapeSettings
	var loadErr error
	if err := RunWithSpinner("Loading settings...", func() {
		settings, loadErr = client.GetSettings()
	}); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}

	var save bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum price").
				Description("Results cheaper than this are dropped. Empty disables.").
				Value(&settings.MinPrice).
				Validate(optionalNumber("minimum price")),
			huh.NewInput().
				Title("Maximum price").
				Value(&settings.MaxPrice).
				Validate(optionalNumber("maximum price")),
			huh.NewInput().
				Title("Minimum rating").
				Value(&settings.MinRating).
				Validate(optionalNumber("minimum rating")),
			huh.NewInput().
				Title("Minimum review count").
				Value(&settings.MinRatings).
				Validate(optionalNumber("minimum review count")),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save settings?").
				Value(&save),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}
	if !save {
		return nil
	}

	var saveErr error
	if err := RunWithSpinner("Saving settings...", func() {
		saveErr = client.SaveSettings(settings)
	}); err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}
	PrintSuccess("Settings saved")
	return nil
}

// RunSchedulerForm edits the single scheduled-scrape slot.
func RunSchedulerForm(client *api.Client) error {
	var schedule models.ScheduleData
	var loadErr error
	if err := RunWithSpinner("Loading schedule...", func() {
		schedule, loadErr = client.GetSchedule()
	}); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}

	const (
		scheduleSave = iota
		scheduleCancel
		scheduleClear
	)
	action := scheduleSave

	actions := []huh.Option[int]{
		huh.NewOption("Save", scheduleSave),
		huh.NewOption("Cancel", scheduleCancel),
	}
	if schedule.Query != "" {
		actions = append(actions, huh.NewOption("Remove schedule", scheduleClear))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search query").
				Description("Runs a scrape for this query every day").
				Value(&schedule.Query).
				Validate(nonEmpty("search query")),
			huh.NewInput().
				Title("Time of day").
				Placeholder("14:30").
				Value(&schedule.Time).
				Validate(ValidateScheduleTime),
			huh.NewInput().
				Title("Discord ID").
				Description("Optional, gets pinged when the scrape finishes").
				Value(&schedule.DiscordID),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Action").Options(actions...).Value(&action),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}

	switch action {
	case scheduleCancel:
		return nil
	case scheduleClear:
		var delErr error
		if err := RunWithSpinner("Removing schedule...", func() {
			delErr = client.DeleteSchedule()
		}); err != nil {
			return err
		}
		if delErr != nil {
			return delErr
		}
		PrintSuccess("Schedule removed")
		return nil
	}

	var saveErr error
	if err := RunWithSpinner("Saving schedule...", func() {
		saveErr = client.SaveSchedule(schedule)
	}); err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}
	PrintSuccess(fmt.Sprintf("Daily scrape for %q scheduled at %s", schedule.Query, schedule.Time))
	return nil
}

// RunDeleteDatabase wipes every product after two separate confirmations.
// Two forms, not one, so a held-down enter cannot blow through both.
func RunDeleteDatabase(client *api.Client) error {
	var first bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Delete ALL products and price history?").
			Description("This removes everything the scraper has collected.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&first),
	)).WithTheme(NewAppTheme())
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}
	if !first {
		return nil
	}

	var second bool
	confirm := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Are you absolutely sure?").
			Description("There is no undo.").
			Affirmative("Yes, delete everything").
			Negative("Cancel").
			Value(&second),
	)).WithTheme(NewAppTheme())
	if err := confirm.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}
	if !second {
		return nil
	}

	var delErr error
	if err := RunWithSpinner("Deleting database...", func() {
		delErr = client.DeleteDatabase()
	}); err != nil {
		return err
	}
	if delErr != nil {
		return delErr
	}
	PrintSuccess("Database deleted")
	return nil
}
