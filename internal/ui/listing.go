package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/cache"
	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// ListingAction tells the main loop what to run after the listing program
// exits.
type ListingAction int

const (
	ListingQuit ListingAction = iota
	ListingOpenDetail
	ListingOpenSites
	ListingOpenSettings
	ListingOpenScheduler
	ListingDeleteDB
)

// ListingResult is what RunListing hands back to the main loop.
type ListingResult struct {
	Action    ListingAction
	ProductID int
}

// View modes for the listing page
const (
	listingModeBrowse      = ""
	listingModeSearch      = "search"
	listingModeSiteFilter  = "site"
	listingModeScrapeQuery = "scrape"
	listingModeConfirmDel  = "confirm_delete"
	listingModeExport      = "export"
)

// listingFetchedMsg carries one listing fetch result. seq identifies the
// request so responses arriving out of order cannot clobber newer state.
type listingFetchedMsg struct {
	seq       int
	page      *models.ProductPage
	err       error
	fromCache bool
	cachedAt  time.Time
}

// bulkDoneMsg reports a bulk mutation (delete, track, untrack).
type bulkDoneMsg struct {
	verb    string
	deleted int
	err     error
}

// exportDoneMsg reports a finished export download.
type exportDoneMsg struct {
	file string
	err  error
}

// scrapeStartedMsg reports the scrape trigger request.
type scrapeStartedMsg struct {
	err error
}

// listingModel is the product listing page.
type listingModel struct {
	PageState

	client *api.Client
	store  *cache.Store

	state *ListState
	items []models.Product

	table table.Model
	input textinput.Model

	viewMode  string
	loading   bool
	fetchSeq  int
	fromCache bool
	cachedAt  time.Time

	watcher ScrapeWatcher

	// bulkTrack is what the next bulk watch action does. It flips after
	// each use and resets to track whenever the selection empties, so the
	// same key alternates track/untrack on a held selection.
	bulkTrackNext bool

	result ListingResult
}

func newListingModel(client *api.Client, store *cache.Store, state *ListState) listingModel {
	layout := DefaultLayout()

	t := table.New(
		table.WithColumns(BuildProductColumns(layout, state.Sort)),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	ti := textinput.New()
	ti.CharLimit = 120

	return listingModel{
		PageState:     NewPageState(layout),
		client:        client,
		store:         store,
		state:         state,
		table:         t,
		input:         ti,
		fetchSeq:      1,
		loading:       true,
		bulkTrackNext: true,
	}
}

// RunListing shows the product listing and blocks until the user leaves it.
// The passed state persists across invocations so filters, sort, page and
// selection survive round trips through other screens.
func RunListing(client *api.Client, store *cache.Store, state *ListState) (ListingResult, error) {
	m := newListingModel(client, store, state)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return ListingResult{}, fmt.Errorf("listing program error: %w", err)
	}
	return finalModel.(listingModel).result, nil
}

func (m listingModel) Init() tea.Cmd {
	// Init cannot mutate the model, so the initial fetch reuses the seq
	// assigned at construction. The status poll resumes watching a scrape
	// that was started before this screen opened.
	return tea.Batch(m.fetchWithSeq(m.fetchSeq), pollScrapeCmd(m.client))
}

// fetchCmd bumps the request sequence and requests the current page.
func (m *listingModel) fetchCmd() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	return m.fetchWithSeq(m.fetchSeq)
}

// fetchWithSeq requests the current page, tagging the response with seq.
// On backend failure it falls back to the snapshot cache so the last known
// data stays browsable offline.
func (m listingModel) fetchWithSeq(seq int) tea.Cmd {
	s := m.state
	q := api.ListQuery{
		Q:        s.Filters.Q,
		Site:     s.Filters.Site,
		Page:     s.Page,
		PerPage:  s.Filters.PerPage,
		OrderBy:  s.Sort.Column,
		Reversed: s.Sort.Desc,
	}
	client := m.client
	store := m.store
	return func() tea.Msg {
		page, err := client.ListProducts(q)
		if err == nil {
			store.SaveListing(q.Q, q.Site, q.Page, q.PerPage, q.OrderBy, q.Reversed, page)
			return listingFetchedMsg{seq: seq, page: page}
		}
		if cached, at, ok := store.LoadListing(q.Q, q.Site, q.Page, q.PerPage, q.OrderBy, q.Reversed); ok {
			return listingFetchedMsg{seq: seq, page: cached, fromCache: true, cachedAt: at, err: err}
		}
		return listingFetchedMsg{seq: seq, err: err}
	}
}

func (m *listingModel) visibleIDs() []int {
	ids := make([]int, 0, len(m.items))
	for _, p := range m.items {
		ids = append(ids, p.ID)
	}
	return ids
}

func (m *listingModel) rebuildTable() {
	cursor := m.table.Cursor()
	rows := make([]table.Row, 0, len(m.items))
	for i, p := range m.items {
		rows = append(rows, BuildProductRow(p, m.state.Ordinal(i), m.state.Selection[p.ID]))
	}
	m.table.SetColumns(BuildProductColumns(m.Layout, m.state.Sort))
	m.table.SetRows(rows)
	m.table.SetHeight(m.Layout.TableHeight)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func (m *listingModel) cursorProduct() *models.Product {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.items) {
		return nil
	}
	return &m.items[c]
}

func (m listingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.rebuildTable()
		}
		return m, nil

	case listingFetchedMsg:
		if msg.seq != m.fetchSeq {
			// A newer request is in flight; this response is stale
			return m, nil
		}
		m.loading = false
		if msg.page == nil {
			m.SetStatus(ErrorStyle.Render("Load failed: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		m.items = msg.page.Items
		m.state.SetTotal(msg.page.Total)
		m.fromCache = msg.fromCache
		m.cachedAt = msg.cachedAt
		if msg.fromCache {
			m.SetStatus(WarnStyle.Render("Backend unreachable, showing cached data"), 5*time.Second)
		}
		m.rebuildTable()
		return m, nil

	case bulkDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.SetStatus(ErrorStyle.Render(msg.verb+" failed: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		switch msg.verb {
		case "Delete":
			m.SetStatus(SuccessStyle.Render(fmt.Sprintf("Deleted %d products", msg.deleted)), 3*time.Second)
			m.state.ClearSelection()
			m.bulkTrackNext = true
		case "Track":
			m.SetStatus(SuccessStyle.Render("Tracking enabled for selection"), 3*time.Second)
			m.bulkTrackNext = false
		case "Untrack":
			m.SetStatus(SuccessStyle.Render("Tracking disabled for selection"), 3*time.Second)
			m.bulkTrackNext = true
		}
		return m, m.fetchCmd()

	case exportDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.SetStatus(ErrorStyle.Render("Export failed: "+msg.err.Error()), 5*time.Second)
		} else {
			m.SetStatus(SuccessStyle.Render("Exported to "+msg.file), 5*time.Second)
		}
		return m, nil

	case scrapeStartedMsg:
		if msg.err != nil {
			m.watcher.Reset()
			m.SetStatus(ErrorStyle.Render("Scrape failed to start: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		m.SetStatus(AccentStyle.Render("Scrape started"), 3*time.Second)
		return m, scheduleScrapeTickCmd()

	case scrapeTickMsg:
		if !m.watcher.Running() {
			return m, nil
		}
		return m, pollScrapeCmd(m.client)

	case scrapePollMsg:
		if !m.watcher.Running() {
			// a job triggered before this screen opened is adopted here
			if msg.err == nil && msg.status.IsRunning() {
				m.watcher.Start()
				m.SetStatus(WarnStyle.Render("A scrape is already running, watching it"), 3*time.Second)
				return m, scheduleScrapeTickCmd()
			}
			return m, nil
		}
		switch m.watcher.Observe(msg.status, msg.err) {
		case WatchContinue:
			return m, scheduleScrapeTickCmd()
		case WatchFinished:
			m.SetStatus(SuccessStyle.Render(
				fmt.Sprintf("Scrape finished, %d products", m.watcher.ResultCount())), 5*time.Second)
			return m, m.fetchCmd()
		case WatchGaveUp:
			if m.watcher.State() == WatcherFailed {
				reason := "timed out"
				if m.watcher.Err() != nil {
					reason = m.watcher.Err().Error()
				}
				m.SetStatus(ErrorStyle.Render("Scrape watch failed: "+reason), 8*time.Second)
			}
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case listingModeSearch, listingModeSiteFilter, listingModeScrapeQuery:
			return m.handleInputKeys(msg)
		case listingModeConfirmDel:
			return m.handleConfirmDeleteKeys(msg)
		case listingModeExport:
			return m.handleExportKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}
	}

	return m, nil
}

func (m listingModel) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Quitting = true
		m.result = ListingResult{Action: ListingQuit}
		return m, tea.Quit

	case "enter":
		if p := m.cursorProduct(); p != nil {
			m.result = ListingResult{Action: ListingOpenDetail, ProductID: p.ID}
			return m, tea.Quit
		}
		return m, nil

	case "r":
		return m, m.fetchCmd()

	case "/":
		m.viewMode = listingModeSearch
		m.input.Placeholder = "search products"
		m.input.SetValue(m.state.Filters.Q)
		m.input.Focus()
		return m, textinput.Blink

	case "f":
		m.viewMode = listingModeSiteFilter
		m.input.Placeholder = "site name (empty for all)"
		m.input.SetValue(m.state.Filters.Site)
		m.input.Focus()
		return m, textinput.Blink

	case "p":
		// cycle page size
		cur := m.state.Filters.PerPage
		next := PerPageChoices[0]
		for i, c := range PerPageChoices {
			if c == cur {
				next = PerPageChoices[(i+1)%len(PerPageChoices)]
				break
			}
		}
		m.state.SetPerPage(next)
		m.bulkTrackNext = true
		return m, m.fetchCmd()

	case "1", "2", "3", "4", "5", "6", "7":
		n, _ := strconv.Atoi(msg.String())
		m.state.ToggleSort(SortColumns[n-1])
		m.bulkTrackNext = true
		return m, m.fetchCmd()

	case "0":
		m.state.ClearSort()
		m.bulkTrackNext = true
		return m, m.fetchCmd()

	case "left", "h":
		if m.state.Page > 1 {
			m.state.PrevPage()
			m.bulkTrackNext = true
			return m, m.fetchCmd()
		}
		return m, nil

	case "right", "l":
		if m.state.Page < m.state.MaxPage() {
			m.state.NextPage()
			m.bulkTrackNext = true
			return m, m.fetchCmd()
		}
		return m, nil

	case " ":
		if p := m.cursorProduct(); p != nil {
			m.state.ToggleSelect(p.ID)
			if m.state.SelectionCount() == 0 {
				m.bulkTrackNext = true
			}
			m.rebuildTable()
		}
		return m, nil

	case "a":
		m.state.ToggleSelectAll(m.visibleIDs())
		if m.state.SelectionCount() == 0 {
			m.bulkTrackNext = true
		}
		m.rebuildTable()
		return m, nil

	case "A":
		m.state.ClearSelection()
		m.bulkTrackNext = true
		m.rebuildTable()
		return m, nil

	case "d":
		if m.state.SelectionCount() > 0 {
			m.viewMode = listingModeConfirmDel
		}
		return m, nil

	case "w":
		if m.state.SelectionCount() == 0 {
			return m, nil
		}
		ids := m.state.SelectedIDs()
		track := m.bulkTrackNext
		client := m.client
		m.loading = true
		return m, func() tea.Msg {
			if track {
				return bulkDoneMsg{verb: "Track", err: client.AddWatch(ids)}
			}
			return bulkDoneMsg{verb: "Untrack", err: client.DeleteWatch(ids)}
		}

	case "e":
		m.viewMode = listingModeExport
		return m, nil

	case "s":
		if m.watcher.Running() {
			m.SetStatus(WarnStyle.Render("A scrape is already running"), 3*time.Second)
			return m, nil
		}
		m.viewMode = listingModeScrapeQuery
		m.input.Placeholder = "scrape search query"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "c":
		m.result = ListingResult{Action: ListingOpenSites}
		return m, tea.Quit

	case "g":
		m.result = ListingResult{Action: ListingOpenSettings}
		return m, tea.Quit

	case "S":
		m.result = ListingResult{Action: ListingOpenScheduler}
		return m, tea.Quit

	case "X":
		m.result = ListingResult{Action: ListingDeleteDB}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m listingModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = listingModeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.viewMode
		m.viewMode = listingModeBrowse
		m.input.Blur()
		switch mode {
		case listingModeSearch:
			m.state.SetQuery(value)
			m.bulkTrackNext = true
			return m, m.fetchCmd()
		case listingModeSiteFilter:
			m.state.SetSite(value)
			m.bulkTrackNext = true
			return m, m.fetchCmd()
		case listingModeScrapeQuery:
			if value == "" {
				m.SetStatus(ErrorStyle.Render("Scrape query cannot be empty"), 3*time.Second)
				return m, nil
			}
			m.watcher.Start()
			client := m.client
			return m, func() tea.Msg {
				return scrapeStartedMsg{err: client.TriggerScrape(value)}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m listingModel) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.viewMode = listingModeBrowse
		ids := m.state.SelectedIDs()
		client := m.client
		m.loading = true
		return m, func() tea.Msg {
			deleted, err := client.DeleteProducts(ids)
			return bulkDoneMsg{verb: "Delete", deleted: deleted, err: err}
		}
	case "n", "N", "esc":
		m.viewMode = listingModeBrowse
		return m, nil
	}
	return m, nil
}

func (m listingModel) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	format := ""
	switch msg.String() {
	case "c":
		format = "csv"
	case "p":
		format = "pdf"
	case "x":
		format = "xlsx"
	case "esc", "q":
		m.viewMode = listingModeBrowse
		return m, nil
	default:
		return m, nil
	}
	m.viewMode = listingModeBrowse
	m.loading = true
	client := m.client
	q := m.state.Filters.Q
	site := m.state.Filters.Site
	return m, func() tea.Msg {
		file, err := client.Export(format, q, site)
		return exportDoneMsg{file: file, err: err}
	}
}

func (m listingModel) View() string {
	if m.Quitting {
		return ""
	}

	layout := m.Layout
	content := ViewHeaderWithSubtitle("Products", m.filterSummary(), layout.InnerWidth)

	switch m.viewMode {
	case listingModeSearch:
		content += RenderNormal("Search: ") + m.input.View() + "\n\n"
	case listingModeSiteFilter:
		content += RenderNormal("Site filter: ") + m.input.View() + "\n\n"
	case listingModeScrapeQuery:
		content += RenderNormal("Scrape query: ") + m.input.View() + "\n\n"
	case listingModeConfirmDel:
		content += ErrorStyle.Render(fmt.Sprintf(
			"Delete %d selected products? (y/n)", m.state.SelectionCount())) + "\n\n"
	case listingModeExport:
		content += AccentStyle.Render("Export: (c)sv  (p)df  (x)lsx  (esc) cancel") + "\n\n"
	}

	if len(m.items) == 0 && !m.loading {
		content += RenderDim("No products match the current filters.") + "\n\n"
	}
	content += RenderTableWithSelection(m.table, layout)
	content += "\n" + FullWidthDivider(layout.InnerWidth) + "\n"
	content += m.footerLine()

	if m.HasStatus() {
		content += "\n" + m.StatusMsg
	}

	return BuildTwoBoxView(content, m.helpText(), layout)
}

func (m listingModel) filterSummary() string {
	parts := []string{}
	if m.state.Filters.Q != "" {
		parts = append(parts, "q="+m.state.Filters.Q)
	}
	if m.state.Filters.Site != "" {
		parts = append(parts, "site="+m.state.Filters.Site)
	}
	if m.state.Sort.Column != "" {
		dir := "asc"
		if m.state.Sort.Desc {
			dir = "desc"
		}
		parts = append(parts, "sort="+m.state.Sort.Column+" "+dir)
	}
	if m.fromCache {
		parts = append(parts, "cached "+m.cachedAt.Local().Format("15:04"))
	}
	if len(parts) == 0 {
		return "all products"
	}
	return strings.Join(parts, " | ")
}

func (m listingModel) footerLine() string {
	line := fmt.Sprintf("Page %d of %d  (%d products, %d per page)",
		m.state.Page, m.state.MaxPage(), m.state.Total, m.state.Filters.PerPage)

	if n := m.state.SelectionCount(); n > 0 {
		sel := fmt.Sprintf("%d selected", n)
		switch m.state.ClassifySelection(m.visibleIDs()) {
		case PageSelectionAll:
			sel += " [all on page]"
		case PageSelectionSome:
			sel += " [partial]"
		}
		line += "  •  " + AccentStyle.Render(sel)
	}

	if m.watcher.Running() {
		line += "  •  " + WarnStyle.Render("scraping...")
	}
	if m.loading {
		line += "  •  " + RenderDim("loading")
	}
	return line
}

func (m listingModel) helpText() string {
	switch m.viewMode {
	case listingModeSearch, listingModeSiteFilter, listingModeScrapeQuery:
		return "Enter: apply | Esc: cancel"
	case listingModeConfirmDel:
		return "y: delete | n: cancel"
	case listingModeExport:
		return "c: csv | p: pdf | x: xlsx | Esc: cancel"
	}
	trackVerb := "track"
	if !m.bulkTrackNext {
		trackVerb = "untrack"
	}
	return fmt.Sprintf(
		"Enter: detail | /: search | f: site | 1-7: sort | h/l: page | Space/a: select | d: delete | w: %s | e: export | s: scrape | c: sites | g: settings | S: schedule | q: quit",
		trackVerb)
}
