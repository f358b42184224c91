package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pricetrack/pricetrack-tui/internal/api"
	"github.com/pricetrack/pricetrack-tui/internal/cache"
	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// historyPerPage is how many captures the history table shows at once.
const historyPerPage = 10

// detailLoadedMsg carries everything the detail page fetches at once.
type detailLoadedMsg struct {
	product   *models.Product
	history   []models.PricePoint
	track     models.TrackState
	trackOK   bool
	fromCache bool
	err       error
}

// trackToggledMsg reports the backend's answer to a track toggle.
type trackToggledMsg struct {
	tracked bool
	err     error
}

// notifySavedMsg reports a saved notification threshold.
type notifySavedMsg struct {
	price int
	err   error
}

// View modes for the detail page
const (
	detailModeView       = ""
	detailModeNotify     = "notify"
	detailModeConfirmDel = "confirm_delete"
)

// productDeletedMsg reports the delete of the shown product.
type productDeletedMsg struct {
	err error
}

// detailModel is the product detail page: product info, price history with
// per-capture deltas, a sparkline, and the tracking controls.
type detailModel struct {
	PageState

	client    *api.Client
	store     *cache.Store
	productID int

	product *models.Product
	// history is newest first; deltas compare each row to the next one
	history  []models.PricePoint
	track    models.TrackState
	trackOK  bool
	notFound bool
	loaded   bool
	loadErr  error

	historyPage int
	chartMode   bool
	viewMode    string
	input       textinput.Model
	inputErr    string
}

// RunDetail shows one product until the user goes back. The bool result is
// false when the user quit the app outright.
func RunDetail(client *api.Client, store *cache.Store, productID int) (backToListing bool, err error) {
	ti := textinput.New()
	ti.CharLimit = 12
	ti.Placeholder = "notify when price drops below"

	m := detailModel{
		PageState: NewPageState(DefaultLayout()),
		client:    client,
		store:     store,
		productID: productID,
		input:     ti,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("detail program error: %w", err)
	}
	return !finalModel.(detailModel).Quitting, nil
}

func (m detailModel) Init() tea.Cmd {
	return m.loadCmd()
}

// loadCmd fetches product, history and track state in one go, falling back
// to cached snapshots when the backend is unreachable.
func (m detailModel) loadCmd() tea.Cmd {
	client := m.client
	store := m.store
	id := m.productID
	return func() tea.Msg {
		product, err := client.GetProduct(id)
		if err != nil {
			if p, _, ok := store.LoadProduct(id); ok {
				h, _, _ := store.LoadHistory(id)
				reverseHistory(h)
				return detailLoadedMsg{product: p, history: h, fromCache: true, err: err}
			}
			return detailLoadedMsg{err: err}
		}
		if product == nil {
			return detailLoadedMsg{}
		}
		store.SaveProduct(product)

		history, err := client.GetHistory(id)
		if err != nil {
			return detailLoadedMsg{product: product, err: err}
		}
		store.SaveHistory(id, history)
		// backend sends oldest first; the table wants newest first
		reverseHistory(history)

		msg := detailLoadedMsg{product: product, history: history}
		if track, err := client.IsTracked(id); err == nil {
			msg.track = track
			msg.trackOK = true
		}
		return msg
	}
}

func reverseHistory(h []models.PricePoint) {
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
}

func (m detailModel) maxHistoryPage() int {
	if len(m.history) == 0 {
		return 1
	}
	return (len(m.history) + historyPerPage - 1) / historyPerPage
}

func (m detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UpdateLayout(msg.Width, msg.Height)
		return m, nil

	case detailLoadedMsg:
		m.loaded = true
		if msg.product == nil && msg.err == nil {
			m.notFound = true
			return m, nil
		}
		if msg.product == nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.product = msg.product
		m.history = msg.history
		m.track = msg.track
		m.trackOK = msg.trackOK
		if m.historyPage >= m.maxHistoryPage() {
			m.historyPage = m.maxHistoryPage() - 1
		}
		if msg.fromCache {
			m.SetStatus(WarnStyle.Render("Backend unreachable, showing cached data"), 5*time.Second)
		} else if msg.err != nil {
			m.SetStatus(ErrorStyle.Render("Partial load: "+msg.err.Error()), 5*time.Second)
		}
		return m, nil

	case trackToggledMsg:
		if msg.err != nil {
			// the optimistic flip stays; r re-syncs with the backend
			m.SetStatus(ErrorStyle.Render("Tracking update failed: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		if msg.tracked {
			m.SetStatus(SuccessStyle.Render("Tracking enabled"), 3*time.Second)
		} else {
			m.SetStatus(SuccessStyle.Render("Tracking disabled"), 3*time.Second)
		}
		return m, nil

	case notifySavedMsg:
		if msg.err != nil {
			m.SetStatus(ErrorStyle.Render("Notify price failed: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		m.track.MaxPrice = msg.price
		m.SetStatus(SuccessStyle.Render("Notify price saved"), 3*time.Second)
		return m, nil

	case productDeletedMsg:
		if msg.err != nil {
			m.SetStatus(ErrorStyle.Render("Delete failed: "+msg.err.Error()), 5*time.Second)
			return m, nil
		}
		// product is gone, nothing left to show here
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.viewMode {
		case detailModeNotify:
			return m.handleNotifyKeys(msg)
		case detailModeConfirmDel:
			return m.handleConfirmDeleteKeys(msg)
		}
		return m.handleViewKeys(msg)
	}

	return m, nil
}

func (m detailModel) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Quitting = true
		return m, tea.Quit

	case "esc", "b":
		return m, tea.Quit

	case "r":
		return m, m.loadCmd()

	case "left", "h":
		if m.historyPage > 0 {
			m.historyPage--
		}
		return m, nil

	case "right", "l":
		if m.historyPage < m.maxHistoryPage()-1 {
			m.historyPage++
		}
		return m, nil

	case "t":
		if m.product == nil || !m.trackOK {
			return m, nil
		}
		// flip immediately; a failure only shows a toast, and r re-syncs
		target := !m.track.Tracked
		m.track.Tracked = target
		client := m.client
		id := m.productID
		return m, func() tea.Msg {
			var err error
			if target {
				err = client.AddWatch([]int{id})
			} else {
				err = client.DeleteWatch([]int{id})
			}
			return trackToggledMsg{tracked: target, err: err}
		}

	case "v":
		m.chartMode = !m.chartMode
		return m, nil

	case "d":
		if m.product != nil {
			m.viewMode = detailModeConfirmDel
		}
		return m, nil

	case "m":
		if m.product == nil || !m.trackOK || !m.track.Tracked {
			m.SetStatus(WarnStyle.Render("Enable tracking first"), 3*time.Second)
			return m, nil
		}
		m.viewMode = detailModeNotify
		m.inputErr = ""
		if m.track.MaxPrice > 0 {
			m.input.SetValue(fmt.Sprintf("%.2f", float64(m.track.MaxPrice)/100))
		} else {
			m.input.SetValue("")
		}
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m detailModel) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.viewMode = detailModeView
		client := m.client
		id := m.productID
		return m, func() tea.Msg {
			_, err := client.DeleteProducts([]int{id})
			return productDeletedMsg{err: err}
		}
	case "n", "N", "esc":
		m.viewMode = detailModeView
		return m, nil
	}
	return m, nil
}

func (m detailModel) handleNotifyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = detailModeView
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		price, err := strconv.ParseFloat(value, 64)
		if err != nil || price <= 0 {
			m.inputErr = "enter a positive number"
			return m, nil
		}
		m.viewMode = detailModeView
		m.input.Blur()
		minor := int(price*100 + 0.5)
		client := m.client
		id := m.productID
		return m, func() tea.Msg {
			return notifySavedMsg{price: minor, err: client.SetNotifyPrice(id, minor)}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

func (m detailModel) View() string {
	if m.Quitting {
		return ""
	}
	layout := m.Layout

	if !m.loaded {
		content := ViewHeader("Product", layout.InnerWidth)
		content += RenderDim("Loading...")
		return BuildTwoBoxView(content, "Esc: back | q: quit", layout)
	}

	if m.notFound {
		content := ViewHeader("Product", layout.InnerWidth)
		content += ErrorStyle.Render(fmt.Sprintf("Product %d no longer exists.", m.productID)) + "\n\n"
		content += RenderDim("It may have been deleted or replaced by a newer scrape.")
		return BuildTwoBoxView(content, "Esc: back | q: quit", layout)
	}

	if m.product == nil {
		content := ViewHeader("Product", layout.InnerWidth)
		content += ErrorStyle.Render("Load failed: "+m.loadErr.Error()) + "\n\n"
		content += RenderDim("r retries the request.")
		return BuildTwoBoxView(content, "r: retry | Esc: back | q: quit", layout)
	}

	p := m.product
	content := ViewHeaderWithSubtitle(Truncate(p.Title, layout.InnerWidth), p.Link, layout.InnerWidth)

	content += fmt.Sprintf("%s  %s\n",
		RenderDim("Site:"), RenderNormal(p.SiteName))
	content += fmt.Sprintf("%s  %s\n",
		RenderDim("Price:"), AccentStyle.Render(FormatPrice(p.LastPrice, p.Currency)))
	content += fmt.Sprintf("%s  %s (%s reviews)\n",
		RenderDim("Rating:"), RenderNormal(FormatRating(p.Rating)), FormatCount(p.RatingsCount))
	content += fmt.Sprintf("%s  %s → %s\n",
		RenderDim("Seen:"), FormatDate(p.FirstSeenAt), FormatDate(p.LastSeenAt))
	content += fmt.Sprintf("%s  %s\n",
		RenderDim("Image:"), RenderDim(m.client.ImageURL(p.ID)))

	if m.trackOK {
		if m.track.Tracked {
			line := SuccessStyle.Render("tracked")
			if m.track.MaxPrice > 0 {
				line += RenderDim(fmt.Sprintf("  notify below %.2f", float64(m.track.MaxPrice)/100))
			}
			content += fmt.Sprintf("%s  %s\n", RenderDim("Alerts:"), line)
		} else {
			content += fmt.Sprintf("%s  %s\n", RenderDim("Alerts:"), DimStyle.Render("not tracked"))
		}
	}

	switch m.viewMode {
	case detailModeNotify:
		content += "\n" + RenderNormal("Notify price: ") + m.input.View()
		if m.inputErr != "" {
			content += "  " + ErrorStyle.Render(m.inputErr)
		}
		content += "\n"
	case detailModeConfirmDel:
		content += "\n" + ErrorStyle.Render("Delete this product and its history? (y/n)") + "\n"
	}

	if m.chartMode {
		content += "\n" + RenderTitle("Price Chart") + RenderDim("  (oldest to newest)") + "\n"
		if chart := RenderPriceChart(chronological(m.history), layout.InnerWidth); chart != "" {
			content += chart + "\n"
		} else {
			// an empty chart is a valid view, not an error
			content += RenderDim("Not enough priced captures to chart yet.") + "\n"
		}
	} else {
		content += "\n" + m.renderHistoryTable()
	}

	if m.HasStatus() {
		content += "\n" + m.StatusMsg
	}

	return BuildTwoBoxView(content, m.helpText(), layout)
}

// chronological returns a copy of the newest-first history in oldest-first
// order for the chart.
func chronological(h []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, len(h))
	for i, p := range h {
		out[len(h)-1-i] = p
	}
	return out
}

func (m detailModel) renderHistoryTable() string {
	if len(m.history) == 0 {
		return RenderDim("No price history yet.")
	}

	start := m.historyPage * historyPerPage
	end := start + historyPerPage
	if end > len(m.history) {
		end = len(m.history)
	}

	var b strings.Builder
	b.WriteString(RenderTitle("Price History"))
	b.WriteString(RenderDim(fmt.Sprintf("  (page %d of %d, newest first)", m.historyPage+1, m.maxHistoryPage())))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-22s %-14s %s\n", "Captured", "Price", "Change"))

	for i := start; i < end; i++ {
		pt := m.history[i]
		price := "-"
		if pt.PriceMinor != nil {
			price = fmt.Sprintf("%.2f", float64(*pt.PriceMinor)/100)
		}
		delta := StyleDelta(FormatDelta(m.history, i))
		b.WriteString(fmt.Sprintf("%-22s %-14s %s\n", pt.CapturedAt, price, delta))
	}
	return b.String()
}

func (m detailModel) helpText() string {
	switch m.viewMode {
	case detailModeNotify:
		return "Enter: save | Esc: cancel"
	case detailModeConfirmDel:
		return "y: delete | n: cancel"
	}
	track := "t: track"
	if m.trackOK && m.track.Tracked {
		track = "t: untrack | m: notify price"
	}
	view := "v: chart"
	if m.chartMode {
		view = "v: table"
	}
	return fmt.Sprintf("h/l: history page | %s | %s | d: delete | r: refresh | Esc: back | q: quit", view, track)
}
