package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SplashModel is the TUI model for the splash screen
type SplashModel struct {
	width  int
	height int
	done   bool
}

type splashTimeoutMsg struct{}

func waitForTimeout() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Init() tea.Cmd {
	return waitForTimeout()
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.WindowSizeMsg:
		size := msg.(tea.WindowSizeMsg)
		m.width = size.Width
		m.height = size.Height
		return m, nil
	case tea.KeyMsg:
		m.done = true
		return m, tea.Quit
	case splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width, m.height)

	title := "pricetrack"
	subtitle := "product price tracker"

	height := layout.ViewportHeight - 4
	if height < 10 {
		height = 10
	}
	textLine := height / 2

	var b strings.Builder
	for i := 0; i < height; i++ {
		switch i {
		case textLine:
			b.WriteString(CenterText(AccentStyle.Render(title), layout.InnerWidth))
		case textLine + 1:
			b.WriteString(CenterText(RenderDim(subtitle), layout.InnerWidth))
		}
		b.WriteString("\n")
	}

	return BorderStyle.
		Width(layout.InnerWidth).
		Render(b.String())
}

// ShowSplash displays the splash screen briefly
func ShowSplash() {
	model := SplashModel{
		width:  DefaultWidth,
		height: 30,
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	p.Run()

	fmt.Print("\033[2J\033[H")
}
