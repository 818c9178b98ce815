// Package tui is the interactive terminal interface for ChatList: type a
// prompt, watch it fan out to every active endpoint, compare the response
// cards, and star favorites.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatlist/chatlist/internal/runner"
	"github.com/chatlist/chatlist/internal/store"
)

// ─────────────────────────────────────────────────────
// Styles
// ─────────────────────────────────────────────────────

var (
	primaryColor = lipgloss.Color("#7C3AED") // violet
	accentColor  = lipgloss.Color("#06B6D4") // cyan
	mutedColor   = lipgloss.Color("#6B7280") // gray
	okColor      = lipgloss.Color("#10B981") // green
	errColor     = lipgloss.Color("#EF4444") // red
	starColor    = lipgloss.Color("#F59E0B") // amber

	sidebarStyle = lipgloss.NewStyle().
			Width(30).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 1)

	sidebarTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	endpointOn  = lipgloss.NewStyle().Foreground(okColor)
	endpointOff = lipgloss.NewStyle().Foreground(mutedColor)

	cardsBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	cardTitle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	cardOK    = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	cardErr   = lipgloss.NewStyle().Foreground(errColor).Bold(true)
	cardStar  = lipgloss.NewStyle().Foreground(starColor).Bold(true)
	cardBody  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	promptHdr = lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().Foreground(mutedColor)
	mutedText   = lipgloss.NewStyle().Foreground(mutedColor)
)

// ─────────────────────────────────────────────────────
// Bubble Tea messages
// ─────────────────────────────────────────────────────

type runDoneMsg struct {
	run *runner.Run
	err error
}

type endpointsMsg struct {
	endpoints []store.Endpoint
}

// ─────────────────────────────────────────────────────
// Model
// ─────────────────────────────────────────────────────

// Model is the Bubble Tea model for the ChatList terminal UI.
type Model struct {
	store  *store.Store
	runner *runner.Runner
	logger *slog.Logger

	input     textarea.Model
	cards     viewport.Model
	endpoints []store.Endpoint

	prompt     string      // last submitted prompt text
	run        *runner.Run // last completed run
	runErr     error       // local failure of the last run
	running    bool
	focusCards bool // Tab switches focus between input and cards

	width  int
	height int
	ready  bool
}

// New creates the TUI model.
func New(st *store.Store, rn *runner.Runner, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textarea.New()
	ti.Placeholder = "Type a prompt and press Enter to fan it out..."
	ti.Focus()
	ti.CharLimit = 8192
	ti.SetHeight(3)
	ti.ShowLineNumbers = false
	ti.KeyMap.InsertNewline.SetEnabled(false) // Enter sends

	return Model{
		store:  st,
		runner: rn,
		logger: logger.With("component", "tui"),
		input:  ti,
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(st *store.Store, rn *runner.Runner, logger *slog.Logger) error {
	p := tea.NewProgram(New(st, rn, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadEndpoints())
}

func (m Model) loadEndpoints() tea.Cmd {
	return func() tea.Msg {
		endpoints, err := m.store.ListEndpoints(false)
		if err != nil {
			m.logger.Error("load endpoints", "error", err)
		}
		return endpointsMsg{endpoints: endpoints}
	}
}

func (m Model) startRun(prompt string) tea.Cmd {
	return func() tea.Msg {
		run, err := m.runner.Run(context.Background(), prompt, "user")
		return runDoneMsg{run: run, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.focusCards = !m.focusCards
			if m.focusCards {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil

		case "enter":
			if m.focusCards {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.running {
				return m, nil
			}
			m.prompt = text
			m.run = nil
			m.runErr = nil
			m.running = true
			m.input.Reset()
			m.refreshCards()
			return m, m.startRun(text)

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			// Digits toggle favorites only when the card pane has focus;
			// otherwise they are ordinary prompt input.
			if m.focusCards {
				m.toggleFavorite(int(msg.String()[0] - '1'))
				m.refreshCards()
				return m, nil
			}
		}

	case runDoneMsg:
		m.running = false
		m.run = msg.run
		m.runErr = msg.err
		m.refreshCards()
		m.cards.GotoTop()
		return m, m.loadEndpoints()

	case endpointsMsg:
		m.endpoints = msg.endpoints

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		cardsW := m.width - 35 // sidebar + borders/gap
		cardsH := m.height - 9 // header + input + footer

		if !m.ready {
			m.cards = viewport.New(cardsW, cardsH)
			m.ready = true
		} else {
			m.cards.Width = cardsW
			m.cards.Height = cardsH
		}
		m.input.SetWidth(cardsW - 2)
		m.refreshCards()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.cards, cmd = m.cards.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// toggleFavorite flips the favorite flag on the idx-th item of the last
// run. Failed items cannot be favorited (nothing was persisted).
func (m *Model) toggleFavorite(idx int) {
	if m.run == nil || idx < 0 || idx >= len(m.run.Items) {
		return
	}
	item := m.run.Items[idx]
	if item.ResultID == 0 {
		return
	}

	fav := !m.isFavorite(item.ResultID)
	if _, err := m.store.SetFavorite(item.ResultID, fav); err != nil {
		m.logger.Error("toggle favorite", "result_id", item.ResultID, "error", err)
	}
}

// isFavorite reads the current flag straight from the store so the card
// view never drifts from the database.
func (m *Model) isFavorite(resultID int64) bool {
	favs, err := m.store.Favorites()
	if err != nil {
		return false
	}
	for _, f := range favs {
		if f.ID == resultID {
			return true
		}
	}
	return false
}

func (m *Model) refreshCards() {
	if m.ready {
		m.cards.SetContent(m.renderCards())
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing ChatList..."
	}

	header := headerStyle.Width(m.width).Render("  ChatList — prompt fan-out  ")

	sidebar := m.renderSidebar()
	cardsArea := cardsBorder.Width(m.width - 35).Render(m.cards.View())
	inputArea := m.input.View()
	rightPane := lipgloss.JoinVertical(lipgloss.Left, cardsArea, inputArea)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", rightPane)

	footer := footerStyle.Render(
		"  Enter: send │ Tab: focus cards │ 1-9: toggle favorite │ ↑↓: scroll │ Esc: quit",
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// ─────────────────────────────────────────────────────
// Rendering
// ─────────────────────────────────────────────────────

func (m Model) renderSidebar() string {
	var sb strings.Builder

	sb.WriteString(sidebarTitle.Render("  Endpoints"))
	sb.WriteString("\n")

	if len(m.endpoints) == 0 {
		sb.WriteString(endpointOff.Render("  none configured"))
		sb.WriteString("\n")
	}

	active := 0
	for _, e := range m.endpoints {
		indicator := endpointOff.Render("○")
		if e.Active {
			indicator = endpointOn.Render("●")
			active++
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", indicator, e.Name))
	}

	sb.WriteString("\n")
	sb.WriteString(sidebarTitle.Render("  Status"))
	sb.WriteString("\n")
	sb.WriteString(mutedText.Render(fmt.Sprintf("  active: %d/%d", active, len(m.endpoints))))
	sb.WriteString("\n")
	if m.running {
		sb.WriteString(mutedText.Render("  sending..."))
		sb.WriteString("\n")
	} else if m.run != nil {
		sb.WriteString(mutedText.Render(fmt.Sprintf("  last run: %dms", m.run.Elapsed.Milliseconds())))
		sb.WriteString("\n")
	}

	return sidebarStyle.Height(m.height - 4).Render(sb.String())
}

func (m Model) renderCards() string {
	if m.prompt == "" {
		return mutedText.Padding(1).Render("No run yet. Type a prompt below and press Enter.")
	}

	var sb strings.Builder
	sb.WriteString(promptHdr.Render("> " + m.prompt))
	sb.WriteString("\n\n")

	if m.running {
		sb.WriteString(mutedText.Render("Waiting for responses..."))
		return sb.String()
	}
	if m.runErr != nil {
		sb.WriteString(cardErr.Render("run failed: " + m.runErr.Error()))
		return sb.String()
	}
	if m.run == nil {
		return sb.String()
	}

	for i, item := range m.run.Items {
		title := cardTitle.Render(fmt.Sprintf("[%d] %s", i+1, item.Endpoint.Name))

		var status string
		if item.Outcome.Success {
			status = cardOK.Render("OK")
			if item.Outcome.TokensUsed > 0 {
				status += mutedText.Render(fmt.Sprintf(" · %d tokens", item.Outcome.TokensUsed))
			}
			if m.isFavorite(item.ResultID) {
				status += " " + cardStar.Render("★")
			}
		} else {
			status = cardErr.Render("ERROR")
		}

		sb.WriteString(fmt.Sprintf("%s  %s\n", title, status))
		if item.Outcome.Success {
			sb.WriteString(cardBody.Render(item.Outcome.Content))
		} else {
			sb.WriteString(cardErr.Render(item.Outcome.Err))
		}
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// FormatElapsed renders a duration the way the sidebar shows it; exposed
// for the CLI's summary line as well.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
