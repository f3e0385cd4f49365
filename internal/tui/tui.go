package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/ratscrew/internal/deck"
	"github.com/lox/ratscrew/internal/game"
)

// promptKind says what a pending prompt is asking for
type promptKind int

const (
	promptContinue promptKind = iota
	promptSlap
	promptAnother
)

// answer is what the model sends back for a prompt
type answer struct {
	text string
	quit bool
}

// promptMsg asks the player a question; the answer goes to reply
type promptMsg struct {
	kind   promptKind
	text   string
	reply  chan answer
	player string
}

// clearPromptMsg withdraws a prompt that timed out or was cancelled
type clearPromptMsg struct {
	reply chan answer
	note  string
}

// eventMsg carries a round event and its formatted line
type eventMsg struct {
	event game.GameEvent
	line  string
}

// logMsg appends a free-form line to the game log
type logMsg struct {
	line string
}

// sessionDoneMsg is sent once the session stops dealing rounds
type sessionDoneMsg struct {
	err error
}

// SeatInfo holds one player's sidebar row
type SeatInfo struct {
	Name     string
	Cards    int
	Slaps    int
	PileWins int
}

// Model represents the Bubble Tea model for the game
type Model struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog     []string
	seats       []SeatInfo
	pileSize    int
	topCards    []deck.Card
	roundID     string
	pending     *promptMsg
	sessionDone bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input
	onQuit      func()

	// Dimensions
	width       int
	height      int
	initialized bool
}

// NewModel creates a new TUI model
func NewModel(logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Waiting..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		focusedPane: 1,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case eventMsg:
		m.applyEvent(msg.event)
		if msg.line != "" {
			m.AddLogEntry(msg.line)
		}

	case logMsg:
		m.AddLogEntry(msg.line)

	case promptMsg:
		m.pending = &msg
		m.input.SetValue("")
		m.input.Placeholder = placeholder(msg.kind)
		m.focusedPane = 1
		m.input.Focus()

	case clearPromptMsg:
		if m.pending != nil && m.pending.reply == msg.reply {
			m.pending = nil
			m.input.SetValue("")
			m.input.Placeholder = "Waiting..."
			if msg.note != "" {
				m.AddLogEntry(WarningStyle.Render(msg.note))
			}
		}

	case sessionDoneMsg:
		m.sessionDone = true
		m.pending = nil
		if msg.err != nil {
			m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("Session ended: %v", msg.err)))
		}
		m.AddLogEntry(InfoStyle.Render("Press Enter to exit."))
		m.input.Placeholder = "Enter to exit"

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				if m.sessionDone {
					return m, m.quit()
				}
				m.submit(m.input.Value())
				m.input.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.pending != nil {
		m.pending.reply <- answer{quit: true}
		m.pending = nil
	}
	if m.onQuit != nil {
		m.onQuit()
	}
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// submit answers the pending prompt. Input with nothing pending is dropped.
func (m *Model) submit(input string) {
	if m.pending == nil {
		m.logger.Debug("Dropping input with no prompt pending", "input", input)
		return
	}
	if m.pending.kind == promptSlap && game.IsSlapAnswer(input) {
		m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("%s: SLAP!", m.pending.player)))
	}
	m.pending.reply <- answer{text: input}
	m.pending = nil
	m.input.Placeholder = "Waiting..."
}

func placeholder(kind promptKind) string {
	switch kind {
	case promptSlap:
		return "type 'slap' to take the pile, Enter to skip"
	case promptAnother:
		return "Enter for another round, 'n' to stop"
	default:
		return "Enter to play your next card"
	}
}

// applyEvent keeps the sidebar in step with the engine
func (m *Model) applyEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		m.roundID = e.RoundID
		m.pileSize = 0
		m.topCards = nil
		m.seats = make([]SeatInfo, len(e.Seats))
		for i, s := range e.Seats {
			m.seats[i] = SeatInfo{Name: s.Name, Cards: s.Cards}
		}
	case game.CardPlayedEvent:
		if e.Seat >= 0 && e.Seat < len(m.seats) {
			m.seats[e.Seat].Cards--
		}
		m.pileSize = e.PileSize
		m.topCards = append(m.topCards, e.Card)
		if len(m.topCards) > 3 {
			m.topCards = m.topCards[len(m.topCards)-3:]
		}
	case game.PileClaimedEvent:
		if e.Seat >= 0 && e.Seat < len(m.seats) {
			m.seats[e.Seat].Cards += e.PileSize
			switch e.Reason {
			case game.ClaimSlap:
				m.seats[e.Seat].Slaps++
				m.seats[e.Seat].PileWins++
			case game.ClaimChallenge:
				m.seats[e.Seat].PileWins++
			}
		}
		m.pileSize = 0
		m.topCards = nil
	case game.RoundEndEvent:
		for i, hs := range e.HandSizes {
			if i < len(m.seats) {
				m.seats[i].Cards = hs.Cards
			}
		}
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionWidth := max(m.width-2, 1)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(actionWidth).
		Height(max(actionHeight-2, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right of the log, same height)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top left)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane creates the sidebar content
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Pile: %d", m.pileSize)))
	if len(m.topCards) > 0 {
		content.WriteString("  ")
		content.WriteString(formatCards(m.topCards))
	}
	content.WriteString("\n\n")

	if len(m.seats) > 0 {
		content.WriteString(InfoStyle.Render("Players:"))
		content.WriteString("\n")
		for _, s := range m.seats {
			content.WriteString(fmt.Sprintf("  %s: %d cards\n", s.Name, s.Cards))
			content.WriteString(InfoStyle.Render(fmt.Sprintf("    %d slaps, %d piles", s.Slaps, s.PileWins)))
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane renders the prompt and input
func (m *Model) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.pending != nil:
		content.WriteString(PromptStyle.Render(m.pending.text))
	case m.sessionDone:
		content.WriteString(InfoStyle.Render("Session over"))
	default:
		content.WriteString(InfoStyle.Render("Waiting..."))
	}
	content.WriteString("\n")

	content.WriteString(m.input.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

func formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, styleCard(card, card.String()))
	}
	return strings.Join(formatted, " ")
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, strings.Split(strings.TrimRight(entry, "\n"), "\n")...)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// Seats returns the sidebar rows
func (m *Model) Seats() []SeatInfo {
	out := make([]SeatInfo, len(m.seats))
	copy(out, m.seats)
	return out
}
