package tui

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
)

// dealerStepMsg asks the model to pull the next dealer step
type dealerStepMsg struct{}

// Model is the Bubble Tea model for a single-player blackjack table
type Model struct {
	session   *game.Session
	delays    pacing.Delays
	formatter *game.EventFormatter
	logger    *log.Logger

	// UI components
	logViewport viewport.Model

	// State
	gameLog  []string
	view     game.View
	status   string // Last rejected command
	quitting bool

	// Dealer play in progress; nil between dealer turns
	nextStep  func() (game.Step, bool)
	stopSteps func()

	// Dimensions
	width  int
	height int
}

// NewModel creates a model driving session. The model subscribes to the
// session's events to fill the log pane.
func NewModel(session *game.Session, delays pacing.Delays, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &Model{
		session:     session,
		delays:      delays,
		formatter:   game.NewEventFormatter(game.FormattingOptions{CardStyle: styleCard}),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		view:        session.View(),
	}
	session.Events().Subscribe(m)
	return m
}

// Run starts the program in the alternate screen and blocks until the user
// quits or ctx is cancelled
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	m.stopDealer()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// OnEvent appends session events to the log pane
func (m *Model) OnEvent(event game.GameEvent) {
	if entry := m.formatEvent(event); entry != "" {
		m.AddLogEntry(entry)
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case dealerStepMsg:
		return m, m.advanceDealer()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		m.stopDealer()
		return tea.Quit
	case "pgup", "b":
		m.logViewport.HalfPageUp()
		return nil
	case "pgdown", "f":
		m.logViewport.HalfPageDown()
		return nil
	case "home", "g":
		m.logViewport.GotoTop()
		return nil
	case "end", "G":
		m.logViewport.GotoBottom()
		return nil
	}

	// The table is locked while the dealer plays
	if m.DealerPlaying() {
		return nil
	}

	m.status = ""
	var err error
	switch key {
	case "up", "+", "=":
		_, err = m.session.PlaceBet(m.session.Rules().BetStep)
	case "down", "-":
		_, err = m.session.PlaceBet(-m.session.Rules().BetStep)
	case "d":
		_, err = m.session.Deal()
	case "h":
		_, err = m.session.Hit()
	case "s":
		_, err = m.session.Stand()
	case "n":
		if !m.session.Over() {
			m.status = "The game is not over yet"
			return nil
		}
		m.session.Reset(m.session.Rules().StartingBankroll)
		m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("New game with $%d", m.session.Bankroll())))
	default:
		return nil
	}

	if err != nil {
		m.logger.Debug("Command rejected", "key", key, "error", err)
		m.status = err.Error()
	}
	m.refresh()

	if m.session.Phase() == game.DealerTurn {
		return m.startDealer()
	}
	return nil
}

// startDealer begins pulling dealer steps. The first step is applied
// immediately; each later one waits for the delay of the step before it.
func (m *Model) startDealer() tea.Cmd {
	m.nextStep, m.stopSteps = iter.Pull(m.session.DealerTurn())
	return m.advanceDealer()
}

func (m *Model) advanceDealer() tea.Cmd {
	if m.nextStep == nil {
		return nil
	}
	step, ok := m.nextStep()
	m.refresh()
	if !ok {
		m.stopDealer()
		return nil
	}
	m.logger.Debug("Dealer step", "kind", step.Kind, "value", step.DealerValue)
	return stepAfter(m.delays.For(step.Kind))
}

func (m *Model) stopDealer() {
	if m.stopSteps != nil {
		m.stopSteps()
	}
	m.nextStep = nil
	m.stopSteps = nil
}

// DealerPlaying reports whether dealer steps are still being paced
func (m *Model) DealerPlaying() bool {
	return m.nextStep != nil
}

func stepAfter(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return dealerStepMsg{} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return dealerStepMsg{} })
}

func (m *Model) refresh() {
	m.view = m.session.View()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	tableContent := m.renderTable()
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1))
	tablePane := tableStyle.Render(tableContent)

	logWidth := max(m.width-2, 1)
	logHeight := max(m.height-lipgloss.Height(tablePane)-2, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	logPane := logStyle.Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Top, tablePane, logPane)
}

func (m *Model) renderTable() string {
	v := m.view
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Blackjack  Round %d ", v.Round)))
	content.WriteString("\n\n")

	if v.Round > 0 {
		content.WriteString(fmt.Sprintf("Dealer: %s  %s\n", formatCards(v.DealerCards, v.DealerHidden), v.DealerScore()))
		content.WriteString(fmt.Sprintf("You:    %s  %d\n\n", formatCards(v.PlayerCards, 0), v.PlayerValue))
	}

	content.WriteString(BankrollStyle.Render(fmt.Sprintf("Bankroll: $%d", v.Bankroll)))
	content.WriteString("  ")
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", v.Bet)))
	content.WriteString("\n")

	content.WriteString(messageStyle(v).Render(v.Message))
	content.WriteString("\n")
	if m.status != "" {
		content.WriteString(ErrorStyle.Render(m.status))
		content.WriteString("\n")
	}

	content.WriteString(ActionsStyle.Render(m.help()))
	return content.String()
}

func messageStyle(v game.View) lipgloss.Style {
	switch {
	case v.Phase != game.Settled:
		return HandInfoStyle
	case v.Outcome.IsWin():
		return SuccessStyle
	case v.Outcome.IsLoss():
		return ErrorStyle
	default:
		return WarningStyle
	}
}

func (m *Model) help() string {
	switch {
	case m.view.Over:
		return "n new game • q quit"
	case m.DealerPlaying() || m.view.Phase == game.DealerTurn:
		return "Dealer is playing... • q quit"
	case m.view.Phase == game.PlayerTurn:
		return "h hit • s stand • q quit"
	default:
		return "↑/+ raise bet • ↓/- lower bet • d deal • q quit"
	}
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the log entries
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// State returns the last rendered session view
func (m *Model) State() game.View {
	return m.view
}

// formatEvent renders a session event as one log line
func (m *Model) formatEvent(event game.GameEvent) string {
	text := m.formatter.Format(event)
	switch e := event.(type) {
	case game.RoundStartEvent:
		return HeaderStyle.Render(" " + text + " ")
	case game.RoundSettledEvent:
		switch {
		case e.Record.Outcome.IsWin():
			return SuccessStyle.Render(text)
		case e.Record.Outcome.IsLoss():
			return ErrorStyle.Render(text)
		default:
			return WarningStyle.Render(text)
		}
	case game.SessionOverEvent:
		return ErrorStyle.Render(text + ". Press n for a new game.")
	default:
		return text
	}
}
