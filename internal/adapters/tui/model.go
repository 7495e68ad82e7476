// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// tickInterval is how often the view polls the engine.
const tickInterval = 250 * time.Millisecond

// bannerTicks is how many ticks a completion banner stays visible.
const bannerTicks = 20

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// statusMsg carries a freshly fetched engine status.
type statusMsg domain.EngineStatus

// sessionFinishedMsg is sent when the engine finishes a session.
type sessionFinishedMsg struct {
	finished domain.Session
	next     domain.TimerSnapshot
}

// goalReachedMsg is sent when the daily goal is reached.
type goalReachedMsg struct {
	snap domain.TimerSnapshot
}

// Model represents the TUI state.
type Model struct {
	ctx        context.Context
	controller ports.SessionController
	status     domain.EngineStatus
	theme      config.ThemeConfig
	styles     styles
	width      int
	height     int
	compact    bool

	banner      string
	bannerTicks int
	notice      string
}

// NewModel creates a new TUI model. A compact model renders a single line
// and is meant for inline (non alt-screen) use.
func NewModel(ctx context.Context, controller ports.SessionController, theme *config.ThemeConfig, compact bool) Model {
	resolved := resolveTheme(theme)
	m := Model{
		ctx:        ctx,
		controller: controller,
		theme:      resolved,
		styles:     newStyles(resolved),
		compact:    compact,
	}
	m.status = controller.Status(ctx)
	if compact {
		m.width = getTerminalWidth()
	}
	return m
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// fetchStatusCmd polls the engine. Polling also finishes a session whose
// countdown has run out.
func fetchStatusCmd(ctx context.Context, c ports.SessionController) tea.Cmd {
	return func() tea.Msg {
		return statusMsg(c.Status(ctx))
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.bannerTicks > 0 {
			m.bannerTicks--
			if m.bannerTicks == 0 {
				m.banner = ""
			}
		}
		return m, tea.Batch(tickCmd(), fetchStatusCmd(m.ctx, m.controller))

	case statusMsg:
		m.status = domain.EngineStatus(msg)

	case sessionFinishedMsg:
		if msg.finished.IsFocus() {
			m.banner = fmt.Sprintf("Session complete! Next up: %s",
				domain.GetSessionTypeLabel(msg.next.CurrentSession.Type))
		} else {
			m.banner = "Break over! Ready to focus?"
		}
		m.bannerTicks = bannerTicks

	case goalReachedMsg:
		m.banner = fmt.Sprintf("Daily goal of %d sessions reached!", msg.snap.DailyGoal)
		m.bannerTicks = bannerTicks * 2
	}
	return m, nil
}

// handleKey maps key presses onto engine commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd ports.TimerCommand
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s", "enter":
		cmd = ports.CmdStart
	case "p", " ":
		if m.status.Status == domain.SessionStatusPaused {
			cmd = ports.CmdResume
		} else {
			cmd = ports.CmdPause
		}
	case "x":
		cmd = ports.CmdStop
	case "n", "tab":
		cmd = ports.CmdSkip
	case "+", "=":
		cmd = ports.CmdAddMinute
	default:
		return m, nil
	}

	applied, err := m.controller.Execute(m.ctx, cmd)
	switch {
	case err != nil:
		m.notice = err.Error()
	case !applied:
		m.notice = fmt.Sprintf("can't %s while %s", strings.ReplaceAll(string(cmd), "_", " "),
			strings.ToLower(domain.GetStatusLabel(m.status.Status)))
	default:
		m.notice = ""
	}
	m.status = m.controller.Status(m.ctx)
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.compact {
		return m.viewCompact()
	}

	st := m.status
	accent := m.styles.accent(st.CurrentSession.Type)

	var sections []string
	sections = append(sections, accent.MarginBottom(1).Render("🍅 pomo"))
	sections = append(sections, m.styles.paused.Render(fmt.Sprintf("%s · %s · %d min",
		domain.GetSessionTypeLabel(st.CurrentSession.Type),
		domain.GetStatusLabel(st.Status),
		st.CurrentSession.Duration)))

	sections = append(sections, "")
	sections = append(sections, renderBigTime(domain.FormatRemaining(st.Remaining), timerColor(m.theme, st), m.width))

	if st.Status == domain.SessionStatusPaused {
		sections = append(sections, "", m.styles.badge.Render("⏸ PAUSED"))
	}

	sections = append(sections, "")
	bar := progressBar(m.theme, st, m.width-8)
	sections = append(sections, bar.ViewAs(st.AnimatedProgress))

	sections = append(sections, "")
	sections = append(sections, m.styles.help.Render(fmt.Sprintf("Today %s %d/%d",
		goalDots(st.CurrentSessionIdx, st.DailyGoal), st.CurrentSessionIdx, st.DailyGoal)))
	if st.GoalReached {
		sections = append(sections, m.styles.brk.Render("🎯 Daily goal reached"))
	}

	if m.banner != "" {
		sections = append(sections, "", accent.Render(m.banner))
	}
	if m.notice != "" {
		sections = append(sections, "", m.styles.paused.Render(m.notice))
	}

	sections = append(sections, "", m.styles.help.Render(helpLine(st.Status)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewCompact() string {
	st := m.status
	accent := m.styles.accent(st.CurrentSession.Type)

	head := accent.Render(fmt.Sprintf("🍅 %s %s", domain.GetSessionTypeLabel(st.CurrentSession.Type),
		domain.FormatRemaining(st.Remaining)))
	tail := m.styles.help.Render(fmt.Sprintf(" %d/%d", st.CurrentSessionIdx, st.DailyGoal))
	barWidth := m.width - lipgloss.Width(head) - lipgloss.Width(tail) - 4
	bar := progressBar(m.theme, st, barWidth)

	line := head + "  " + bar.ViewAs(st.AnimatedProgress) + tail
	if st.Status == domain.SessionStatusPaused {
		line += " " + m.styles.paused.Render("(paused)")
	}

	footer := helpLine(st.Status)
	if m.banner != "" {
		footer = m.banner
	} else if m.notice != "" {
		footer = m.notice
	}
	return line + "\n" + m.styles.help.Render(footer)
}

// helpLine lists the keys that do something in the given status.
func helpLine(s domain.SessionStatus) string {
	switch s {
	case domain.SessionStatusRunning:
		return "[p]ause  [+] minute  [x] stop  [q]uit"
	case domain.SessionStatusPaused:
		return "[p] resume  [+] minute  [x] stop  [q]uit"
	default:
		return "[s]tart  [n]ext type  [q]uit"
	}
}

// goalDots renders daily progress as filled and empty circles.
func goalDots(done, goal int) string {
	if goal <= 0 {
		return ""
	}
	if done > goal {
		done = goal
	}
	return strings.Repeat("●", done) + strings.Repeat("○", goal-done)
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
