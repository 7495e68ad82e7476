package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// fakeController is a minimal state machine standing in for the engine.
type fakeController struct {
	status   domain.EngineStatus
	executed []ports.TimerCommand
}

func newFakeController() *fakeController {
	return &fakeController{status: domain.EngineStatus{
		TimerSnapshot: domain.TimerSnapshot{
			CurrentSession: domain.Session{Type: domain.SessionTypeSession, Duration: 25},
			Status:         domain.SessionStatusUnstarted,
			DailyGoal:      8,
		},
		Remaining: 25 * time.Minute,
	}}
}

func (f *fakeController) Execute(_ context.Context, cmd ports.TimerCommand) (bool, error) {
	f.executed = append(f.executed, cmd)
	switch cmd {
	case ports.CmdStart:
		if f.status.Status != domain.SessionStatusUnstarted {
			return false, nil
		}
		f.status.Status = domain.SessionStatusRunning
	case ports.CmdPause:
		if f.status.Status != domain.SessionStatusRunning {
			return false, nil
		}
		f.status.Status = domain.SessionStatusPaused
	case ports.CmdResume:
		if f.status.Status != domain.SessionStatusPaused {
			return false, nil
		}
		f.status.Status = domain.SessionStatusRunning
	case ports.CmdStop:
		f.status.Status = domain.SessionStatusUnstarted
	}
	return true, nil
}

func (f *fakeController) Status(context.Context) domain.EngineStatus { return f.status }

func (f *fakeController) OnSessionFinished(func(domain.Session, domain.TimerSnapshot)) {}

func (f *fakeController) OnDailyGoalReached(func(domain.TimerSnapshot)) {}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_KeyFlow(t *testing.T) {
	ctrl := newFakeController()
	m := sized(NewModel(context.Background(), ctrl, nil, false))

	m = press(m, "s")
	if m.status.Status != domain.SessionStatusRunning {
		t.Fatalf("after s: status = %s, want running", m.status.Status)
	}
	m = press(m, "p")
	if m.status.Status != domain.SessionStatusPaused {
		t.Fatalf("after p: status = %s, want paused", m.status.Status)
	}
	m = press(m, "p")
	if m.status.Status != domain.SessionStatusRunning {
		t.Fatalf("second p: status = %s, want running", m.status.Status)
	}
	m = press(m, "+")
	m = press(m, "x")

	want := []ports.TimerCommand{ports.CmdStart, ports.CmdPause, ports.CmdResume, ports.CmdAddMinute, ports.CmdStop}
	if len(ctrl.executed) != len(want) {
		t.Fatalf("executed = %v, want %v", ctrl.executed, want)
	}
	for i := range want {
		if ctrl.executed[i] != want[i] {
			t.Errorf("executed[%d] = %s, want %s", i, ctrl.executed[i], want[i])
		}
	}
}

func TestModel_KeyBindings(t *testing.T) {
	tests := []struct {
		key  string
		want ports.TimerCommand
	}{
		{"s", ports.CmdStart},
		{"enter", ports.CmdStart},
		{"n", ports.CmdSkip},
		{"tab", ports.CmdSkip},
		{"+", ports.CmdAddMinute},
		{"=", ports.CmdAddMinute},
		{"x", ports.CmdStop},
		{"p", ports.CmdPause},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ctrl := newFakeController()
			press(NewModel(context.Background(), ctrl, nil, false), tt.key)
			if len(ctrl.executed) != 1 || ctrl.executed[0] != tt.want {
				t.Errorf("executed = %v, want [%s]", ctrl.executed, tt.want)
			}
		})
	}
}

func TestModel_RejectedCommandShowsNotice(t *testing.T) {
	ctrl := newFakeController()
	m := press(sized(NewModel(context.Background(), ctrl, nil, false)), "p")

	if m.notice == "" {
		t.Fatal("pausing an unstarted session should leave a notice")
	}
	if !strings.Contains(m.View(), "can't pause while ready") {
		t.Errorf("view does not show notice:\n%s", m.View())
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	}
	for _, key := range tests {
		t.Run(key.String(), func(t *testing.T) {
			m := NewModel(context.Background(), newFakeController(), nil, false)
			_, cmd := m.Update(key)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("key did not quit")
			}
		})
	}
}

func TestModel_TickFetchesStatus(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(context.Background(), ctrl, nil, false)
	ctrl.status.Remaining = 10 * time.Minute

	next, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule work")
	}
	next, _ = next.Update(statusMsg(ctrl.status))
	if got := next.(Model).status.Remaining; got != 10*time.Minute {
		t.Errorf("remaining = %v, want 10m", got)
	}
}

func TestModel_Banners(t *testing.T) {
	m := sized(NewModel(context.Background(), newFakeController(), nil, false))

	next, _ := m.Update(sessionFinishedMsg{
		finished: domain.Session{Type: domain.SessionTypeSession},
		next:     domain.TimerSnapshot{CurrentSession: domain.Session{Type: domain.SessionTypeLongBreak}},
	})
	m = next.(Model)
	if !strings.Contains(m.View(), "Next up: Long Break") {
		t.Error("finished focus session should announce the long break")
	}

	next, _ = m.Update(goalReachedMsg{snap: domain.TimerSnapshot{DailyGoal: 8}})
	m = next.(Model)
	if !strings.Contains(m.banner, "8 sessions") {
		t.Errorf("banner = %q", m.banner)
	}

	for i := 0; i < bannerTicks*2; i++ {
		next, _ = m.Update(tickMsg(time.Now()))
		m = next.(Model)
	}
	if m.banner != "" {
		t.Errorf("banner should expire, got %q", m.banner)
	}
}

func TestModel_View(t *testing.T) {
	ctrl := newFakeController()
	ctrl.status.Status = domain.SessionStatusPaused
	ctrl.status.CurrentSessionIdx = 3
	m := sized(NewModel(context.Background(), ctrl, nil, false))

	view := m.View()
	for _, want := range []string{"PAUSED", "3/8", "[p] resume"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewLoading(t *testing.T) {
	m := NewModel(context.Background(), newFakeController(), nil, false)
	if m.View() != "Loading..." {
		t.Error("unsized model should show loading")
	}
}

func TestModel_ViewCompact(t *testing.T) {
	m := NewModel(context.Background(), newFakeController(), nil, true)
	view := m.View()
	if strings.Count(view, "\n") != 1 {
		t.Errorf("compact view should be two lines, got:\n%s", view)
	}
	if !strings.Contains(view, "25:00") {
		t.Errorf("compact view missing remaining time:\n%s", view)
	}
}

func TestRenderBigTime(t *testing.T) {
	color := lipgloss.Color("#FFFFFF")

	if got := renderBigTime("12:34", color, 20); strings.Contains(got, "\n") {
		t.Error("narrow terminals should get a single line")
	}
	if got := renderBigTime("12:34", color, 80); strings.Count(got, "\n") != glyphHeight-1 {
		t.Errorf("wide terminals should get %d rows", glyphHeight)
	}
	if got := renderBigTime("1?:00", color, 80); strings.Contains(got, "\n") {
		t.Error("unknown glyphs should fall back to plain text")
	}
}

func TestGoalDots(t *testing.T) {
	tests := []struct {
		done, goal int
		want       string
	}{
		{0, 3, "○○○"},
		{2, 3, "●●○"},
		{5, 3, "●●●"},
		{1, 0, ""},
	}
	for _, tt := range tests {
		if got := goalDots(tt.done, tt.goal); got != tt.want {
			t.Errorf("goalDots(%d, %d) = %q, want %q", tt.done, tt.goal, got, tt.want)
		}
	}
}

func TestResolveTheme(t *testing.T) {
	got := resolveTheme(&config.ThemeConfig{ColorWork: "#000000"})
	if got.ColorWork != "#000000" {
		t.Errorf("ColorWork = %s, want override", got.ColorWork)
	}
	if got.ColorBreak != config.DefaultThemeConfig().ColorBreak {
		t.Errorf("ColorBreak = %s, want default", got.ColorBreak)
	}
}
