// Package tui is the interactive terminal dashboard: today's habits with
// one-key check-ins, and the check-in heatmap.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/analytics"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/service"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateHeatmap
	StateAddHabit
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

// HeatmapDays is the span of the heatmap tab, 26 full weeks.
const HeatmapDays = 182

type Model struct {
	ctx               context.Context
	svc               *service.Service
	state             SessionState
	keys              KeyMap
	help              help.Model
	habitsModel       habits.Model
	heatmapDays       []analytics.Day
	form              *huh.Form
	habitForm         *service.HabitInput
	habitToDeleteID   string
	habitToDeleteName string
	status            string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(ctx context.Context, svc *service.Service) Model {
	m := Model{
		ctx:         ctx,
		svc:         svc,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, nil, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads habits, today's check-ins, the heatmap and the integrity
// warning. Failures are shown in the status line.
func (m *Model) refresh() {
	views, err := m.svc.ListHabits(m.ctx)
	if err != nil {
		m.setError("load habits", err)
		return
	}

	today := utils.FormatDate(m.svc.Today())
	checkIns, err := m.svc.ListCheckIns(m.ctx, models.CheckInFilter{From: today, To: today})
	if err != nil {
		m.setError("load check-ins", err)
		return
	}
	marked := make(map[string]bool, len(checkIns))
	for _, c := range checkIns {
		marked[c.HabitID] = true
	}
	m.habitsModel.SetHabits(views, marked)

	from, to := m.svc.DefaultHeatmapRange(HeatmapDays)
	days, err := m.svc.Heatmap(m.ctx, from, to)
	if err != nil {
		m.setError("load heatmap", err)
		return
	}
	m.heatmapDays = days

	m.updateValidationStatus()
}

// updateValidationStatus runs the integrity audit and updates the warning.
func (m *Model) updateValidationStatus() {
	report, err := m.svc.Audit(m.ctx)
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	if report.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'habitgrid validate'", len(report.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setError(action string, err error) {
	logger.Warn("TUI action failed", "action", action, "error", err)
	m.status = fmt.Sprintf("Failed to %s: %v", action, err)
}

// todaysCheckIn finds the check-in of habitID for today.
func (m *Model) todaysCheckIn(habitID string) (models.CheckInView, bool, error) {
	today := utils.FormatDate(m.svc.Today())
	checkIns, err := m.svc.ListCheckIns(m.ctx, models.CheckInFilter{HabitID: habitID, From: today, To: today})
	if err != nil || len(checkIns) == 0 {
		return models.CheckInView{}, false, err
	}
	return checkIns[0], true, nil
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateHabits:
		hk := habits.DefaultKeyMap()
		return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, hk.Add, hk.Mark, hk.Unmark}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	groups := m.keys.FullHelp()
	if m.state == StateHabits {
		hk := habits.DefaultKeyMap()
		groups = append(groups, []key.Binding{hk.Add, hk.Mark, hk.Unmark, hk.Delete})
	}
	return groups
}

func (m Model) Init() tea.Cmd {
	return m.habitsModel.Init()
}

// State returns the active view.
func (m Model) State() SessionState {
	return m.state
}

// Status returns the last action message.
func (m Model) Status() string {
	return m.status
}
