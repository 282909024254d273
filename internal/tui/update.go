package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/service"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Tabs, status and help take the remaining rows
		m.habitsModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case habits.AddHabitMsg, habits.MarkHabitMsg, habits.UnmarkHabitMsg, habits.DeleteHabitMsg:
		return m.handleHabitMessage(msg)
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.habitsModel.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			m.refresh()
			return m, nil
		}
	}

	if m.state == StateHabits {
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleHabitMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = &service.HabitInput{}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.MarkHabitMsg:
		v, err := m.svc.CreateCheckIn(m.ctx, service.CheckInInput{HabitID: msg.ID})
		if err != nil {
			m.setError("check in", err)
			return m, nil
		}
		m.status = "Checked in for " + v.Date
		m.refresh()

	case habits.UnmarkHabitMsg:
		c, ok, err := m.todaysCheckIn(msg.ID)
		if err != nil {
			m.setError("find today's check-in", err)
			return m, nil
		}
		if !ok {
			return m, nil
		}
		if err := m.svc.DeleteCheckIn(m.ctx, c.ID); err != nil {
			m.setError("undo check-in", err)
			return m, nil
		}
		m.status = "Removed check-in for " + c.Date
		m.refresh()

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.habitToDeleteName = msg.Name
		m.state = StateConfirmDelete
	}
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveHabitForm(); err != nil {
			m.setError("add habit", err)
			// Stay in the form so the user can retry or cancel with esc
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = StateHabits
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func (m *Model) saveHabitForm() error {
	h, err := m.svc.CreateHabit(m.ctx, *m.habitForm)
	if err != nil {
		return err
	}
	m.status = "Added habit: " + h.Name
	m.refresh()
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.svc.DeleteHabit(m.ctx, m.habitToDeleteID); err != nil {
			m.setError("delete habit", err)
		} else {
			m.status = "Deleted habit: " + m.habitToDeleteName
			m.refresh()
		}
	case key.Matches(keyMsg, m.keys.Cancel):
		m.status = "Deletion cancelled."
	default:
		return m, nil
	}

	m.habitToDeleteID = ""
	m.habitToDeleteName = ""
	m.state = StateHabits
	return m, nil
}

func newHabitForm(in *service.HabitInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.Name).
				Validate(validation.HabitName),
			huh.NewInput().
				Title("Description").
				Value(&in.Description),
			huh.NewInput().
				Title("Color").
				Placeholder(constants.DefaultHabitColor).
				Value(&in.Color).
				Validate(validation.HexColor),
		).Title("New habit"),
	)
}
