package cli

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/service"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// HabitFormFunc lets the user fill in or edit a habit. Fields already set
// in in are offered as defaults.
type HabitFormFunc func(title string, in *service.HabitInput) error

// PromptKit bundles the interactive prompts so tests can replace them.
type PromptKit struct {
	Confirm   ConfirmFunc
	HabitForm HabitFormFunc
}

func NewPromptKit() PromptKit {
	return PromptKit{
		Confirm:   confirmPrompt,
		HabitForm: habitForm,
	}
}

// AlwaysYes confirms without asking.
func AlwaysYes() ConfirmFunc {
	return func(string) (bool, error) {
		return true, nil
	}
}

func confirmPrompt(prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func habitForm(title string, in *service.HabitInput) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.Name).
				Validate(validation.HabitName),
			huh.NewText().
				Title("Description").
				Value(&in.Description),
			huh.NewInput().
				Title("Color").
				Placeholder(constants.DefaultHabitColor).
				Value(&in.Color).
				Validate(validation.HexColor),
		).Title(title),
	)
	return form.Run()
}

// confirm asks unless skip is set. A nil ConfirmFunc refuses.
func (c *Context) confirm(skip bool, prompt string) (bool, error) {
	if skip {
		return true, nil
	}
	if c.Prompts.Confirm == nil {
		return false, errors.New("confirmation required; pass --yes to skip")
	}
	return c.Prompts.Confirm(prompt)
}
