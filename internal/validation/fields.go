package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitgrid/internal/constants"
)

var habitNameRule = "required,notblank,max=" + strconv.Itoa(constants.MaxHabitNameLength)

// HabitName checks a single habit name the way interactive forms need it,
// before a full payload exists. Length counts characters, as the API does.
func HabitName(name string) error {
	name = strings.TrimSpace(name)
	if err := Get().Var(name, habitNameRule); err != nil {
		if name == "" {
			return errors.New("name is required")
		}
		return fmt.Errorf("name must be at most %d characters", constants.MaxHabitNameLength)
	}
	return nil
}

// HexColor accepts an empty string, which means the default color.
func HexColor(color string) error {
	if err := Get().Var(strings.TrimSpace(color), "omitempty,hexcolor"); err != nil {
		return errors.New("color must be a hex color such as " + constants.DefaultHabitColor)
	}
	return nil
}
