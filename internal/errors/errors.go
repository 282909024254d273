package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitgrid/internal/logger"
)

var (
	// ErrInvalidRange is returned for a malformed or inverted date range
	ErrInvalidRange = errors.New("invalid date range")
	// ErrMissingParameter is returned when a required query parameter is absent
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrNotFound is returned when a referenced habit or check-in does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCheckIn is returned when a habit already has a check-in for the date
	ErrDuplicateCheckIn = errors.New("check-in already exists for this habit and date")
	// ErrValidation is returned when a request payload fails validation
	ErrValidation = errors.New("validation failed")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
