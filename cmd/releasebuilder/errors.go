package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var relErr *errors.ReleaseError
	var cliErr *CLIError
	switch {
	case stderrors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case stderrors.As(err, &relErr):
		formatReleaseError(w, relErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", errorStyle, useColor), err.Error())
	}
}

// formatReleaseError prints the error chain and, for unknown constants, the
// names that come close
func formatReleaseError(w io.Writer, err *errors.ReleaseError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", errorStyle, useColor), err.Message)

	if err.Cause != nil {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Cause.Error(), mutedStyle, useColor))
	}

	value, _ := err.GetContext("suggestions")
	if suggestions, ok := value.([]string); ok && len(suggestions) > 0 {
		hint := "Did you mean " + strings.Join(suggestions, ", ") + "?"
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", hintStyle, useColor), hint)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", errorStyle, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", hintStyle, useColor), err.Hint)
	}
}

func exitCode(err error) int {
	if errors.IsErrorType(err, errors.ErrInvalidArgument) {
		return ExitInvalidArguments
	}
	return ExitFailure
}
