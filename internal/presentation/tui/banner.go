package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints a one-line outcome, colored when the output supports it.
type Status struct {
	out     *termenv.Output
	success termenv.Color
	failure termenv.Color
}

// NewStatus writes to w, detecting the color profile from it.
func NewStatus(w io.Writer) *Status {
	out := termenv.NewOutput(w)
	return &Status{
		out:     out,
		success: out.Color("#22c55e"),
		failure: out.Color("#ef4444"),
	}
}

// Success prints msg with a check mark.
func (s *Status) Success(format string, args ...any) {
	msg := fmt.Sprintf("✔ "+format, args...)
	fmt.Fprintln(s.out, s.out.String(msg).Foreground(s.success))
}

// Failure prints msg with a cross.
func (s *Status) Failure(format string, args ...any) {
	msg := fmt.Sprintf("✘ "+format, args...)
	fmt.Fprintln(s.out, s.out.String(msg).Foreground(s.failure).Bold())
}
