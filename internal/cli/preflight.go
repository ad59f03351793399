package cli

import "fmt"

// PreflightError is returned when a command cannot run in the current
// environment. It carries a hint and next step for the user.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	if e.NextStep != "" {
		msg += fmt.Sprintf("\n  next: %s", e.NextStep)
	}
	return msg
}
