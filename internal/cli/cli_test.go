package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cytzrs/share-sub001/internal/models"
)

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"cash=999.00", "agent_name=alpha"})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}
	if vars["cash"] != "999.00" || vars["agent_name"] != "alpha" {
		t.Fatalf("unexpected vars: %v", vars)
	}

	// Values may contain '='.
	vars, err = parseVars([]string{"note=a=b"})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}
	if vars["note"] != "a=b" {
		t.Fatalf("unexpected value: %q", vars["note"])
	}

	if _, err := parseVars([]string{"missing-separator"}); err == nil {
		t.Fatal("expected error for pair without '='")
	}
	if _, err := parseVars([]string{"=value"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestFormatStatusLabel(t *testing.T) {
	if got := formatStatusLabel("OK", "idle"); got != "OK idle" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := formatStatusLabel("WARN", "check_failed"); got != "WARN check failed" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := formatStatusLabel("OK", ""); got != "OK" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestStatusLabelForAgentCoversStates(t *testing.T) {
	for _, state := range []models.AgentState{
		models.AgentStateIdle,
		models.AgentStateRunning,
		models.AgentStatePaused,
		models.AgentStateError,
		models.AgentStateStopped,
	} {
		label, color := statusLabelForAgent(state)
		if label == "" || color == "" {
			t.Fatalf("missing label mapping for state %q", state)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"NAME", "STATE"}, [][]string{
		{"alpha", "idle"},
		{"beta", "running"},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "alpha") {
		t.Fatalf("unexpected table output: %q", out)
	}
	if len(strings.Split(strings.TrimSpace(out), "\n")) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}
}

func TestPreflightError(t *testing.T) {
	err := &PreflightError{Message: "no TTY", Hint: "use a terminal", NextStep: "sharesub --help"}
	msg := err.Error()
	if !strings.Contains(msg, "no TTY") || !strings.Contains(msg, "hint:") || !strings.Contains(msg, "next:") {
		t.Fatalf("unexpected error text: %q", msg)
	}
}
