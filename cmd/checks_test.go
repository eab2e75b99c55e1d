package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runChecksCommand(t *testing.T, format string) string {
	t.Helper()
	original := checksFormat
	checksFormat = format
	defer func() { checksFormat = original }()

	var buf bytes.Buffer
	checksCmd.SetOut(&buf)
	defer checksCmd.SetOut(nil)

	if err := checksCmd.RunE(checksCmd, nil); err != nil {
		t.Fatalf("checks command failed: %v", err)
	}
	return buf.String()
}

func TestChecksCommandText(t *testing.T) {
	output := runChecksCommand(t, "text")

	for _, want := range []string{"CATEGORY", "Active plugins", "Default admin username", "HTTP probe"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if lines := strings.Count(strings.TrimSpace(output), "\n"); lines != 16 {
		t.Errorf("expected header plus 16 checks, got %d lines", lines+1)
	}
}

func TestChecksCommandJSON(t *testing.T) {
	var specs []struct {
		Category string `json:"category"`
		Title    string `json:"title"`
	}
	if err := json.Unmarshal([]byte(runChecksCommand(t, "json")), &specs); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(specs) != 16 || specs[0].Category != "performance" || specs[15].Category != "security" {
		t.Fatalf("unexpected catalog %+v", specs)
	}
}

func TestChecksCommandRejectsHTML(t *testing.T) {
	original := checksFormat
	checksFormat = "html"
	defer func() { checksFormat = original }()

	if err := checksCmd.RunE(checksCmd, nil); err == nil {
		t.Fatal("expected html to be rejected")
	}
}
