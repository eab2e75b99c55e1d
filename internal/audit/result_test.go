package audit

import (
	"encoding/json"
	"errors"
	"testing"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarning, "warning"},
		{StatusFail, "fail"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Status.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatusWeight(t *testing.T) {
	if StatusPass.Weight() != 100 || StatusWarning.Weight() != 50 || StatusFail.Weight() != 0 {
		t.Fatal("unexpected status weights")
	}
}

func TestStatusRejectsUnknownValues(t *testing.T) {
	var r Result
	err := json.Unmarshal([]byte(`{"title":"x","status":"unknown"}`), &r)
	if !errors.Is(err, sharederrors.ErrInvalidCheckStatus) {
		t.Fatalf("expected ErrInvalidCheckStatus, got %v", err)
	}

	if err := json.Unmarshal([]byte(`{"title":"x","status":"Warning"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusWarning {
		t.Fatalf("expected warning, got %q", r.Status)
	}
}

func TestNewResultDropsFixOnPass(t *testing.T) {
	r := NewResult("Debug mode", StatusPass, "off", "why", "turn it off")
	if r.Fix != "" {
		t.Fatalf("expected empty fix for passing result, got %q", r.Fix)
	}
	if !r.Passed() {
		t.Fatal("expected Passed() to be true")
	}

	f := Fail("Debug mode", "on", "why", "turn it off")
	if f.Fix != "turn it off" || f.Passed() {
		t.Fatalf("unexpected fail result %+v", f)
	}
}

func TestParseCategory(t *testing.T) {
	all, err := ParseCategory("all")
	if err != nil || len(all) != 2 || all[0] != Performance || all[1] != Security {
		t.Fatalf("unexpected categories %v (%v)", all, err)
	}

	sec, err := ParseCategory("Security")
	if err != nil || len(sec) != 1 || sec[0] != Security {
		t.Fatalf("unexpected categories %v (%v)", sec, err)
	}

	if _, err := ParseCategory("seo"); !errors.Is(err, sharederrors.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
