package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

func TestApplyBreak(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"short shift untouched", 4 * time.Hour, 4 * time.Hour},
		{"exactly seven hours untouched", 7 * time.Hour, 7 * time.Hour},
		{"one second over gets deduction", 7*time.Hour + time.Second, 6*time.Hour + 30*time.Minute + time.Second},
		{"long shift gets deduction", 9 * time.Hour, 8*time.Hour + 30*time.Minute},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyBreak(tt.in); got != tt.want {
				t.Errorf("ApplyBreak(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRawDurationNegative(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(-time.Minute)

	_, err := RawDuration(in, out)
	if err == nil {
		t.Fatal("expected error for clock-out before clock-in")
	}
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestEntryDuration(t *testing.T) {
	in := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	t.Run("closed entry over threshold", func(t *testing.T) {
		e := models.TimeEntry{ClockInTime: in, ClockOutTime: &out}
		d, deducted, err := EntryDuration(&e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deducted {
			t.Error("expected break deduction")
		}
		if want := 7*time.Hour + 30*time.Minute; d != want {
			t.Errorf("duration = %v, want %v", d, want)
		}
	})

	t.Run("open entry contributes zero", func(t *testing.T) {
		e := models.TimeEntry{ClockInTime: in}
		d, deducted, err := EntryDuration(&e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != 0 || deducted {
			t.Errorf("open entry: got duration %v deducted %v, want zero and false", d, deducted)
		}
	})
}

func TestHoursAndRound2(t *testing.T) {
	if got := Hours(90 * time.Minute); got != 1.5 {
		t.Errorf("Hours(90m) = %v, want 1.5", got)
	}
	if got := Round2(3.7333333); got != 3.73 {
		t.Errorf("Round2(3.7333333) = %v, want 3.73", got)
	}
	if got := Round2(3.2666666); got != 3.27 {
		t.Errorf("Round2(3.2666666) = %v, want 3.27", got)
	}
}
