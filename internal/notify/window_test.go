package notify

import (
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	loc := time.UTC
	day := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 30, 0, 0, loc)
	}
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	nextMidnight := midnight.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		now       time.Time
		wantLabel string
		wantStart time.Time
	}{
		{"early morning is night-before", day(2), WindowNightBefore, nextMidnight},
		{"just before six is night-before", day(5), WindowNightBefore, nextMidnight},
		{"six sharp is morning", time.Date(2026, 3, 14, 6, 0, 0, 0, loc), WindowMorning, midnight},
		{"midday is morning", day(12), WindowMorning, midnight},
		{"just before six pm is morning", day(17), WindowMorning, midnight},
		{"six pm sharp is evening", time.Date(2026, 3, 14, 18, 0, 0, 0, loc), WindowEvening, midnight},
		{"late night is evening", day(23), WindowEvening, midnight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Classify(tt.now)
			if w.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", w.Label, tt.wantLabel)
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", w.Start, tt.wantStart)
			}
			if got := w.End.Sub(w.Start); got != 24*time.Hour {
				t.Errorf("window span = %v, want 24h", got)
			}
		})
	}
}

func TestClassifyKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2026, 3, 14, 3, 0, 0, 0, loc)

	w := Classify(now)
	if w.Start.Location() != loc {
		t.Errorf("start location = %v, want %v", w.Start.Location(), loc)
	}
}

func TestWindowMessage(t *testing.T) {
	tests := []struct {
		label      string
		wantTitle  string
		wantInBody string
	}{
		{WindowNightBefore, "Tomorrow: Dishes", "tomorrow"},
		{WindowMorning, "Today: Dishes", "this morning"},
		{WindowEvening, "Tonight: Dishes", "this evening"},
	}

	for _, tt := range tests {
		w := Window{Label: tt.label}
		title, body := w.Message("Dishes")
		if title != tt.wantTitle {
			t.Errorf("%s: title = %q, want %q", tt.label, title, tt.wantTitle)
		}
		if !strings.Contains(body, `"Dishes"`) || !strings.Contains(body, tt.wantInBody) {
			t.Errorf("%s: body = %q, want chore name and %q", tt.label, body, tt.wantInBody)
		}
	}
}
