// Package notify delivers chore reminders over web push on a fixed schedule.
package notify

import (
	"fmt"
	"time"
)

// Window labels for reminder phrasing.
const (
	WindowNightBefore = "night-before"
	WindowMorning     = "morning"
	WindowEvening     = "evening"
)

// Window is the reminder window the current time falls into. Start and End
// bound the stretch of due dates the window covers.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Classify maps a local time onto a reminder window. From 18:00 the window is
// the evening of the current day; from 06:00 it is the morning of the current
// day; before 06:00 reminders are sent the night before, so the window starts
// at the following midnight. The window always spans 24 hours.
func Classify(now time.Time) Window {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var w Window
	switch {
	case now.Hour() >= 18:
		w = Window{Label: WindowEvening, Start: midnight}
	case now.Hour() >= 6:
		w = Window{Label: WindowMorning, Start: midnight}
	default:
		w = Window{Label: WindowNightBefore, Start: midnight.AddDate(0, 0, 1)}
	}
	w.End = w.Start.Add(24 * time.Hour)
	return w
}

// Message returns the push title and body for a chore falling in this window.
func (w Window) Message(choreTitle string) (title, body string) {
	switch w.Label {
	case WindowNightBefore:
		return fmt.Sprintf("Tomorrow: %s", choreTitle),
			fmt.Sprintf("Don't forget to do %q tomorrow.", choreTitle)
	case WindowMorning:
		return fmt.Sprintf("Today: %s", choreTitle),
			fmt.Sprintf("Time to do %q this morning.", choreTitle)
	default:
		return fmt.Sprintf("Tonight: %s", choreTitle),
			fmt.Sprintf("Please finish %q this evening.", choreTitle)
	}
}
