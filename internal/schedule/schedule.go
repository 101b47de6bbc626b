// Package schedule models how often a chore recurs.
package schedule

import (
	"fmt"
	"time"
)

type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Biweekly
	Monthly
)

var freqNames = map[Frequency]string{
	Daily:    "Daily",
	Weekly:   "Weekly",
	Biweekly: "Bi-weekly",
	Monthly:  "Monthly",
}

var freqFromName = map[string]Frequency{
	"Daily":     Daily,
	"Weekly":    Weekly,
	"Bi-weekly": Biweekly,
	"Monthly":   Monthly,
}

func (f Frequency) String() string {
	return freqNames[f]
}

// ParseFrequency parses one of "Daily", "Weekly", "Bi-weekly", "Monthly".
func ParseFrequency(s string) (Frequency, error) {
	f, ok := freqFromName[s]
	if !ok {
		return 0, fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// Schedule is a frequency with a repeat count, e.g. {Weekly, 2} = twice a week.
// Count only affects how the client presents the chore; the due-date step is
// the frequency interval.
type Schedule struct {
	Frequency Frequency `json:"frequency"`
	Count     int       `json:"count"`
}

// New builds a Schedule, defaulting count to 1 when it is absent or
// non-positive (mirrors the lenient input parsing of the mobile client).
func New(freq Frequency, count int) Schedule {
	if count < 1 {
		count = 1
	}
	return Schedule{Frequency: freq, Count: count}
}

// Next returns the due instant one interval after from.
func (s Schedule) Next(from time.Time) time.Time {
	switch s.Frequency {
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Biweekly:
		return from.AddDate(0, 0, 14)
	case Monthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}
