// Package cohort computes the weekly time-bucket key used to group persisted
// items idempotently.
package cohort

import "time"

// Window is a weekly bucket anchored at the most recent Sunday 00:00 UTC.
type Window struct {
	Anchor time.Time
}

// ForTime returns the window containing t. Recomputed fresh on every run;
// never advanced manually.
func ForTime(t time.Time) Window {
	t = t.UTC()
	daysSinceSunday := int(t.Weekday())
	anchor := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -daysSinceSunday)
	return Window{Anchor: anchor}
}

// Key returns the stable string form used as a persistence grouping key.
func (w Window) Key() string {
	return w.Anchor.Format("2006-01-02")
}
