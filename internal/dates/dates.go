// Package dates holds the recertification date arithmetic. Everything here is
// pure: parse, add, format. Dates travel as MM/DD/YYYY strings everywhere in
// the system, including the store.
package dates

import (
	"fmt"
	"time"
)

// Layout is the single date format used for input, output and storage.
const Layout = "01/02/2006"

const (
	// Recertification is due 9 months after lease start, approximated as a
	// fixed 270 days. Not calendar-month arithmetic.
	recertOffsetDays = 270
	// Reminder fires a fixed lead time before recertification.
	reminderLeadDays = 7
)

// Parse parses s under Layout.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected MM/DD/YYYY", s)
	}
	return t, nil
}

// ComputeFollowUp derives the recertification and reminder dates from a lease
// start date. Fails on unparseable input with no partial result.
func ComputeFollowUp(start string) (recert, reminder string, err error) {
	t, err := Parse(start)
	if err != nil {
		return "", "", err
	}
	r := t.AddDate(0, 0, recertOffsetDays)
	return r.Format(Layout), r.AddDate(0, 0, -reminderLeadDays).Format(Layout), nil
}

// Today formats the given instant as a storable date.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// IsDueToday reports whether a stored reminder date matches today. Both sides
// are normalized through Layout first; an unparseable stored date is never
// due.
func IsDueToday(stored, today string) bool {
	s, err := Parse(stored)
	if err != nil {
		return false
	}
	t, err := Parse(today)
	if err != nil {
		return false
	}
	return s.Equal(t)
}
