// Package semester decides which academic period's results are relevant
// on a given day.
package semester

import (
	"fmt"
	"time"
	"usydrc/internal/assert"
	"usydrc/internal/chrono"
)

// Period is an (academic year, semester) pair, Semester is always 1 or 2.
type Period struct {
	Year     int
	Semester int
}

func (p Period) Valid() bool {
	return p.Semester == 1 || p.Semester == 2
}

// MustValid panics on a malformed period, callers passing one have a bug.
func (p Period) MustValid() {
	assert.InRange("semester", p.Semester, 1, 2)
}

func (p Period) String() string {
	return fmt.Sprintf("%d semester %d", p.Year, p.Semester)
}

// Resolve returns the most recently completed period. Results lag the end
// of teaching, so:
//
//   - January to May: semester 2 of the previous year
//   - June to October: semester 1 of the current year
//   - November and December: semester 2 of the current year
func Resolve(now time.Time) Period {
	year := now.Year()
	month := now.Month()

	if month <= time.May {
		return Period{Year: year - 1, Semester: 2}
	}
	if month <= time.October {
		return Period{Year: year, Semester: 1}
	}
	return Period{Year: year, Semester: 2}
}

// Current resolves against the given clock.
func Current(clock chrono.TimeAPI) Period {
	return Resolve(clock.Now())
}
