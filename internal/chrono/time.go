package chrono

import (
	"time"
)

var sydney *time.Location

func init() {
	var err error
	sydney, err = time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(err)
	}
}

// Sydney returns a [*time.Location] for Australia/Sydney, the timezone
// the university publishes results in.
func Sydney() *time.Location {
	return sydney
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time, the timezone of the time will default to Australia/Sydney.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(sydney)
}

// FixedTime always reports the same instant, for tests.
type FixedTime struct {
	At time.Time
}

func (f FixedTime) Now() time.Time {
	return f.At
}
