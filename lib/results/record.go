package results

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GradeWithdrawn marks a dropped subject, those never become records.
const GradeWithdrawn = "Withdrawn"

// Record is one subject's exam outcome. Records are compared with ==.
//
// Released is false when the page lists the subject but the mark has not
// been published yet, Mark is meaningless in that case.
type Record struct {
	Subject  string
	Grade    string
	Mark     int
	Released bool
}

func NewRecord(subject, grade string, mark int) Record {
	return Record{Subject: subject, Grade: grade, Mark: mark, Released: true}
}

func Unreleased(subject, grade string) Record {
	return Record{Subject: subject, Grade: grade}
}

func (r Record) String() string {
	if !r.Released {
		return fmt.Sprintf("%s: %s, -", r.Subject, r.Grade)
	}
	return fmt.Sprintf("%s: %s, %d", r.Subject, r.Grade, r.Mark)
}

// ParseMark reads a mark cell. Fractions are truncated toward zero, not
// rounded, so "74.9" is 74. Anything that is not a finite number, or does
// not fit in an int, counts as unreleased.
func ParseMark(text string) (mark int, released bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value >= float64(math.MaxInt) || value <= float64(math.MinInt) {
		return 0, false
	}
	return int(math.Trunc(value)), true
}
