package checker

import (
	"fmt"
	"usydrc/lib/results"
	"usydrc/lib/semester"
)

type Status int

const (
	// StatusNone means the page was read and nothing new was released.
	StatusNone Status = iota
	StatusNew
	// StatusUnrecognized means the page was fetched but the results block
	// could not be found in it.
	StatusUnrecognized
	// StatusUnavailable means the page could not be fetched at all.
	StatusUnavailable
	// StatusEmpty means the request succeeded but returned no markup.
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusNew:
		return "new"
	case StatusUnrecognized:
		return "unrecognized"
	case StatusUnavailable:
		return "unavailable"
	case StatusEmpty:
		return "empty"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Report struct {
	Status Status
	Period semester.Period
	// records released since the last run
	New []results.Record
	// everything known after the run
	Records []results.Record
	// whether the notifier was handed the new results
	Notified bool
}

func (r Report) Message() string {
	switch r.Status {
	case StatusUnrecognized:
		return "no results table found"
	case StatusUnavailable:
		return "results page unavailable"
	case StatusEmpty:
		return "nothing to parse, results page was empty"
	case StatusNew:
		return fmt.Sprintf("%d new results found", len(r.New))
	}
	return "no new results"
}
