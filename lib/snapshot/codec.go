// Package snapshot persists the last known set of results in the plain
// text format the checker has always written, so old files stay readable.
package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"usydrc/lib/results"
)

const (
	headerEmpty    = "Marks aren't out yet."
	headerReleased = "Marks are out!"
	headerNew      = "NEW "

	Footer = "Check SSA for more details, https://ssa.usyd.edu.au/ssa/"

	TimestampLayout = "Mon 02/01/06 at 03:04PM"

	// subject codes are 4 letters followed by 4 digits, nothing else on
	// a record line has 8 characters before the first colon
	subjectLength = 8
)

// Encode writes records in the snapshot format. Only released records are
// written, a set with none of them is written as "Marks aren't out yet.".
func Encode(w io.Writer, records []results.Record, hadNew bool, checkedAt time.Time) error {
	bw := bufio.NewWriter(w)

	var released []results.Record
	for _, r := range records {
		if r.Released {
			released = append(released, r)
		}
	}

	if len(released) == 0 {
		fmt.Fprintf(bw, "%s\n", headerEmpty)
	} else {
		if hadNew {
			bw.WriteString(headerNew)
		}
		fmt.Fprintf(bw, "%s\n\n", headerReleased)
		for _, r := range released {
			fmt.Fprintf(bw, "%s: %s, %d\n", r.Subject, r.Grade, r.Mark)
		}
		fmt.Fprintf(bw, "\n%s\n", Footer)
	}
	fmt.Fprintf(bw, "\nLast checked on %s\n", checkedAt.Format(TimestampLayout))

	return bw.Flush()
}

// LineError describes a line that looked like a record but could not be read.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Text, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Decode reads records back from the snapshot format. Lines whose text
// before the first colon is not exactly 8 characters are not records (blank
// lines, the footer, the timestamp) and are ignored. Lines that look like
// records but are malformed are skipped and returned as skipped.
//
// The returned error is only ever a read error.
func Decode(r io.Reader) (records []results.Record, skipped []LineError, err error) {
	reader := bufio.NewReader(r)
	records = []results.Record{}

	header, more, err := readLine(reader)
	if err != nil {
		return records, nil, err
	}
	if !strings.Contains(header, headerReleased) {
		return records, nil, nil
	}

	lineNo := 1
	for more {
		var line string
		line, more, err = readLine(reader)
		if err != nil {
			return records, skipped, err
		}
		lineNo++

		subject, rest, found := strings.Cut(line, ":")
		if !found || len(subject) != subjectLength {
			continue
		}

		record, err := decodeRecord(subject, rest)
		if err != nil {
			skipped = append(skipped, LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}

// readLine returns the next line without its line ending, however long it
// is. more is false once the input is exhausted.
func readLine(r *bufio.Reader) (line string, more bool, err error) {
	line, err = r.ReadString('\n')
	if err == io.EOF {
		return strings.TrimSuffix(line, "\r"), false, nil
	}
	if err != nil {
		return "", false, err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true, nil
}

func decodeRecord(subject, rest string) (results.Record, error) {
	grade, markText, found := strings.Cut(rest, ",")
	if !found {
		return results.Record{}, fmt.Errorf("expected \"GRADE, MARK\"")
	}
	markText = strings.TrimSpace(markText)
	mark, err := strconv.Atoi(markText)
	if err != nil {
		return results.Record{}, fmt.Errorf("bad mark %q: %w", markText, err)
	}
	return results.NewRecord(subject, strings.TrimSpace(grade), mark), nil
}
