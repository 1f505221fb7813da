package results

import (
	"errors"
	"fmt"
	"strings"
	"usydrc/internal/assert"
	"usydrc/internal/telemetry"
	"usydrc/lib/htmlutil"
	"usydrc/lib/semester"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrPageStructure means the page did not have the expected shape, as
	// opposed to having no results in it.
	ErrPageStructure = errors.New("results page structure not recognized")
	// ErrNoPage means there was no markup to parse at all.
	ErrNoPage = errors.New("no results page to parse")
)

const (
	report_extract           = "parser.extract"
	report_duplicate_subject = "parser.duplicate-subject"
)

// each subject spans this many cells:
// area code, subject number, title, mark, grade
const cellStride = 5

const cellSelector = "td.instructions"

type Parser struct {
	locator Locator
	tel     telemetry.API
}

func NewParser(locator Locator, tel telemetry.API) Parser {
	assert.NotNil(locator)
	assert.NotNil(tel)
	return Parser{
		locator: locator,
		tel:     telemetry.NewScopedAPI("results", tel),
	}
}

var defaultParser = NewParser(HeadingLocator{}, telemetry.SlogAPI{})

// Extract parses the SSA page with the default heading locator.
func Extract(markup string, period semester.Period) ([]Record, error) {
	return defaultParser.Extract(markup, period)
}

// Extract turns a results page into the records of the given period.
//
// A page that cannot be understood yields a nil slice and an error wrapping
// ErrPageStructure (or ErrNoPage for empty markup), a page with an empty
// block yields an empty slice and no error.
func (p Parser) Extract(markup string, period semester.Period) ([]Record, error) {
	period.MustValid()

	if strings.TrimSpace(markup) == "" {
		return nil, ErrNoPage
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		p.tel.ReportBroken(report_extract, err)
		return nil, fmt.Errorf("%w: %w", ErrPageStructure, err)
	}

	block, err := p.locator.Locate(doc, period)
	if err != nil {
		p.tel.ReportWarning(report_extract, err, period.String())
		return nil, err
	}

	cells := block.Find(cellSelector).Map(func(_ int, s *goquery.Selection) string {
		return htmlutil.CleanText(htmlutil.GetText(s.Get(0)))
	})
	if len(cells)%cellStride != 0 {
		err := fmt.Errorf("%w: %d result cells is not a multiple of %d", ErrPageStructure, len(cells), cellStride)
		p.tel.ReportWarning(report_extract, err, period.String())
		return nil, err
	}

	records := []Record{}
	seen := map[string]bool{}
	for i := 0; i < len(cells); i += cellStride {
		row := cells[i : i+cellStride]
		grade := row[4]
		if grade == GradeWithdrawn {
			continue
		}

		subject := row[0] + row[1]
		if seen[subject] {
			p.tel.ReportWarning(report_duplicate_subject, subject, period.String())
			continue
		}
		seen[subject] = true

		mark, released := ParseMark(row[3])
		records = append(records, Record{
			Subject:  subject,
			Grade:    grade,
			Mark:     mark,
			Released: released,
		})
	}

	p.tel.ReportDebug("extracted records", period.String(), len(records))
	return records, nil
}
