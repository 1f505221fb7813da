package results

import (
	"fmt"
	"strings"
	"usydrc/lib/htmlutil"
	"usydrc/lib/semester"

	"github.com/PuerkitoBio/goquery"
)

// Locator finds the block of markup holding one period's result cells.
// It returns an error wrapping ErrPageStructure when the page does not look
// like it should.
type Locator interface {
	Locate(doc *goquery.Document, period semester.Period) (*goquery.Selection, error)
}

func yearHeading(year int) string {
	return fmt.Sprintf("Results for Academic Year: %d", year)
}

func semesterHeading(n int) string {
	return fmt.Sprintf("Semester %d", n)
}

const anyYearHeading = "Results for Academic Year:"

// HeadingLocator matches the SSA page layout: a table holding the text
// "Results for Academic Year: {year}", followed by sibling elements each
// introduced by "Semester {n}".
type HeadingLocator struct{}

func (HeadingLocator) Locate(doc *goquery.Document, period semester.Period) (*goquery.Selection, error) {
	heading := htmlutil.FindText(doc.Get(0), yearHeading(period.Year))
	if heading == nil || heading.Parent == nil {
		return nil, fmt.Errorf("%w: no heading for year %d", ErrPageStructure, period.Year)
	}

	yearTable := doc.FindNodes(heading.Parent).Closest("table")
	if yearTable.Length() == 0 {
		return nil, fmt.Errorf("%w: year heading %d is not inside a table", ErrPageStructure, period.Year)
	}

	want := semesterHeading(period.Semester)
	var block *goquery.Selection
	yearTable.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// the next year's results start here, don't wander into them
		if strings.Contains(htmlutil.CleanText(s.Text()), anyYearHeading) {
			return false
		}
		if htmlutil.ContainsText(s.Get(0), want) {
			block = s
			return false
		}
		return true
	})
	if block == nil {
		return nil, fmt.Errorf("%w: no %q block for year %d", ErrPageStructure, want, period.Year)
	}
	return block, nil
}

// DefaultStyleSignature is the inline style carried by every results table
// on the older SSA layout.
const DefaultStyleSignature = "border-collapse: collapse; width: 100%"

// StyledLocator matches the older layout where every results table carries
// the same inline style. The year anchor is the first such table mentioning
// the year heading, the semester block is positional: semester n is the
// n-th styled table after the anchor.
type StyledLocator struct {
	Signature string
}

func normalizeStyle(style string) string {
	style = strings.ToLower(style)
	style = strings.Join(strings.Fields(style), "")
	return strings.TrimSuffix(style, ";")
}

func (l StyledLocator) Locate(doc *goquery.Document, period semester.Period) (*goquery.Selection, error) {
	signature := l.Signature
	if signature == "" {
		signature = DefaultStyleSignature
	}
	signature = normalizeStyle(signature)

	styled := doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return normalizeStyle(s.AttrOr("style", "")) == signature
	})

	heading := yearHeading(period.Year)
	anchor := -1
	styled.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(htmlutil.CleanText(s.Text()), heading) {
			anchor = i
			return false
		}
		return true
	})
	if anchor < 0 {
		return nil, fmt.Errorf("%w: no styled table for year %d", ErrPageStructure, period.Year)
	}

	idx := anchor + period.Semester
	if idx >= styled.Length() {
		return nil, fmt.Errorf("%w: no styled block for %s", ErrPageStructure, period)
	}
	block := styled.Eq(idx)
	if strings.Contains(htmlutil.CleanText(block.Text()), anyYearHeading) {
		return nil, fmt.Errorf("%w: no styled block for %s", ErrPageStructure, period)
	}
	return block, nil
}

// LocatorByName maps a config value to a Locator.
func LocatorByName(name string) (Locator, error) {
	switch name {
	case "", "heading":
		return HeadingLocator{}, nil
	case "styled":
		return StyledLocator{}, nil
	}
	return nil, fmt.Errorf("unknown results locator %q", name)
}
