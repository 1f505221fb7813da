package testutil

import (
	"fmt"
	"html"
	"strings"
)

// Subject is one row of a fake results page, every field is rendered as-is.
type Subject struct {
	Area   string
	Number string
	Title  string
	Mark   string
	Grade  string
}

type Block struct {
	Semester int
	Subjects []Subject
}

type Year struct {
	Year   int
	Blocks []Block
}

func writeCells(out *strings.Builder, subjects []Subject) {
	for _, s := range subjects {
		out.WriteString("<tr>")
		for _, cell := range []string{s.Area, s.Number, s.Title, s.Mark, s.Grade} {
			fmt.Fprintf(out, `<td class="instructions">%s</td>`, html.EscapeString(cell))
		}
		out.WriteString("</tr>\n")
	}
}

// ResultsPage renders a page laid out like the SSA course results page.
func ResultsPage(years ...Year) string {
	out := strings.Builder{}
	out.WriteString("<html><head><title>Course Results</title></head><body>\n")
	for _, y := range years {
		fmt.Fprintf(&out, `<table class="heading"><tr><td><b>Results for Academic Year: %d</b></td></tr></table>`+"\n", y.Year)
		for _, b := range y.Blocks {
			fmt.Fprintf(&out, "<table>\n<tr><td colspan=\"5\"><b>Semester %d</b></td></tr>\n", b.Semester)
			writeCells(&out, b.Subjects)
			out.WriteString("</table>\n")
		}
	}
	out.WriteString("<p>End of results</p></body></html>\n")
	return out.String()
}

// StyledResultsPage renders the older layout, every results table carries
// the same inline style and blocks are only identified by position.
func StyledResultsPage(style string, years ...Year) string {
	out := strings.Builder{}
	out.WriteString("<html><body>\n")
	out.WriteString(`<table style="width: 50%"><tr><td>Student Centre</td></tr></table>` + "\n")
	for _, y := range years {
		fmt.Fprintf(&out, `<table style="%s"><tr><td>Results for Academic Year: %d</td></tr></table>`+"\n", style, y.Year)
		for _, b := range y.Blocks {
			fmt.Fprintf(&out, "<table style=\"%s\">\n", style)
			writeCells(&out, b.Subjects)
			out.WriteString("</table>\n")
		}
	}
	out.WriteString("</body></html>\n")
	return out.String()
}
