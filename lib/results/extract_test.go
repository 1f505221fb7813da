package results

import (
	"errors"
	"testing"
	"usydrc/internal/telemetry"
	"usydrc/lib/semester"
	"usydrc/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var semester1Of2013 = []testutil.Subject{
	{Area: "COMP", Number: "2129", Title: "Algorithms", Mark: "94.0", Grade: "High Distinction"},
	{Area: "MATH", Number: "2969", Title: "Graph Theory", Mark: "74.0", Grade: "Credit"},
}

func samplePage() string {
	return testutil.ResultsPage(
		testutil.Year{
			Year: 2013,
			Blocks: []testutil.Block{
				{Semester: 1, Subjects: semester1Of2013},
				{Semester: 2, Subjects: []testutil.Subject{
					{Area: "INFO", Number: "2222", Title: "Computing 2 Usability", Mark: "", Grade: "Unavailable"},
					{Area: "PHYS", Number: "2911", Title: "Computational Physics", Mark: "88.6", Grade: "High Distinction"},
					{Area: "ELEC", Number: "1601", Title: "Intro to Electrical Eng", Mark: "0", Grade: "Withdrawn"},
				}},
			},
		},
		testutil.Year{
			Year: 2012,
			Blocks: []testutil.Block{
				{Semester: 1, Subjects: []testutil.Subject{
					{Area: "MATH", Number: "1901", Title: "Calculus", Mark: "81", Grade: "Distinction"},
				}},
			},
		},
	)
}

func TestExtract(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "lib/results"})
	defer cleanup()

	records, err := Extract(samplePage(), semester.Period{Year: 2013, Semester: 1})
	if err != nil {
		t.Fatal(err)
	}

	expected := []Record{
		NewRecord("COMP2129", "High Distinction", 94),
		NewRecord("MATH2969", "Credit", 74),
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestExtractUnreleasedAndWithdrawn(t *testing.T) {
	records, err := Extract(samplePage(), semester.Period{Year: 2013, Semester: 2})
	if err != nil {
		t.Fatal(err)
	}

	expected := []Record{
		Unreleased("INFO2222", "Unavailable"),
		// truncated, not rounded
		NewRecord("PHYS2911", "High Distinction", 88),
	}
	require.Equal(t, expected, records)
}

func TestExtractDoesNotCrossYears(t *testing.T) {
	page := testutil.ResultsPage(
		testutil.Year{Year: 2013, Blocks: []testutil.Block{{Semester: 1, Subjects: semester1Of2013}}},
		testutil.Year{Year: 2012, Blocks: []testutil.Block{{Semester: 2, Subjects: semester1Of2013}}},
	)

	records, err := Extract(page, semester.Period{Year: 2013, Semester: 2})
	require.ErrorIs(t, err, ErrPageStructure)
	require.Nil(t, records)

	records, err = Extract(page, semester.Period{Year: 2012, Semester: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestExtractStructureErrors(t *testing.T) {
	rec := &telemetry.Recorder{}
	parser := NewParser(HeadingLocator{}, rec)

	testCases := []struct {
		name   string
		markup string
		target error
	}{
		{name: "empty", markup: "  \n", target: ErrNoPage},
		{name: "login page", markup: "<html><body><form>Log in</form></body></html>", target: ErrPageStructure},
		{
			name: "missing semester",
			markup: testutil.ResultsPage(testutil.Year{
				Year:   2013,
				Blocks: []testutil.Block{{Semester: 2, Subjects: semester1Of2013}},
			}),
			target: ErrPageStructure,
		},
		{
			name: "ragged cells",
			markup: `<table><tr><td>Results for Academic Year: 2013</td></tr></table>
<table><tr><td>Semester 1</td></tr><tr>
<td class="instructions">COMP</td><td class="instructions">2129</td><td class="instructions">94</td>
</tr></table>`,
			target: ErrPageStructure,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			records, err := parser.Extract(test.markup, semester.Period{Year: 2013, Semester: 1})
			require.True(t, errors.Is(err, test.target), "got %v", err)
			require.Nil(t, records)
		})
	}

	require.NotEmpty(t, rec.Find("warning", report_extract))
}

func TestExtractEmptyBlock(t *testing.T) {
	page := testutil.ResultsPage(testutil.Year{
		Year:   2013,
		Blocks: []testutil.Block{{Semester: 1}},
	})

	records, err := Extract(page, semester.Period{Year: 2013, Semester: 1})
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestExtractDuplicateSubject(t *testing.T) {
	rec := &telemetry.Recorder{}
	parser := NewParser(HeadingLocator{}, rec)

	page := testutil.ResultsPage(testutil.Year{
		Year: 2013,
		Blocks: []testutil.Block{{Semester: 1, Subjects: []testutil.Subject{
			{Area: "COMP", Number: "2129", Title: "Algorithms", Mark: "94", Grade: "High Distinction"},
			{Area: "COMP", Number: "2129", Title: "Algorithms", Mark: "12", Grade: "Fail"},
		}}},
	})

	records, err := parser.Extract(page, semester.Period{Year: 2013, Semester: 1})
	require.NoError(t, err)
	require.Equal(t, []Record{NewRecord("COMP2129", "High Distinction", 94)}, records)
	require.Len(t, rec.Find("warning", report_duplicate_subject), 1)
}

func TestExtractInvalidPeriodPanics(t *testing.T) {
	require.Panics(t, func() {
		Extract(samplePage(), semester.Period{Year: 2013, Semester: 3})
	})
}

func TestStyledLocator(t *testing.T) {
	style := "border-collapse:collapse;  width:100%;"
	page := testutil.StyledResultsPage(
		style,
		testutil.Year{Year: 2013, Blocks: []testutil.Block{
			{Semester: 1, Subjects: semester1Of2013},
			{Semester: 2, Subjects: []testutil.Subject{
				{Area: "PHYS", Number: "2911", Title: "Computational Physics", Mark: "88", Grade: "High Distinction"},
			}},
		}},
		testutil.Year{Year: 2012, Blocks: []testutil.Block{
			{Semester: 1, Subjects: semester1Of2013},
		}},
	)
	parser := NewParser(StyledLocator{}, &telemetry.Recorder{})

	records, err := parser.Extract(page, semester.Period{Year: 2013, Semester: 1})
	require.NoError(t, err)
	require.Equal(t, []Record{
		NewRecord("COMP2129", "High Distinction", 94),
		NewRecord("MATH2969", "Credit", 74),
	}, records)

	records, err = parser.Extract(page, semester.Period{Year: 2013, Semester: 2})
	require.NoError(t, err)
	require.Equal(t, []Record{NewRecord("PHYS2911", "High Distinction", 88)}, records)

	// 2012 only has one block, the table after it belongs to nobody
	_, err = parser.Extract(page, semester.Period{Year: 2012, Semester: 2})
	require.ErrorIs(t, err, ErrPageStructure)

	_, err = parser.Extract(page, semester.Period{Year: 2011, Semester: 1})
	require.ErrorIs(t, err, ErrPageStructure)
}

func TestLocatorByName(t *testing.T) {
	l, err := LocatorByName("")
	require.NoError(t, err)
	require.Equal(t, HeadingLocator{}, l)

	l, err = LocatorByName("styled")
	require.NoError(t, err)
	require.Equal(t, StyledLocator{}, l)

	_, err = LocatorByName("xpath")
	require.Error(t, err)
}
