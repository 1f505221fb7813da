package results

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func baseline() []Record {
	return []Record{
		NewRecord("COMP2129", "High Distinction", 94),
		NewRecord("MATH2969", "Credit", 74),
		NewRecord("MATH2961", "Distinction", 77),
		NewRecord("PHYS2911", "High Distinction", 88),
	}
}

func TestDiffIdentical(t *testing.T) {
	require.Empty(t, Diff(baseline(), baseline()))
	require.Empty(t, Diff(nil, nil))
}

func TestDiffAppended(t *testing.T) {
	extra := NewRecord("COMP7777", "High Distinction", 89)
	candidate := append(baseline(), extra)
	require.Equal(t, []Record{extra}, Diff(candidate, baseline()))
}

func TestDiffIgnoresUnreleased(t *testing.T) {
	candidate := append(baseline(), Unreleased("INFO2222", "Unavailable"))
	require.Empty(t, Diff(candidate, baseline()))

	candidate = append(candidate, NewRecord("COMP7777", "High Distinction", 89))
	require.Equal(t, []Record{NewRecord("COMP7777", "High Distinction", 89)}, Diff(candidate, baseline()))
}

func TestDiffIsStructural(t *testing.T) {
	// a regraded subject is a different record
	regraded := NewRecord("MATH2969", "Distinction", 75)
	candidate := []Record{baseline()[0], regraded}
	require.Equal(t, []Record{regraded}, Diff(candidate, baseline()))
}

func TestDiffNeverReportsBaselineOnly(t *testing.T) {
	require.Empty(t, Diff(baseline()[:1], baseline()))
	require.Empty(t, Diff(nil, baseline()))
}

func TestDiffKeepsCandidateOrder(t *testing.T) {
	candidate := []Record{
		NewRecord("ZOOL1001", "Pass", 50),
		baseline()[0],
		NewRecord("ACCT1001", "Credit", 65),
	}
	require.Equal(t, []Record{candidate[0], candidate[2]}, Diff(candidate, baseline()))
}

func TestMerge(t *testing.T) {
	old := baseline()[:2]
	fresh := baseline()[2:]
	merged := Merge(old, fresh)
	require.Equal(t, baseline(), merged)

	merged[0] = Record{}
	require.Equal(t, baseline()[0], old[0])
	require.Empty(t, Merge(nil, nil))
}

func TestParseMark(t *testing.T) {
	cases := []struct {
		text     string
		mark     int
		released bool
	}{
		{text: "94.0", mark: 94, released: true},
		{text: " 74.9 ", mark: 74, released: true},
		{text: "100", mark: 100, released: true},
		{text: "0", mark: 0, released: true},
		{text: "", released: false},
		{text: "-", released: false},
		{text: "NaN", released: false},
		{text: "1e30", released: false},
		{text: "-1e30", released: false},
		{text: "1e19", released: false},
	}
	for _, test := range cases {
		mark, released := ParseMark(test.text)
		require.Equal(t, test.released, released, test.text)
		require.Equal(t, test.mark, mark, test.text)
	}
}

func TestRecordString(t *testing.T) {
	require.Equal(t, "COMP2129: High Distinction, 94", NewRecord("COMP2129", "High Distinction", 94).String())
	require.Equal(t, "INFO2222: Unavailable, -", Unreleased("INFO2222", "Unavailable").String())
}
