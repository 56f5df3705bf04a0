package export

import (
	"strings"
	"testing"

	"github.com/mondocite/mondocite/internal/citation"
)

func TestToCSV(t *testing.T) {
	got := ToCSV(testArticle())
	want := "Title,Authors,Year,Journal,Volume,Issue,Pages,DOI,URL\n" +
		`Comparative Analysis of Research,"Garcia, Maria; Smith, John",2023,Journal of Testing,12,3,187-204,10.1234/test,https://example.org/x`

	if got != want {
		t.Errorf("ToCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestToCSV_EscapesTitle(t *testing.T) {
	c := testArticle()
	c.Title = `A "Study" of X, Y`

	got := ToCSV(c)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("ToCSV() should have 2 lines, got %d:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], `"A ""Study"" of X, Y",`) {
		t.Errorf("ToCSV() title should be quoted with doubled quotes, got:\n%s", lines[1])
	}
}

func TestToCSV_EscapesJournal(t *testing.T) {
	c := testArticle()
	c.Journal = "Journal of Testing, Series B"

	got := ToCSV(c)
	if !strings.Contains(got, `,"Journal of Testing, Series B",`) {
		t.Errorf("ToCSV() journal with a comma should be quoted, got:\n%s", got)
	}
}

func TestToCSV_EmptyCitation(t *testing.T) {
	got := ToCSV(citation.Citation{})
	want := "Title,Authors,Year,Journal,Volume,Issue,Pages,DOI,URL\n,,,,,,,,"
	if got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestToCSVList(t *testing.T) {
	got := ToCSVList([]citation.Citation{testArticle(), testArticle()})
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("ToCSVList() should have header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != csvHeader {
		t.Errorf("ToCSVList() header = %q, want %q", lines[0], csvHeader)
	}
}

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"  leading space", "  leading space"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeCSVField(tt.input); got != tt.want {
				t.Errorf("escapeCSVField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
