package style

import (
	"strings"
	"testing"

	"github.com/mondocite/mondocite/internal/citation"
)

var (
	smith = citation.Author{FirstName: "John", LastName: "Smith"}
	doe   = citation.Author{FirstName: "Jane", LastName: "Doe"}
	brown = citation.Author{FirstName: "Alice", LastName: "Brown"}
)

func testArticle() citation.Citation {
	return citation.Citation{
		ID:      "c1",
		Title:   "Deep Learning for Citations",
		Authors: []citation.Author{smith},
		Journal: "Journal of Testing",
		Year:    2023,
		Volume:  "12",
		Issue:   "3",
		Pages:   "187-204",
		DOI:     "10.1234/jt.2023.12",
		Type:    citation.TypeArticle,
	}
}

func testBook() citation.Citation {
	return citation.Citation{
		ID:      "b1",
		Title:   "The Art of Citation",
		Authors: []citation.Author{{FirstName: "Maria", LastName: "Garcia"}},
		Source:  "Academic Press",
		Year:    2020,
		Type:    citation.TypeBook,
	}
}

func TestFormat_Article(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{APA, "Smith, J. (2023). Deep Learning for Citations. Journal of Testing, 12(3), 187-204. https://doi.org/10.1234/jt.2023.12"},
		{MLA, `Smith, John. "Deep Learning for Citations." Journal of Testing, vol. 12, no. 3, 2023, pp. 187-204.`},
		{Chicago, `Smith, John. "Deep Learning for Citations." Journal of Testing 12, no. 3 (2023): 187-204.`},
		{Harvard, `Smith, J. (2023) 'Deep Learning for Citations', Journal of Testing, 12(3), pp. 187-204.`},
		{IEEE, `J. Smith, "Deep Learning for Citations," Journal of Testing, vol. 12, no. 3, pp. 187-204, 2023.`},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got := Format(testArticle(), tt.style)
			if got != tt.want {
				t.Errorf("Format(%s) =\n  %q\nwant\n  %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestFormat_Book(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{APA, "Garcia, M. (2020). The Art of Citation. Academic Press."},
		{MLA, `Garcia, Maria. "The Art of Citation." Academic Press, 2020.`},
		{Chicago, `Garcia, Maria. "The Art of Citation." Academic Press, 2020.`},
		{Harvard, `Garcia, M. (2020) 'The Art of Citation', Academic Press.`},
		{IEEE, `M. Garcia, "The Art of Citation," Academic Press, 2020.`},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got := Format(testBook(), tt.style)
			if got != tt.want {
				t.Errorf("Format(%s) =\n  %q\nwant\n  %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestFormat_APAMinimalArticle(t *testing.T) {
	c := citation.Citation{
		Title:   "X",
		Authors: []citation.Author{smith},
		Journal: "J",
		Year:    2023,
		Type:    citation.TypeArticle,
	}

	got := Format(c, APA)
	want := "Smith, J. (2023). X. J."
	if got != want {
		t.Errorf("Format(APA) = %q, want %q", got, want)
	}
}

func TestFormat_APANoDate(t *testing.T) {
	c := testArticle()
	c.Year = 0

	got := Format(c, APA)
	if !strings.Contains(got, "(n.d.).") {
		t.Errorf("Format(APA) without year should contain (n.d.), got %q", got)
	}

	got = Format(c, Harvard)
	if !strings.Contains(got, "(n.d.)") {
		t.Errorf("Format(Harvard) without year should contain (n.d.), got %q", got)
	}
}

func TestFormat_APALinkPreference(t *testing.T) {
	c := testArticle()
	c.URL = "https://example.org/paper"

	got := Format(c, APA)
	if !strings.HasSuffix(got, " https://doi.org/10.1234/jt.2023.12") {
		t.Errorf("DOI should win over URL, got %q", got)
	}
	if strings.Contains(got, "example.org") {
		t.Errorf("URL should be omitted when DOI is present, got %q", got)
	}

	c.DOI = ""
	got = Format(c, APA)
	if !strings.HasSuffix(got, " https://example.org/paper") {
		t.Errorf("URL should be used without DOI, got %q", got)
	}
}

func TestFormat_OnlyAPARendersLinks(t *testing.T) {
	c := testArticle()
	c.URL = "https://example.org/paper"

	for _, s := range []Style{MLA, Chicago, Harvard, IEEE} {
		got := Format(c, s)
		if strings.Contains(got, "doi.org") || strings.Contains(got, "example.org") {
			t.Errorf("Format(%s) should not render links, got %q", s, got)
		}
	}
}

func TestFormat_UnknownStyleFallsBackToAPA(t *testing.T) {
	c := testArticle()
	if got, want := Format(c, Style("vancouver")), Format(c, APA); got != want {
		t.Errorf("Format(unknown) = %q, want APA %q", got, want)
	}
	if got, want := Format(c, Style("")), Format(c, APA); got != want {
		t.Errorf("Format(\"\") = %q, want APA %q", got, want)
	}
}

func TestFormat_UnknownTypeHasNoDetails(t *testing.T) {
	c := testArticle()
	c.Type = "thesis"

	tests := []struct {
		style Style
		want  string
	}{
		{APA, "Smith, J. (2023). Deep Learning for Citations. https://doi.org/10.1234/jt.2023.12"},
		{MLA, `Smith, John. "Deep Learning for Citations."`},
		{Chicago, `Smith, John. "Deep Learning for Citations."`},
		{Harvard, `Smith, J. (2023) 'Deep Learning for Citations'.`},
		{IEEE, `J. Smith, "Deep Learning for Citations."`},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			if got := Format(c, tt.style); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestFormat_EmptyCitation(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{APA, "(n.d.)."},
		{MLA, ""},
		{Chicago, ""},
		{Harvard, "(n.d.)"},
		{IEEE, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			if got := Format(citation.Citation{}, tt.style); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestFormat_MissingFieldsLeaveNoStrayPunctuation(t *testing.T) {
	sparse := citation.Citation{
		Title:   "Sparse Record",
		Authors: []citation.Author{smith},
		Journal: "Journal of Testing",
		Type:    citation.TypeArticle,
	}
	issueNoVolume := citation.Citation{
		Title:   "X",
		Authors: []citation.Author{smith},
		Journal: "J",
		Issue:   "3",
		Pages:   "1-2",
		Year:    2023,
		Type:    citation.TypeArticle,
	}

	tests := []struct {
		name  string
		c     citation.Citation
		style Style
		want  string
	}{
		{"sparse", sparse, APA, "Smith, J. (n.d.). Sparse Record. Journal of Testing."},
		{"sparse", sparse, MLA, `Smith, John. "Sparse Record." Journal of Testing.`},
		{"sparse", sparse, Chicago, `Smith, John. "Sparse Record." Journal of Testing.`},
		{"sparse", sparse, Harvard, `Smith, J. (n.d.) 'Sparse Record', Journal of Testing.`},
		{"sparse", sparse, IEEE, `J. Smith, "Sparse Record," Journal of Testing.`},
		{"issue without volume", issueNoVolume, APA, "Smith, J. (2023). X. J(3), 1-2."},
		{"issue without volume", issueNoVolume, Harvard, "Smith, J. (2023) 'X', J(3), pp. 1-2."},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+string(tt.style), func(t *testing.T) {
			got := Format(tt.c, tt.style)
			if got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.style, got, tt.want)
			}
			for _, bad := range []string{",.", ", .", ":.", " ,", ", (", "..", "()"} {
				if strings.Contains(got, bad) {
					t.Errorf("Format(%s) = %q contains stray %q", tt.style, got, bad)
				}
			}
		})
	}
}

func TestFormat_ChicagoPagesWithoutYear(t *testing.T) {
	c := testArticle()
	c.Year = 0

	got := Format(c, Chicago)
	want := `Smith, John. "Deep Learning for Citations." Journal of Testing 12, no. 3, 187-204.`
	if got != want {
		t.Errorf("Format(Chicago) = %q, want %q", got, want)
	}
}

func TestFormat_TitleEndingInQuestionMark(t *testing.T) {
	c := testArticle()
	c.Title = "Is Citation Hard?"

	got := Format(c, APA)
	if !strings.Contains(got, "Is Citation Hard? Journal") {
		t.Errorf("Format(APA) should not add a period after '?', got %q", got)
	}
}

func TestFormat_CollapsesWhitespace(t *testing.T) {
	c := testArticle()
	c.Title = "  Spaced   Out\tTitle "
	c.Authors = []citation.Author{{FirstName: " ", LastName: "Smith"}}

	got := Format(c, APA)
	if strings.Contains(got, "  ") || strings.Contains(got, "\t") {
		t.Errorf("Format() should collapse whitespace, got %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("Format() should be trimmed, got %q", got)
	}
	if !strings.HasPrefix(got, "Smith (2023). Spaced Out Title.") {
		t.Errorf("Format() = %q, want prefix %q", got, "Smith (2023). Spaced Out Title.")
	}
}

func TestFormat_EtAlTruncation(t *testing.T) {
	c := testArticle()
	c.Authors = []citation.Author{smith, doe, brown}

	for _, s := range []Style{APA, MLA, Chicago, Harvard, IEEE} {
		got := Format(c, s)
		if n := strings.Count(got, "et al."); n != 1 {
			t.Errorf("Format(%s) contains %d \"et al.\", want 1: %q", s, n, got)
		}
		for _, name := range []string{"Doe", "Jane", "Brown", "Alice"} {
			if strings.Contains(got, name) {
				t.Errorf("Format(%s) should omit later author %q: %q", s, name, got)
			}
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Style
	}{
		{"apa", APA},
		{"MLA", MLA},
		{" Chicago ", Chicago},
		{"harvard", Harvard},
		{"IEEE", IEEE},
		{"vancouver", APA},
		{"", APA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.name); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("Harvard") {
		t.Error("IsValid(Harvard) = false, want true")
	}
	if IsValid("vancouver") {
		t.Error("IsValid(vancouver) = true, want false")
	}
}

func TestAvailable(t *testing.T) {
	got := Available()
	want := []Style{APA, MLA, Chicago, Harvard, IEEE}
	if len(got) != len(want) {
		t.Fatalf("Available() returned %d styles, want %d", len(got), len(want))
	}
	for i, s := range want {
		if got[i].ID != s {
			t.Errorf("Available()[%d].ID = %q, want %q", i, got[i].ID, s)
		}
		if got[i].Name == "" {
			t.Errorf("Available()[%d].Name is empty", i)
		}
	}
}

func TestFormat_ConcurrentCallsAgree(t *testing.T) {
	c := testArticle()
	want := Format(c, MLA)

	done := make(chan string, 16)
	for i := 0; i < cap(done); i++ {
		go func() { done <- Format(c, MLA) }()
	}
	for i := 0; i < cap(done); i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent Format() = %q, want %q", got, want)
		}
	}
}

func TestFormat_StyleNameCaseInsensitive(t *testing.T) {
	c := testArticle()
	for _, name := range []Style{"MLA", "Mla", " mla "} {
		if got, want := Format(c, name), Format(c, MLA); got != want {
			t.Errorf("Format(%q) = %q, want %q", name, got, want)
		}
	}
}
