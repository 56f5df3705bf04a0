package landing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mondocite/mondocite/internal/citation"
)

const articlePage = `<!DOCTYPE html>
<html><head>
<title>Ignored page title</title>
<meta name="citation_title" content="Deep Learning for Citations">
<meta name="citation_author" content="Smith, John">
<meta name="citation_author" content="Jane Q. Doe">
<meta name="citation_author" content="">
<meta name="citation_journal_title" content="Journal of Testing">
<meta name="citation_publication_date" content="2023/04/01">
<meta name="citation_volume" content="12">
<meta name="citation_issue" content="3">
<meta name="citation_firstpage" content="187">
<meta name="citation_lastpage" content="204">
<meta name="citation_doi" content="10.1234/jt.2023.12">
<meta name="citation_abstract_html_url" content="https://example.org/abs/12">
</head><body></body></html>`

func TestExtract_Article(t *testing.T) {
	c, err := Extract(strings.NewReader(articlePage), "https://example.org/page")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if c.Title != "Deep Learning for Citations" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Type != citation.TypeArticle || c.Journal != "Journal of Testing" {
		t.Errorf("Type/Journal = %q/%q", c.Type, c.Journal)
	}
	if len(c.Authors) != 2 {
		t.Fatalf("Authors = %+v, want 2", c.Authors)
	}
	if c.Authors[0].LastName != "Smith" || c.Authors[0].FirstName != "John" {
		t.Errorf("Authors[0] = %+v", c.Authors[0])
	}
	if c.Authors[1].LastName != "Doe" || c.Authors[1].FirstName != "Jane Q." {
		t.Errorf("Authors[1] = %+v", c.Authors[1])
	}
	if c.Year != 2023 || c.Volume != "12" || c.Issue != "3" || c.Pages != "187-204" {
		t.Errorf("details = %d %q %q %q", c.Year, c.Volume, c.Issue, c.Pages)
	}
	if c.DOI != "10.1234/jt.2023.12" {
		t.Errorf("DOI = %q", c.DOI)
	}
	if c.URL != "https://example.org/abs/12" {
		t.Errorf("URL = %q", c.URL)
	}
}

func TestExtract_BookWithDublinCore(t *testing.T) {
	page := `<html><head>
<meta name="DC.title" content="Statistical Methods">
<meta name="DC.creator" content="Brown, Bob">
<meta name="DC.date" content="March 2019">
<meta name="citation_publisher" content="Academic Press">
</head></html>`

	c, err := Extract(strings.NewReader(page), "https://example.org/book")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if c.Type != citation.TypeBook || c.Source != "Academic Press" {
		t.Errorf("Type/Source = %q/%q", c.Type, c.Source)
	}
	if c.Year != 2019 {
		t.Errorf("Year = %d, want 2019", c.Year)
	}
	if len(c.Authors) != 1 || c.Authors[0].LastName != "Brown" {
		t.Errorf("Authors = %+v", c.Authors)
	}
	if c.URL != "https://example.org/book" {
		t.Errorf("URL = %q, want the page URL", c.URL)
	}
}

func TestExtract_NoMetadata(t *testing.T) {
	_, err := Extract(strings.NewReader("<html><head><title>Hi</title></head></html>"), "")
	if !errors.Is(err, ErrNoMetadata) {
		t.Errorf("Extract() error = %v, want ErrNoMetadata", err)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	c, err := Fetch(context.Background(), srv.Client(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if c.Title != "Deep Learning for Citations" {
		t.Errorf("Title = %q", c.Title)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Error("Fetch() should fail on 404")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2023/04/01", 2023},
		{"2023-04-01", 2023},
		{"April 1999", 1999},
		{"", 0},
		{"n.d.", 0},
	}
	for _, tt := range tests {
		if got := parseYear(tt.in); got != tt.want {
			t.Errorf("parseYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"187", "204", "187-204"},
		{"e123", "", "e123"},
		{"5", "5", "5"},
		{"", "9", ""},
	}
	for _, tt := range tests {
		if got := joinPages(tt.first, tt.last); got != tt.want {
			t.Errorf("joinPages(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
