// Package landing extracts citation metadata from publisher landing pages.
//
// Publishers embed Highwire Press <meta name="citation_*"> tags for
// indexers; Dublin Core tags are used as a fallback for title and authors.
package landing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mondocite/mondocite/internal/citation"
)

// ErrNoMetadata is returned when the page has no citation title.
var ErrNoMetadata = errors.New("no citation metadata found")

// MaxPageSize bounds how much of a landing page is read.
const MaxPageSize = 4 << 20

var yearPattern = regexp.MustCompile(`\b(1[5-9]\d{2}|2\d{3})\b`)

// meta collects <meta name=... content=...> values by lowercased name.
type meta map[string][]string

func (m meta) first(names ...string) string {
	for _, n := range names {
		for _, v := range m[n] {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func (m meta) all(names ...string) []string {
	for _, n := range names {
		var out []string
		for _, v := range m[n] {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Extract parses an HTML landing page into a Citation.
// pageURL is used when the page does not name its own URL.
func Extract(r io.Reader, pageURL string) (citation.Citation, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return citation.Citation{}, fmt.Errorf("parsing html: %w", err)
	}

	m := meta{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			m[name] = append(m[name], content)
		}
	})

	c := citation.Citation{
		Title:    m.first("citation_title", "dc.title"),
		Journal:  m.first("citation_journal_title", "citation_conference_title"),
		Volume:   m.first("citation_volume"),
		Issue:    m.first("citation_issue"),
		DOI:      strings.TrimPrefix(m.first("citation_doi", "dc.identifier"), "doi:"),
		URL:      m.first("citation_abstract_html_url", "citation_public_url"),
		Abstract: m.first("citation_abstract", "dc.description"),
		Tags:     []citation.Tag{},
	}
	if c.Title == "" {
		return citation.Citation{}, ErrNoMetadata
	}
	if c.URL == "" {
		c.URL = pageURL
	}

	for _, name := range m.all("citation_author", "dc.creator") {
		if a := citation.ParseName(name); a.LastName != "" || a.FirstName != "" {
			c.Authors = append(c.Authors, a)
		}
	}

	c.Year = parseYear(m.first("citation_publication_date", "citation_date", "citation_year", "citation_online_date", "dc.date"))
	c.Pages = joinPages(m.first("citation_firstpage"), m.first("citation_lastpage"))

	publisher := m.first("citation_publisher", "dc.publisher")
	if c.Journal == "" && (publisher != "" || m.first("citation_isbn") != "") {
		c.Type = citation.TypeBook
		c.Source = publisher
	} else {
		c.Type = citation.TypeArticle
	}

	return c, nil
}

// Fetch downloads pageURL and extracts its citation metadata.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (citation.Citation, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return citation.Citation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "MondoCite")

	resp, err := client.Do(req)
	if err != nil {
		return citation.Citation{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return citation.Citation{}, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return Extract(io.LimitReader(resp.Body, MaxPageSize), finalURL)
}

// parseYear finds a four-digit year in dates like "2023/04/01" or "April 2023".
func parseYear(s string) int {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

func joinPages(first, last string) string {
	switch {
	case first == "":
		return ""
	case last == "" || last == first:
		return first
	default:
		return first + "-" + last
	}
}
