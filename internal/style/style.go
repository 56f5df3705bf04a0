// Package style renders citations as prose in academic citation styles.
//
// Every style composes four ordered segments (authors, date, title and
// publication details) and drops empty segments together with their
// separators, so missing optional fields never leave stray punctuation.
// All functions are pure and safe for concurrent use.
package style

import (
	"strconv"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// Style names a set of citation formatting rules.
type Style string

// Supported styles.
const (
	APA     Style = "apa"
	MLA     Style = "mla"
	Chicago Style = "chicago"
	Harvard Style = "harvard"
	IEEE    Style = "ieee"
)

// Default is used for empty or unrecognized style names.
const Default = APA

// Info describes a style for pickers and the styles endpoint.
type Info struct {
	ID   Style  `json:"id"`
	Name string `json:"name"`
}

// Available returns the supported styles in display order.
func Available() []Info {
	return []Info{
		{ID: APA, Name: "APA (7th edition)"},
		{ID: MLA, Name: "MLA (9th edition)"},
		{ID: Chicago, Name: "Chicago (17th edition)"},
		{ID: Harvard, Name: "Harvard"},
		{ID: IEEE, Name: "IEEE"},
	}
}

// formatters maps each style to its formatting function.
var formatters = map[Style]func(citation.Citation) string{
	APA:     formatAPA,
	MLA:     formatMLA,
	Chicago: formatChicago,
	Harvard: formatHarvard,
	IEEE:    formatIEEE,
}

// IsValid reports whether name is a supported style (case-insensitive).
func IsValid(name string) bool {
	_, ok := formatters[Style(strings.ToLower(strings.TrimSpace(name)))]
	return ok
}

// Parse converts a style name to a Style, falling back to Default.
func Parse(name string) Style {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := formatters[s]; ok {
		return s
	}
	return Default
}

// Format renders the citation in the given style.
// Unknown styles are rendered as APA. The result is trimmed with
// whitespace runs collapsed to a single space.
func Format(c citation.Citation, s Style) string {
	fn, ok := formatters[Style(strings.ToLower(strings.TrimSpace(string(s))))]
	if !ok {
		fn = formatters[Default]
	}
	return collapseSpace(fn(c))
}

// formatAPA renders APA 7th edition:
// Author, A., & Author, B. (Year). Title. Journal, volume(issue), pages. https://doi.org/xx
func formatAPA(c citation.Citation) string {
	date := "(n.d.)."
	if c.Year > 0 {
		date = "(" + strconv.Itoa(c.Year) + ")."
	}

	var details string
	switch {
	case c.IsArticle():
		journal, volume := journalVolume(c)
		details = sentence(joinNonEmpty(", ", journal, volume, c.Pages))
	case c.IsBook():
		details = sentence(c.Source)
	}

	return joinNonEmpty(" ",
		FormatAuthors(c.Authors, APA),
		date,
		sentence(c.Title),
		details,
		apaLink(c),
	)
}

// apaLink returns the DOI as a resolver URL, falling back to the plain URL.
func apaLink(c citation.Citation) string {
	doi := strings.TrimSpace(c.DOI)
	if doi != "" {
		if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
			return doi
		}
		return "https://doi.org/" + strings.TrimPrefix(doi, "doi:")
	}
	return strings.TrimSpace(c.URL)
}

// journalVolume returns the journal and "V(I)" segments. Without a volume
// the issue is attached to the journal instead: "J(3)".
func journalVolume(c citation.Citation) (journal, volume string) {
	journal = strings.TrimSpace(c.Journal)
	if strings.TrimSpace(c.Volume) == "" {
		return journal + parenthesize(c.Issue), ""
	}
	return journal, strings.TrimSpace(c.Volume) + parenthesize(c.Issue)
}

// formatMLA renders MLA 9th edition:
// Last, First. "Title." Journal, vol. V, no. I, Year, pp. P.
func formatMLA(c citation.Citation) string {
	var details string
	switch {
	case c.IsArticle():
		details = sentence(joinNonEmpty(", ",
			c.Journal,
			prefixed("vol. ", c.Volume),
			prefixed("no. ", c.Issue),
			yearText(c),
			prefixed("pp. ", c.Pages),
		))
	case c.IsBook():
		details = sentence(joinNonEmpty(", ", c.Source, yearText(c)))
	}

	return joinNonEmpty(" ", FormatAuthors(c.Authors, MLA), quote(sentence(c.Title)), details)
}

// formatChicago renders Chicago 17th edition (notes-bibliography):
// Last, First. "Title." Journal V, no. I (Year): P.
func formatChicago(c citation.Citation) string {
	var details string
	switch {
	case c.IsArticle():
		d := joinNonEmpty(" ", c.Journal, c.Volume)
		d = joinNonEmpty(", ", d, prefixed("no. ", c.Issue))
		if c.Year > 0 {
			d = joinNonEmpty(" ", d, "("+yearText(c)+")")
			if c.Pages != "" {
				d += ": " + c.Pages
			}
		} else {
			d = joinNonEmpty(", ", d, c.Pages)
		}
		details = sentence(d)
	case c.IsBook():
		details = sentence(joinNonEmpty(", ", c.Source, yearText(c)))
	}

	return joinNonEmpty(" ", FormatAuthors(c.Authors, Chicago), quote(sentence(c.Title)), details)
}

// formatHarvard renders Harvard:
// Last, F. and Last, F. (Year) 'Title', Journal, V(I), pp. P.
func formatHarvard(c citation.Citation) string {
	date := "(n.d.)"
	if c.Year > 0 {
		date = "(" + strconv.Itoa(c.Year) + ")"
	}

	var details string
	switch {
	case c.IsArticle():
		journal, volume := journalVolume(c)
		details = sentence(joinNonEmpty(", ", journal, volume, prefixed("pp. ", c.Pages)))
	case c.IsBook():
		details = sentence(c.Source)
	}

	var title string
	if t := strings.TrimSpace(c.Title); t != "" {
		title = "'" + t + "'"
		if details != "" {
			title += ","
		} else {
			title += "."
		}
	}

	return joinNonEmpty(" ", FormatAuthors(c.Authors, Harvard), date, title, details)
}

// formatIEEE renders IEEE:
// F. Last and F. Last, "Title," Journal, vol. V, no. I, pp. P, Year.
func formatIEEE(c citation.Citation) string {
	var details string
	switch {
	case c.IsArticle():
		details = sentence(joinNonEmpty(", ",
			c.Journal,
			prefixed("vol. ", c.Volume),
			prefixed("no. ", c.Issue),
			prefixed("pp. ", c.Pages),
			yearText(c),
		))
	case c.IsBook():
		details = sentence(joinNonEmpty(", ", c.Source, yearText(c)))
	}

	var title string
	if t := strings.TrimSpace(c.Title); t != "" {
		if details != "" {
			title = `"` + t + `,"`
		} else {
			title = quote(sentence(t))
		}
	}

	authors := FormatAuthors(c.Authors, IEEE)
	if authors != "" && (title != "" || details != "") {
		authors += ","
	}

	return joinNonEmpty(" ", authors, title, details)
}

func yearText(c citation.Citation) string {
	if c.Year <= 0 {
		return ""
	}
	return strconv.Itoa(c.Year)
}

// sentence terminates s with a period unless it already ends in
// terminal punctuation. Empty input stays empty.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '?', '!':
		return s
	}
	return s + "."
}

func quote(s string) string {
	if s == "" {
		return ""
	}
	return `"` + s + `"`
}

func parenthesize(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return "(" + s + ")"
}

func prefixed(prefix, s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return prefix + s
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
