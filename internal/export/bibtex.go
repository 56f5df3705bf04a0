// Package export serializes citations to exchange formats (BibTeX, RIS, CSV, JSON).
package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mondocite/mondocite/internal/citation"
)

// ToBibTeX converts a citation to a BibTeX entry.
// Fields that are empty on the citation produce no line.
func ToBibTeX(c citation.Citation) string {
	entryType := determineEntryType(c)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, CiteKey(c)))

	writeField := func(name, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, value))
		}
	}

	// Full author list, never truncated
	writeField("author", escapeLatex(formatAuthors(c.Authors)))
	writeField("title", escapeLatex(strings.TrimSpace(c.Title)))
	writeField("journal", escapeLatex(strings.TrimSpace(c.Journal)))
	if entryType == "book" {
		writeField("publisher", escapeLatex(strings.TrimSpace(c.Source)))
	}
	if c.Year > 0 {
		writeField("year", strconv.Itoa(c.Year))
	}
	writeField("volume", strings.TrimSpace(c.Volume))
	writeField("number", strings.TrimSpace(c.Issue))
	writeField("pages", strings.TrimSpace(c.Pages))
	writeField("doi", strings.TrimSpace(c.DOI))
	writeField("url", strings.TrimSpace(c.URL))

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple citations to BibTeX, separated by blank lines.
func ToBibTeXList(cs []citation.Citation) string {
	entries := make([]string, 0, len(cs))
	for _, c := range cs {
		entries = append(entries, ToBibTeX(c))
	}
	return strings.Join(entries, "\n")
}

// determineEntryType returns the BibTeX entry type for a citation.
// Anything that is not a book is exported as an article.
func determineEntryType(c citation.Citation) string {
	if c.IsBook() {
		return "book"
	}
	return "article"
}

// CiteKey derives the BibTeX key from the first author's last name, the
// year and the first word of the title, e.g. "garcia2023comparative".
// Citations without a usable first author use "anonymous"; a missing year
// becomes "nd".
func CiteKey(c citation.Citation) string {
	author := ""
	if len(c.Authors) > 0 {
		author = keyLetters(c.Authors[0].LastName)
	}
	if author == "" {
		author = "anonymous"
	}

	year := "nd"
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}

	return author + year + firstTitleWord(c.Title)
}

// keyLetters lowercases s and keeps only letters and digits so that
// multi-word or punctuated surnames still form a single token.
func keyLetters(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// firstTitleWord returns the first word of the title, lowercased, with
// everything outside [a-z0-9] removed.
func firstTitleWord(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(words[0]) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First".
func formatAuthors(authors []citation.Author) string {
	var formatted []string
	for _, a := range authors {
		if name := a.LastFirst(); name != "" {
			formatted = append(formatted, name)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
