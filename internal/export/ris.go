package export

import (
	"strconv"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// ToRIS converts a citation to a single RIS record terminated by an ER line.
// Absent fields are omitted entirely.
func ToRIS(c citation.Citation) string {
	var b strings.Builder

	writeTag := func(tag, value string) {
		if value = strings.TrimSpace(value); value != "" {
			b.WriteString(tag + "  - " + value + "\n")
		}
	}

	typeCode := "JOUR"
	if c.IsBook() {
		typeCode = "BOOK"
	}
	writeTag("TY", typeCode)
	writeTag("TI", c.Title)

	// One AU line per author, full list
	for _, a := range c.Authors {
		writeTag("AU", a.LastFirst())
	}

	if c.Year > 0 {
		writeTag("PY", strconv.Itoa(c.Year))
	}
	writeTag("JO", c.Journal)
	if c.IsBook() {
		writeTag("PB", c.Source)
	}
	writeTag("VL", c.Volume)
	writeTag("IS", c.Issue)

	start, end := splitPages(c.Pages)
	writeTag("SP", start)
	writeTag("EP", end)

	writeTag("DO", c.DOI)
	writeTag("UR", c.URL)

	b.WriteString("ER  - \n")

	return b.String()
}

// ToRISList concatenates RIS records for multiple citations.
func ToRISList(cs []citation.Citation) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(ToRIS(c))
	}
	return b.String()
}

// splitPages splits a page range on its first hyphen. A BibTeX-style
// double hyphen ("187--204") counts as one separator. A range without a
// hyphen has no end page.
func splitPages(pages string) (start, end string) {
	start, end, _ = strings.Cut(pages, "-")
	end = strings.TrimLeft(strings.TrimSpace(end), "-")
	return strings.TrimSpace(start), strings.TrimSpace(end)
}
