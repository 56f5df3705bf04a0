package export

import (
	"strconv"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// csvHeader is the column layout of CSV exports.
const csvHeader = "Title,Authors,Year,Journal,Volume,Issue,Pages,DOI,URL"

// ToCSV converts a citation to a header row followed by one data row.
func ToCSV(c citation.Citation) string {
	return csvHeader + "\n" + csvRow(c)
}

// ToCSVList converts citations to a single header row followed by one row each.
func ToCSVList(cs []citation.Citation) string {
	rows := make([]string, 0, len(cs)+1)
	rows = append(rows, csvHeader)
	for _, c := range cs {
		rows = append(rows, csvRow(c))
	}
	return strings.Join(rows, "\n")
}

func csvRow(c citation.Citation) string {
	var authors []string
	for _, a := range c.Authors {
		if name := a.LastFirst(); name != "" {
			authors = append(authors, name)
		}
	}

	year := ""
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}

	fields := []string{
		c.Title,
		strings.Join(authors, "; "),
		year,
		c.Journal,
		c.Volume,
		c.Issue,
		c.Pages,
		c.DOI,
		c.URL,
	}
	for i, f := range fields {
		fields[i] = escapeCSVField(f)
	}
	return strings.Join(fields, ",")
}

// escapeCSVField quotes a field containing a comma, double quote or line
// break, doubling any embedded quotes. Other values pass through unchanged.
func escapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
