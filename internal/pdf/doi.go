// Package pdf pulls citation hints out of PDF files.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ScanPages is how many leading pages are searched for a DOI.
const ScanPages = 3

// DOI pattern: 10.XXXX/... where XXXX is 4-9 digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// pageTexts returns the plain text of the first n pages.
// Pages that cannot be decoded come back empty.
func pageTexts(filePath string, n int) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	if n <= 0 || n > r.NumPage() {
		n = r.NumPage()
	}

	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// ExtractDOI searches the first pages of a PDF for a DOI.
// Returns "" with a nil error when the file has none.
func ExtractDOI(filePath string) (string, error) {
	texts, err := pageTexts(filePath, ScanPages)
	if err != nil {
		return "", err
	}
	for _, text := range texts {
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

// ExtractTitle guesses the title as the first substantial line of page one.
// Used when a PDF carries no DOI to look up.
func ExtractTitle(filePath string) (string, error) {
	texts, err := pageTexts(filePath, 1)
	if err != nil {
		return "", err
	}
	if len(texts) == 0 {
		return "", nil
	}
	return findTitle(texts[0]), nil
}

func findTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// findDOI returns the first well-formed DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}

// isHeaderLine checks if a line is likely a running header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "copyright"), strings.Contains(lower, "doi.org"):
		return true
	case strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
