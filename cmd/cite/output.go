package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// Constants for output formatting.
const (
	DefaultListLimit = 50 // Default limit for search/list commands

	ListTitleMaxLen   = 50 // Used in list command output
	DetailTitleMaxLen = 70 // Used in get command detail view

	TextWrapWidth       = 60 // Standard text wrap width
	DetailTextWrapWidth = 68 // Wider wrap for detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range strings.Fields(text) {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// formatAuthorsFull formats all authors as "First Last, First Last, ...".
func formatAuthorsFull(authors []citation.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if n := a.FullName(); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// formatAuthorsShort lists last names with "et al." beyond maxCount.
func formatAuthorsShort(authors []citation.Author, maxCount int) string {
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.LastName)
	}
	return strings.Join(names, ", ")
}

// yearLabel renders a year for tables, "n.d." when absent.
func yearLabel(year int) string {
	if year == 0 {
		return "n.d."
	}
	return fmt.Sprint(year)
}

// printCitationRows prints one line per citation.
func printCitationRows(cs []citation.Citation) {
	if len(cs) == 0 {
		fmt.Println("No citations found.")
		return
	}
	for _, c := range cs {
		star := " "
		if c.IsFavorite {
			star = "*"
		}
		fmt.Printf("%s %-36s  %-4s  %-20s  %s\n",
			star, c.ID, yearLabel(c.Year),
			truncateString(formatAuthorsShort(c.Authors, 2), 20),
			truncateString(c.Title, ListTitleMaxLen))
	}
}

// printCitationDetail prints the full record of one citation.
func printCitationDetail(c citation.Citation) {
	fmt.Println(c.ID)
	fmt.Println(strings.Repeat("=", DetailTitleMaxLen))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(c.Title, TextWrapWidth, "          "))
	if len(c.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", wrapText(formatAuthorsFull(c.Authors), TextWrapWidth, "          "))
	}
	fmt.Printf("Type:     %s\n", c.Type)
	if c.Journal != "" {
		fmt.Printf("Journal:  %s\n", c.Journal)
	}
	if c.Source != "" {
		fmt.Printf("Source:   %s\n", c.Source)
	}
	fmt.Printf("Year:     %s\n", yearLabel(c.Year))
	if c.Volume != "" || c.Issue != "" || c.Pages != "" {
		fmt.Printf("Volume:   %s  Issue: %s  Pages: %s\n", c.Volume, c.Issue, c.Pages)
	}
	if c.DOI != "" {
		fmt.Printf("DOI:      %s\n", c.DOI)
	}
	if c.URL != "" {
		fmt.Printf("URL:      %s\n", c.URL)
	}
	if len(c.Tags) > 0 {
		names := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			names[i] = t.Name
		}
		fmt.Printf("Tags:     %s\n", strings.Join(names, ", "))
	}
	if c.IsFavorite {
		fmt.Println("Favorite: yes")
	}

	if c.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(c.Abstract, DetailTextWrapWidth, "  "))
	}
}
