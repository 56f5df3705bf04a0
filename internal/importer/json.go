// Package importer reads citations from external JSON files.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mondocite/mondocite/internal/citation"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(strings.TrimSpace(s))
		return nil
	}

	// Try number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// FlexibleAuthor accepts an author object or a plain name string.
type FlexibleAuthor citation.Author

func (a *FlexibleAuthor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = FlexibleAuthor(citation.ParseName(name))
		return nil
	}

	var obj citation.Author
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("cannot unmarshal %s into an author", string(data))
	}
	*a = FlexibleAuthor(obj)
	return nil
}

// Entry is one citation in an import file. It mirrors the JSON export
// shape but tolerates numbers for numeric-looking fields.
type Entry struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Authors    []FlexibleAuthor `json:"authors"`
	Journal    string           `json:"journal"`
	Source     string           `json:"source"`
	Year       FlexibleString   `json:"year"`
	Volume     FlexibleString   `json:"volume"`
	Issue      FlexibleString   `json:"issue"`
	Pages      FlexibleString   `json:"pages"`
	DOI        string           `json:"doi"`
	URL        string           `json:"url"`
	Type       string           `json:"type"`
	Abstract   string           `json:"abstract"`
	Tags       []citation.Tag   `json:"tags"`
	IsFavorite bool             `json:"isFavorite"`
	CreatedAt  *time.Time       `json:"created_at"`
	UpdatedAt  *time.Time       `json:"updated_at"`
}

// ParseJSON parses a single citation object or an array of them.
// Entries that fail validation are reported individually and skipped.
func ParseJSON(data []byte) ([]citation.Citation, []error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, []error{fmt.Errorf("parsing JSON: empty input")}
	}

	var raw []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, []error{fmt.Errorf("parsing JSON: %w", err)}
		}
	} else {
		raw = []json.RawMessage{data}
	}

	now := time.Now().UTC()
	var cs []citation.Citation
	var errs []error

	for i, msg := range raw {
		var entry Entry
		if err := json.Unmarshal(msg, &entry); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		c, err := entryToCitation(entry, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.ID, err))
			continue
		}
		cs = append(cs, c)
	}

	return cs, errs
}

// entryToCitation validates an entry and fills defaults.
func entryToCitation(entry Entry, now time.Time) (citation.Citation, error) {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return citation.Citation{}, fmt.Errorf("missing required field 'title'")
	}

	var year int
	if y := entry.Year.String(); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 0 {
			return citation.Citation{}, fmt.Errorf("invalid year %q", y)
		}
		year = n
	}

	authors := make([]citation.Author, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, citation.Author(a))
	}

	typ := strings.ToLower(strings.TrimSpace(entry.Type))
	if typ == "" {
		typ = citation.TypeArticle
	}

	tags := entry.Tags
	if tags == nil {
		tags = []citation.Tag{}
	}
	for i := range tags {
		if tags[i].ID == "" {
			tags[i].ID = citation.NewID()
		}
	}

	c := citation.Citation{
		ID:         strings.TrimSpace(entry.ID),
		Title:      title,
		Authors:    authors,
		Journal:    entry.Journal,
		Source:     entry.Source,
		Year:       year,
		Volume:     entry.Volume.String(),
		Issue:      entry.Issue.String(),
		Pages:      entry.Pages.String(),
		DOI:        strings.TrimSpace(entry.DOI),
		URL:        strings.TrimSpace(entry.URL),
		Type:       typ,
		Abstract:   entry.Abstract,
		Tags:       tags,
		IsFavorite: entry.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c.ID == "" {
		c.ID = citation.NewID()
	}
	if entry.CreatedAt != nil {
		c.CreatedAt = entry.CreatedAt.UTC()
	}
	if entry.UpdatedAt != nil {
		c.UpdatedAt = entry.UpdatedAt.UTC()
	}

	return c, nil
}
