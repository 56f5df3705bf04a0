// Package citation defines the core domain types for bibliographic records.
package citation

import (
	"time"

	"github.com/google/uuid"
)

// Citation types with dedicated publication-detail rules.
// Any other type string is accepted and carried through unchanged.
const (
	TypeArticle = "article"
	TypeBook    = "book"
)

// Citation represents a bibliographic record (paper, book, ...).
//
// Field order is the interchange key order used by JSON export.
// Empty strings and a zero Year mean the field is absent.
type Citation struct {
	// Identity
	ID    string `json:"id"`
	Title string `json:"title"`

	Authors []Author `json:"authors"` // Order is significant

	// Publication details
	Journal string `json:"journal,omitempty"` // Used when Type is "article"
	Source  string `json:"source,omitempty"`  // Publisher/container when Type is "book"
	Year    int    `json:"year,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Issue   string `json:"issue,omitempty"`
	Pages   string `json:"pages,omitempty"`

	// Links
	DOI string `json:"doi,omitempty"`
	URL string `json:"url,omitempty"`

	Type     string `json:"type"`
	Abstract string `json:"abstract,omitempty"`
	Tags     []Tag  `json:"tags"`

	// Ownership and audit
	UserID     string    `json:"user_id,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tag is a user-defined label attached to citations.
type Tag struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

// Collection groups citations under a name. Membership is ordered by insertion.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CitationIDs []string  `json:"citation_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewID mints a random identifier for citations, tags and collections.
func NewID() string {
	return uuid.NewString()
}

// IsArticle reports whether the citation uses journal-article details.
func (c Citation) IsArticle() bool {
	return c.Type == TypeArticle
}

// IsBook reports whether the citation uses book details.
func (c Citation) IsBook() bool {
	return c.Type == TypeBook
}

// HasTag reports whether the citation carries a tag with the given name.
func (c Citation) HasTag(name string) bool {
	for _, t := range c.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Contains reports whether the collection includes the citation ID.
func (c Collection) Contains(id string) bool {
	for _, cid := range c.CitationIDs {
		if cid == id {
			return true
		}
	}
	return false
}
