package citation

import (
	"strings"
	"unicode/utf8"
)

// Author represents a citation author.
// FirstName and LastName may be empty; formatting degrades instead of failing.
type Author struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	MiddleName  string `json:"middleName,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// Initial returns the first letter of the first name followed by a period,
// or "" when there is no first name.
func (a Author) Initial() string {
	first := strings.TrimSpace(a.FirstName)
	if first == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(first)
	return string(r) + "."
}

// LastFirst formats the author as "Last, First", or just "Last" without a first name.
func (a Author) LastFirst() string {
	last := strings.TrimSpace(a.LastName)
	first := strings.TrimSpace(a.FirstName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return last + ", " + first
}

// FullName formats the author as "First Last".
func (a Author) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// ParseName splits a display name into an Author.
// Accepts "Last, First" and "First Middle Last"; a lone word becomes the last name.
func ParseName(name string) Author {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}
	}

	if last, first, ok := strings.Cut(name, ","); ok {
		return Author{
			FirstName: strings.TrimSpace(first),
			LastName:  strings.TrimSpace(last),
		}
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return Author{LastName: parts[0]}
	}
	return Author{
		FirstName: strings.Join(parts[:len(parts)-1], " "),
		LastName:  parts[len(parts)-1],
	}
}
