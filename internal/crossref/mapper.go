package crossref

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mondocite/mondocite/internal/citation"
)

// bookTypes are CrossRef work types rendered with book rules.
var bookTypes = map[string]bool{
	"book":        true,
	"monograph":   true,
	"edited-book": true,
}

// MapWork converts a CrossRef work to a Citation.
// The ID and timestamps are left for the caller to assign.
func MapWork(w Work) citation.Citation {
	c := citation.Citation{
		Title:    strings.TrimSpace(first(w.Title)),
		Authors:  mapAuthors(w.Author),
		Volume:   w.Volume,
		Issue:    w.Issue,
		Pages:    w.Page,
		DOI:      w.DOI,
		URL:      w.URL,
		Abstract: stripJATS(w.Abstract),
		Tags:     []citation.Tag{},
	}

	c.Year = w.Published.Year()
	if c.Year == 0 {
		c.Year = w.Issued.Year()
	}

	switch {
	case w.Type == "journal-article":
		c.Type = citation.TypeArticle
		c.Journal = first(w.ContainerTitle)
	case bookTypes[w.Type]:
		c.Type = citation.TypeBook
		c.Source = w.Publisher
	case w.Type == "":
		c.Type = citation.TypeArticle
		c.Journal = first(w.ContainerTitle)
	default:
		c.Type = w.Type
		c.Journal = first(w.ContainerTitle)
	}

	return c
}

// mapAuthors converts CrossRef contributors to citation authors.
func mapAuthors(authors []Author) []citation.Author {
	out := make([]citation.Author, 0, len(authors))
	for _, a := range authors {
		ca := citation.Author{
			FirstName: strings.TrimSpace(a.Given),
			LastName:  strings.TrimSpace(a.Family),
		}
		if ca.FirstName == "" && ca.LastName == "" {
			ca.LastName = strings.TrimSpace(a.Name)
		}
		if len(a.Affiliation) > 0 {
			ca.Affiliation = a.Affiliation[0].Name
		}
		out = append(out, ca)
	}
	return out
}

// stripJATS reduces a JATS XML abstract to plain text.
func stripJATS(abstract string) string {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" || !strings.Contains(abstract, "<") {
		return abstract
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(abstract))
	if err != nil {
		return abstract
	}

	// Drop the leading "Abstract" heading CrossRef often includes.
	doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "jats:title"
	}).First().Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
