package style

import (
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// authorRules holds the per-style tokens for author lists.
// One author renders as lead+terminal, two as lead+pairSep+follow+terminal,
// more than two as lead+etAlSep+"et al.".
type authorRules struct {
	lead     func(citation.Author) string
	follow   func(citation.Author) string
	pairSep  string
	etAlSep  string
	terminal string
}

var authorRulesByStyle = map[Style]authorRules{
	APA: {
		lead:    lastInitial,
		follow:  lastInitial,
		pairSep: ", & ",
		etAlSep: ", ",
	},
	MLA: {
		lead:     lastFirst,
		follow:   firstLast,
		pairSep:  ", and ",
		etAlSep:  ", ",
		terminal: ".",
	},
	Chicago: {
		lead:     lastFirst,
		follow:   firstLast,
		pairSep:  ", and ",
		etAlSep:  ", ",
		terminal: ".",
	},
	Harvard: {
		lead:    lastInitial,
		follow:  lastInitial,
		pairSep: " and ",
		etAlSep: " ",
	},
	IEEE: {
		lead:    initialLast,
		follow:  initialLast,
		pairSep: " and ",
		etAlSep: " ",
	},
}

// FormatAuthors renders an author list in the given style.
// Authors with neither a first nor a last name are skipped.
// Returns "" for an empty list. Unknown styles use APA rules.
func FormatAuthors(authors []citation.Author, s Style) string {
	rules, ok := authorRulesByStyle[s]
	if !ok {
		rules = authorRulesByStyle[Default]
	}

	named := make([]citation.Author, 0, len(authors))
	for _, a := range authors {
		if strings.TrimSpace(a.FirstName) != "" || strings.TrimSpace(a.LastName) != "" {
			named = append(named, a)
		}
	}

	var out string
	switch len(named) {
	case 0:
		return ""
	case 1:
		out = terminate(rules.lead(named[0]), rules.terminal)
	case 2:
		out = terminate(rules.lead(named[0])+rules.pairSep+rules.follow(named[1]), rules.terminal)
	default:
		out = rules.lead(named[0]) + rules.etAlSep + "et al."
	}
	return collapseSpace(out)
}

// terminate appends term unless s already ends with it.
func terminate(s, term string) string {
	if term == "" || strings.HasSuffix(s, term) {
		return s
	}
	return s + term
}

// lastInitial renders "Last, F.".
func lastInitial(a citation.Author) string {
	return joinNonEmpty(", ", a.LastName, a.Initial())
}

// lastFirst renders "Last, First".
func lastFirst(a citation.Author) string {
	return a.LastFirst()
}

// firstLast renders "First Last".
func firstLast(a citation.Author) string {
	return a.FullName()
}

// initialLast renders "F. Last".
func initialLast(a citation.Author) string {
	return joinNonEmpty(" ", a.Initial(), a.LastName)
}
