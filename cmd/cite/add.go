package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/config"
	"github.com/mondocite/mondocite/internal/crossref"
	"github.com/mondocite/mondocite/internal/landing"
	"github.com/mondocite/mondocite/internal/pdf"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/spf13/cobra"
)

// addFlags holds the explicit field values given on the command line.
// Non-empty values override looked-up metadata.
type addFlags struct {
	title    string
	authors  []string
	journal  string
	source   string
	year     int
	volume   string
	issue    string
	pages    string
	doi      string
	url      string
	typ      string
	abstract string
	tags     []string
	favorite bool
	pdfPath  string
}

var addOpts addFlags

// lookupTimeout bounds DOI and landing-page lookups.
const lookupTimeout = 30 * time.Second

var errReadPDF = errors.New("reading pdf")

func init() {
	f := addCmd.Flags()
	f.StringVar(&addOpts.title, "title", "", "Title")
	f.StringArrayVarP(&addOpts.authors, "author", "a", nil, `Author as "Last, First" or "First Last" (repeatable, in order)`)
	f.StringVar(&addOpts.journal, "journal", "", "Journal name (articles)")
	f.StringVar(&addOpts.source, "publisher", "", "Publisher (books)")
	f.IntVar(&addOpts.year, "year", 0, "Publication year")
	f.StringVar(&addOpts.volume, "volume", "", "Volume")
	f.StringVar(&addOpts.issue, "issue", "", "Issue")
	f.StringVar(&addOpts.pages, "pages", "", `Pages, e.g. "187-204"`)
	f.StringVar(&addOpts.doi, "doi", "", "DOI; metadata is looked up from CrossRef")
	f.StringVar(&addOpts.url, "url", "", "URL; without --title the page is scraped for citation metadata")
	f.StringVar(&addOpts.typ, "type", "", "Citation type (article, book, ...)")
	f.StringVar(&addOpts.abstract, "abstract", "", "Abstract")
	f.StringArrayVarP(&addOpts.tags, "tag", "t", nil, "Tag (repeatable)")
	f.BoolVar(&addOpts.favorite, "favorite", false, "Mark as favorite")
	f.StringVar(&addOpts.pdfPath, "pdf", "", "PDF file; its DOI (or first-page title) seeds the metadata")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a citation",
	Long: `Add a citation from flags, a DOI, a PDF or a landing page URL.

Lookups run first; explicit flags then override the looked-up fields.

Examples:
  cite add --doi 10.1038/nature12373
  cite add --pdf ~/Downloads/paper.pdf
  cite add --url https://journals.example.org/article/123
  cite add --title "Deep Learning" -a "Smith, John" --journal "J. Test" --year 2023`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
	defer cancel()

	base, err := lookupMetadata(ctx, addOpts)
	if err != nil {
		exitWithLookupError(err)
	}

	c := applyAddFlags(base, addOpts)
	if strings.TrimSpace(c.Title) == "" {
		exitWithError(ExitDataError, "a title is required (use --title, --doi, --pdf or --url)")
	}

	now := time.Now().UTC()
	c.ID = citation.NewID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := storage.Append(config.CitationsPath(repoRoot), c); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	mustRebuild(repoRoot)

	if humanOutput {
		fmt.Printf("Added %s\n", c.ID)
		printCitationDetail(c)
	} else {
		outputJSON(c)
	}
	return nil
}

// lookupMetadata resolves the DOI, PDF or URL given in opts.
// With none of them it returns an empty citation.
func lookupMetadata(ctx context.Context, opts addFlags) (citation.Citation, error) {
	doi := opts.doi

	if doi == "" && opts.pdfPath != "" {
		path := config.ExpandPath(opts.pdfPath)
		found, err := pdf.ExtractDOI(path)
		if err != nil {
			return citation.Citation{}, fmt.Errorf("%w: %v", errReadPDF, err)
		}
		if found == "" {
			title, err := pdf.ExtractTitle(path)
			if err != nil {
				return citation.Citation{}, fmt.Errorf("%w: %v", errReadPDF, err)
			}
			return citation.Citation{Title: title}, nil
		}
		doi = found
	}

	if doi != "" {
		_ = godotenv.Load()
		client := crossref.NewClient(
			crossref.WithMailto(config.GetCrossrefMailto()),
			crossref.WithLogger(newLogger()),
		)
		return client.LookupDOI(ctx, doi)
	}

	if opts.url != "" && opts.title == "" {
		return landing.Fetch(ctx, &http.Client{Timeout: lookupTimeout}, opts.url)
	}

	return citation.Citation{}, nil
}

// exitWithLookupError maps lookup failures to exit codes.
func exitWithLookupError(err error) {
	switch {
	case errors.Is(err, crossref.ErrInvalidDOI):
		exitWithError(ExitDataError, "%v", err)
	case crossref.IsNotFound(err):
		exitWithError(ExitNotFound, "%v", err)
	case errors.Is(err, landing.ErrNoMetadata):
		exitWithError(ExitDataError, "%v (pass --title to add it manually)", err)
	case errors.Is(err, errReadPDF):
		exitWithError(ExitDataError, "%v", err)
	default:
		exitWithError(ExitNetworkError, "lookup failed: %v", err)
	}
}

// applyAddFlags overlays explicit flag values on looked-up metadata.
func applyAddFlags(c citation.Citation, opts addFlags) citation.Citation {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}

	set(&c.Title, opts.title)
	set(&c.Journal, opts.journal)
	set(&c.Source, opts.source)
	set(&c.Volume, opts.volume)
	set(&c.Issue, opts.issue)
	set(&c.Pages, opts.pages)
	set(&c.DOI, opts.doi)
	set(&c.URL, opts.url)
	set(&c.Abstract, opts.abstract)
	set(&c.Type, strings.ToLower(opts.typ))

	if opts.year > 0 {
		c.Year = opts.year
	}

	if len(opts.authors) > 0 {
		c.Authors = make([]citation.Author, 0, len(opts.authors))
		for _, name := range opts.authors {
			if a := citation.ParseName(name); a.FirstName != "" || a.LastName != "" {
				c.Authors = append(c.Authors, a)
			}
		}
	}
	if c.Authors == nil {
		c.Authors = []citation.Author{}
	}

	if c.Tags == nil {
		c.Tags = []citation.Tag{}
	}
	for _, name := range opts.tags {
		name = strings.TrimSpace(name)
		if name != "" && !c.HasTag(name) {
			c.Tags = append(c.Tags, citation.Tag{ID: citation.NewID(), Name: name})
		}
	}

	if opts.favorite {
		c.IsFavorite = true
	}

	if c.Type == "" {
		if c.Source != "" && c.Journal == "" {
			c.Type = citation.TypeBook
		} else {
			c.Type = citation.TypeArticle
		}
	}

	return c
}
