package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// Format names an exchange format.
type Format string

// Supported exchange formats.
const (
	BibTeX Format = "bibtex"
	RIS    Format = "ris"
	JSON   Format = "json"
	CSV    Format = "csv"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unsupported export format")

type formatInfo struct {
	contentType string
	extension   string
}

var formats = map[Format]formatInfo{
	BibTeX: {contentType: "application/x-bibtex", extension: "bib"},
	RIS:    {contentType: "application/x-research-info-systems", extension: "ris"},
	JSON:   {contentType: "application/json", extension: "json"},
	CSV:    {contentType: "text/csv", extension: "csv"},
}

// Formats returns the supported formats in display order.
func Formats() []Format {
	return []Format{BibTeX, RIS, JSON, CSV}
}

// ParseFormat converts a format name (or the "bib" alias) to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "bib" {
		return BibTeX, nil
	}
	f := Format(name)
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// ContentType returns the MIME type used when downloading the format.
func (f Format) ContentType() string {
	return formats[f].contentType
}

// Extension returns the file extension (without dot) for the format.
func (f Format) Extension() string {
	return formats[f].extension
}

// Filename returns the download file name for a citation ID, e.g. "citation-42.bib".
func (f Format) Filename(id string) string {
	return fmt.Sprintf("citation-%s.%s", id, f.Extension())
}

// ContentDisposition returns the attachment header value for a citation ID.
func (f Format) ContentDisposition(id string) string {
	return "attachment; filename=" + f.Filename(id)
}

// Render serializes one citation in the given format.
func Render(c citation.Citation, f Format) (string, error) {
	switch f {
	case BibTeX:
		return ToBibTeX(c), nil
	case RIS:
		return ToRIS(c), nil
	case JSON:
		return ToJSON(c)
	case CSV:
		return ToCSV(c), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// RenderList serializes several citations into one document in the given format.
func RenderList(cs []citation.Citation, f Format) (string, error) {
	switch f {
	case BibTeX:
		return ToBibTeXList(cs), nil
	case RIS:
		return ToRISList(cs), nil
	case JSON:
		return ToJSONList(cs)
	case CSV:
		return ToCSVList(cs), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
