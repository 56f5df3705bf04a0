// Package storage handles data persistence in JSONL and SQLite formats.
//
// JSONL files under the repository directory are the source of truth;
// the SQLite database is an ephemeral query cache rebuilt from them.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL decodes one value per non-empty line. A missing file reads as empty.
func readJSONL[T any](path, what string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	var items []T
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", what, err)
	}

	return items, nil
}

// writeJSONLine marshals v and writes it followed by a newline.
func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// writeJSONL replaces the file content with one line per item.
func writeJSONL[T any](path, what string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", what, err)
	}
	defer f.Close()

	for i, item := range items {
		if err := writeJSONLine(f, item); err != nil {
			return fmt.Errorf("%s %d: %w", what, i, err)
		}
	}

	return nil
}

// ReadAll reads all citations from a JSONL file.
// Fails fast on a line without an ID.
func ReadAll(path string) ([]citation.Citation, error) {
	cs, err := readJSONL[citation.Citation](path, "citations")
	if err != nil {
		return nil, err
	}
	for i, c := range cs {
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("citation %d (%q) has no id", i+1, c.Title)
		}
	}
	return cs, nil
}

// Append adds a citation to the end of a JSONL file.
func Append(path string, c citation.Citation) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening citations file for append: %w", err)
	}
	defer f.Close()

	if err := writeJSONLine(f, c); err != nil {
		return fmt.Errorf("appending citation %s: %w", c.ID, err)
	}
	return nil
}

// WriteAll writes all citations to a JSONL file, replacing existing content.
func WriteAll(path string, cs []citation.Citation) error {
	return writeJSONL(path, "citations", cs)
}

// FindByID searches for a citation by ID.
func FindByID(cs []citation.Citation, id string) (int, bool) {
	for i, c := range cs {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindByDOI searches for a citation by DOI (case-insensitive).
func FindByDOI(cs []citation.Citation, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, c := range cs {
		if strings.EqualFold(c.DOI, doi) {
			return i, true
		}
	}
	return -1, false
}

// ReadCollections reads all collections from a JSONL file.
func ReadCollections(path string) ([]citation.Collection, error) {
	cols, err := readJSONL[citation.Collection](path, "collections")
	if err != nil {
		return nil, err
	}
	for i, col := range cols {
		if strings.TrimSpace(col.ID) == "" || strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("collection %d is missing an id or name", i+1)
		}
	}
	return cols, nil
}

// WriteCollections writes all collections to a JSONL file, replacing existing content.
func WriteCollections(path string, cols []citation.Collection) error {
	return writeJSONL(path, "collections", cols)
}

// FindCollection searches for a collection by ID or, failing that, by name.
func FindCollection(cols []citation.Collection, idOrName string) (int, bool) {
	for i, col := range cols {
		if col.ID == idOrName {
			return i, true
		}
	}
	for i, col := range cols {
		if strings.EqualFold(col.Name, idOrName) {
			return i, true
		}
	}
	return -1, false
}

// RemoveFromCollections drops a citation ID from every collection.
// Returns the number of collections that changed.
func RemoveFromCollections(cols []citation.Collection, citationID string) int {
	changed := 0
	for i := range cols {
		kept := cols[i].CitationIDs[:0]
		for _, id := range cols[i].CitationIDs {
			if id != citationID {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(cols[i].CitationIDs) {
			changed++
		}
		cols[i].CitationIDs = kept
	}
	return changed
}
