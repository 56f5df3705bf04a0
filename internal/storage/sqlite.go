package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mondocite/mondocite/internal/citation"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// citationColumns is the standard column list for citation SELECTs.
var citationColumns = []string{
	"id", "title", "journal", "source", "year", "volume", "issue", "pages",
	"doi", "url", "type", "abstract", "user_id", "is_favorite",
	"created_at", "updated_at",
}

// RebuildStats reports what a rebuild loaded.
type RebuildStats struct {
	Citations   int `json:"citations"`
	Collections int `json:"collections"`
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Type          string
	YearFrom      int
	YearTo        int
	FavoritesOnly bool
	CollectionID  string
	Tag           string
	Limit         int
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS citations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			journal TEXT,
			source TEXT,
			year INTEGER,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			doi TEXT,
			url TEXT,
			type TEXT,
			abstract TEXT,
			user_id TEXT,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			created_at TEXT,
			updated_at TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_citations_doi ON citations(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Authors keep their order through position
		CREATE TABLE IF NOT EXISTS citation_authors (
			citation_id TEXT NOT NULL REFERENCES citations(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			first_name TEXT,
			last_name TEXT,
			middle_name TEXT,
			affiliation TEXT,
			PRIMARY KEY (citation_id, position)
		);

		CREATE TABLE IF NOT EXISTS citation_tags (
			citation_id TEXT NOT NULL REFERENCES citations(id) ON DELETE CASCADE,
			tag_id TEXT NOT NULL,
			name TEXT NOT NULL,
			user_id TEXT,
			PRIMARY KEY (citation_id, tag_id)
		);

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at TEXT
		);

		CREATE TABLE IF NOT EXISTS citation_collections (
			citation_id TEXT NOT NULL,
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (citation_id, collection_id)
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS citations_fts USING fts5(
			id,
			title,
			abstract,
			authors_text,
			journal
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and reloads it from the JSONL files.
// Collection members that no longer exist as citations are dropped.
func (d *DB) RebuildFromJSONL(citationsPath, collectionsPath string) (RebuildStats, error) {
	cs, err := ReadAll(citationsPath)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("reading citations: %w", err)
	}
	cols, err := ReadCollections(collectionsPath)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("reading collections: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return RebuildStats{}, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"citation_collections", "collections", "citation_tags", "citation_authors", "citations_fts", "citations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return RebuildStats{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	known := make(map[string]bool, len(cs))
	for _, c := range cs {
		if err := insertCitation(tx, c); err != nil {
			return RebuildStats{}, err
		}
		known[c.ID] = true
	}

	for _, col := range cols {
		if err := insertCollection(tx, col, known); err != nil {
			return RebuildStats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RebuildStats{}, fmt.Errorf("committing rebuild: %w", err)
	}

	return RebuildStats{Citations: len(cs), Collections: len(cols)}, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func execBuilder(e execer, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	_, err = e.Exec(query, args...)
	return err
}

func insertCitation(e execer, c citation.Citation) error {
	err := execBuilder(e, sq.Insert("citations").
		Columns(citationColumns...).
		Values(
			c.ID, c.Title, nullableStringValue(c.Journal), nullableStringValue(c.Source),
			nullableInt(c.Year), nullableStringValue(c.Volume), nullableStringValue(c.Issue),
			nullableStringValue(c.Pages), nullableStringValue(c.DOI), nullableStringValue(c.URL),
			c.Type, nullableStringValue(c.Abstract), nullableStringValue(c.UserID),
			c.IsFavorite, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		))
	if err != nil {
		return fmt.Errorf("inserting citation %s: %w", c.ID, err)
	}

	for i, a := range c.Authors {
		err := execBuilder(e, sq.Insert("citation_authors").
			Columns("citation_id", "position", "first_name", "last_name", "middle_name", "affiliation").
			Values(c.ID, i, a.FirstName, a.LastName, nullableStringValue(a.MiddleName), nullableStringValue(a.Affiliation)))
		if err != nil {
			return fmt.Errorf("inserting author %d of %s: %w", i, c.ID, err)
		}
	}

	for _, t := range c.Tags {
		err := execBuilder(e, sq.Insert("citation_tags").
			Columns("citation_id", "tag_id", "name", "user_id").
			Values(c.ID, t.ID, t.Name, nullableStringValue(t.UserID)))
		if err != nil {
			return fmt.Errorf("inserting tag %s of %s: %w", t.Name, c.ID, err)
		}
	}

	err = execBuilder(e, sq.Insert("citations_fts").
		Columns("id", "title", "abstract", "authors_text", "journal").
		Values(c.ID, c.Title, c.Abstract, formatAuthorsText(c.Authors), c.Journal))
	if err != nil {
		return fmt.Errorf("inserting fts for %s: %w", c.ID, err)
	}

	return nil
}

func insertCollection(e execer, col citation.Collection, known map[string]bool) error {
	err := execBuilder(e, sq.Insert("collections").
		Columns("id", "name", "description", "created_at").
		Values(col.ID, col.Name, nullableStringValue(col.Description), formatTime(col.CreatedAt)))
	if err != nil {
		return fmt.Errorf("inserting collection %s: %w", col.ID, err)
	}

	seen := make(map[string]bool, len(col.CitationIDs))
	for i, id := range col.CitationIDs {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		err := execBuilder(e, sq.Insert("citation_collections").
			Columns("citation_id", "collection_id", "position").
			Values(id, col.ID, i))
		if err != nil {
			return fmt.Errorf("adding %s to collection %s: %w", id, col.ID, err)
		}
	}
	return nil
}

// formatAuthorsText creates a searchable text representation of authors.
func formatAuthorsText(authors []citation.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if n := a.FullName(); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// GetByID retrieves a citation by its ID. Returns nil, nil when absent.
func (d *DB) GetByID(id string) (*citation.Citation, error) {
	cs, err := d.queryCitations(sq.Select(citationColumns...).From("citations").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return &cs[0], nil
}

// GetByIDs retrieves citations in the order of ids, skipping unknown IDs.
func (d *DB) GetByIDs(ids []string) ([]citation.Citation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cs, err := d.queryCitations(sq.Select(citationColumns...).From("citations").Where(sq.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]citation.Citation, len(cs))
	for _, c := range cs {
		byID[c.ID] = c
	}
	ordered := make([]citation.Citation, 0, len(cs))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// List returns citations matching the filter, newest first.
func (d *DB) List(f ListFilter) ([]citation.Citation, error) {
	q := sq.Select(citationColumns...).From("citations")

	if f.Type != "" {
		q = q.Where(sq.Eq{"type": f.Type})
	}
	if f.YearFrom > 0 {
		q = q.Where(sq.GtOrEq{"year": f.YearFrom})
	}
	if f.YearTo > 0 {
		q = q.Where(sq.LtOrEq{"year": f.YearTo})
	}
	if f.FavoritesOnly {
		q = q.Where(sq.Eq{"is_favorite": true})
	}
	if f.CollectionID != "" {
		q = q.Where("id IN (SELECT citation_id FROM citation_collections WHERE collection_id = ?)", f.CollectionID)
	}
	if f.Tag != "" {
		q = q.Where("id IN (SELECT citation_id FROM citation_tags WHERE name = ?)", f.Tag)
	}

	q = q.OrderBy("created_at DESC", "id")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	return d.queryCitations(q)
}

// Search performs a full-text search over title, abstract, authors and journal.
func (d *DB) Search(query string, limit int) ([]citation.Citation, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	q := sq.Select(citationColumns...).From("citations").
		Where("id IN (SELECT id FROM citations_fts WHERE citations_fts MATCH ?)", ftsQuery).
		OrderBy("id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	cs, err := d.queryCitations(q)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	return cs, nil
}

// Count returns the total number of citations.
func (d *DB) Count() (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("citations").ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	err = d.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// ListCollections returns all collections with their ordered member IDs.
func (d *DB) ListCollections() ([]citation.Collection, error) {
	query, args, err := sq.Select("id", "name", "description", "created_at").
		From("collections").OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var cols []citation.Collection
	for rows.Next() {
		var col citation.Collection
		var description, createdAt sql.NullString
		if err := rows.Scan(&col.ID, &col.Name, &description, &createdAt); err != nil {
			return nil, err
		}
		col.Description = description.String
		col.CreatedAt = parseTime(createdAt)
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cols {
		ids, err := d.collectionMembers(cols[i].ID)
		if err != nil {
			return nil, err
		}
		cols[i].CitationIDs = ids
	}
	return cols, nil
}

func (d *DB) collectionMembers(collectionID string) ([]string, error) {
	query, args, err := sq.Select("citation_id").From("citation_collections").
		Where(sq.Eq{"collection_id": collectionID}).OrderBy("position").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", collectionID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// queryCitations runs a citation SELECT and attaches authors and tags.
func (d *DB) queryCitations(b sq.SelectBuilder) ([]citation.Citation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	cs, err := scanCitations(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := d.attachAuthorsAndTags(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (d *DB) attachAuthorsAndTags(cs []citation.Citation) error {
	if len(cs) == 0 {
		return nil
	}

	ids := make([]string, len(cs))
	index := make(map[string]int, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
		index[c.ID] = i
	}

	query, args, err := sq.Select("citation_id", "first_name", "last_name", "middle_name", "affiliation").
		From("citation_authors").Where(sq.Eq{"citation_id": ids}).
		OrderBy("citation_id", "position").ToSql()
	if err != nil {
		return err
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("loading authors: %w", err)
	}
	for rows.Next() {
		var id string
		var first, last, middle, affiliation sql.NullString
		if err := rows.Scan(&id, &first, &last, &middle, &affiliation); err != nil {
			rows.Close()
			return err
		}
		i := index[id]
		cs[i].Authors = append(cs[i].Authors, citation.Author{
			FirstName:   first.String,
			LastName:    last.String,
			MiddleName:  middle.String,
			Affiliation: affiliation.String,
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	query, args, err = sq.Select("citation_id", "tag_id", "name", "user_id").
		From("citation_tags").Where(sq.Eq{"citation_id": ids}).
		OrderBy("citation_id", "name").ToSql()
	if err != nil {
		return err
	}
	rows, err = d.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var t citation.Tag
		var userID sql.NullString
		if err := rows.Scan(&id, &t.ID, &t.Name, &userID); err != nil {
			return err
		}
		t.UserID = userID.String
		i := index[id]
		cs[i].Tags = append(cs[i].Tags, t)
	}
	return rows.Err()
}

func scanCitations(rows *sql.Rows) ([]citation.Citation, error) {
	var cs []citation.Citation
	for rows.Next() {
		var c citation.Citation
		var journal, source, volume, issue, pages, doi, url, typ, abstract, userID sql.NullString
		var createdAt, updatedAt sql.NullString
		var year sql.NullInt64

		err := rows.Scan(
			&c.ID, &c.Title, &journal, &source, &year, &volume, &issue, &pages,
			&doi, &url, &typ, &abstract, &userID, &c.IsFavorite,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}

		c.Journal = journal.String
		c.Source = source.String
		c.Year = int(year.Int64)
		c.Volume = volume.String
		c.Issue = issue.String
		c.Pages = pages.String
		c.DOI = doi.String
		c.URL = url.String
		c.Type = typ.String
		c.Abstract = abstract.String
		c.UserID = userID.String
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)

		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
