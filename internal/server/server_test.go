package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/crossref"
	"github.com/mondocite/mondocite/internal/logging"
	"github.com/mondocite/mondocite/internal/storage"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	citations []citation.Citation
	cols      []citation.Collection
	lastList  storage.ListFilter
	err       error
}

func (f *fakeStore) GetByID(id string) (*citation.Citation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if i, ok := storage.FindByID(f.citations, id); ok {
		c := f.citations[i]
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) List(filter storage.ListFilter) ([]citation.Citation, error) {
	f.lastList = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []citation.Citation
	for _, c := range f.citations {
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) Search(query string, limit int) ([]citation.Citation, error) {
	var out []citation.Citation
	for _, c := range f.citations {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCollections() ([]citation.Collection, error) {
	return f.cols, f.err
}

type fakeResolver struct {
	c   citation.Citation
	err error
}

func (r fakeResolver) LookupDOI(ctx context.Context, doi string) (citation.Citation, error) {
	return r.c, r.err
}

func testStore() *fakeStore {
	return &fakeStore{
		citations: []citation.Citation{
			{
				ID:      "c1",
				Title:   "Deep Learning for Citations",
				Authors: []citation.Author{{FirstName: "John", LastName: "Smith"}},
				Journal: "Journal of Testing",
				Year:    2023,
				Volume:  "12",
				Issue:   "3",
				Pages:   "187-204",
				DOI:     "10.1234/jt.2023.12",
				Type:    citation.TypeArticle,
				Tags:    []citation.Tag{},
			},
			{ID: "b1", Title: "A Book", Type: citation.TypeBook, Source: "Press", Tags: []citation.Tag{}},
		},
		cols: []citation.Collection{{ID: "col1", Name: "Thesis", CitationIDs: []string{"c1"}}},
	}
}

func newTestServer(store Store, opts ...Option) *httptest.Server {
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return httptest.NewServer(New(store, opts...).Handler())
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", url, err)
	}
	return resp, string(body)
}

func decodeError(t *testing.T, body string) string {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("error body %q is not JSON: %v", body, err)
	}
	return e.Error
}

func TestHealthAndStyles(t *testing.T) {
	srv := newTestServer(testStore())
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/health")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}

	resp, body = get(t, srv.URL+"/api/styles")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("styles status = %d", resp.StatusCode)
	}
	var styles []struct{ ID, Name string }
	if err := json.Unmarshal([]byte(body), &styles); err != nil {
		t.Fatal(err)
	}
	if len(styles) != 5 || styles[0].Name != "APA (7th edition)" {
		t.Errorf("styles = %+v", styles)
	}
}

func TestListCitations(t *testing.T) {
	store := testStore()
	srv := newTestServer(store)
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/citations?type=book&favorites=true&collection=col1&limit=5&year_from=2000")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.StatusCode, body)
	}
	var cs []citation.Citation
	if err := json.Unmarshal([]byte(body), &cs); err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0].ID != "b1" {
		t.Errorf("citations = %+v", cs)
	}
	want := storage.ListFilter{Type: "book", FavoritesOnly: true, CollectionID: "col1", Limit: 5, YearFrom: 2000}
	if store.lastList != want {
		t.Errorf("filter = %+v, want %+v", store.lastList, want)
	}

	_, body = get(t, srv.URL+"/api/citations?q=deep")
	if !strings.Contains(body, `"c1"`) || strings.Contains(body, `"b1"`) {
		t.Errorf("search body = %s", body)
	}

	resp, _ = get(t, srv.URL+"/api/citations?limit=abc")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}
}

func TestListCitations_EmptyIsArray(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	defer srv.Close()

	_, body := get(t, srv.URL+"/api/citations")
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestGetAndFormatCitation(t *testing.T) {
	srv := newTestServer(testStore())
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/citations/c1")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"Deep Learning for Citations"`) {
		t.Errorf("get = %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, srv.URL+"/api/citations/missing")
	if resp.StatusCode != http.StatusNotFound || decodeError(t, body) != "Citation not found" {
		t.Errorf("missing = %d %s", resp.StatusCode, body)
	}

	tests := []struct {
		style string
		want  string
	}{
		{"apa", "Smith, J. (2023). Deep Learning for Citations. Journal of Testing, 12(3), 187-204. https://doi.org/10.1234/jt.2023.12"},
		{"", "Smith, J. (2023). Deep Learning for Citations. Journal of Testing, 12(3), 187-204. https://doi.org/10.1234/jt.2023.12"},
		{"unknown", "Smith, J. (2023). Deep Learning for Citations. Journal of Testing, 12(3), 187-204. https://doi.org/10.1234/jt.2023.12"},
	}
	for _, tt := range tests {
		t.Run("style="+tt.style, func(t *testing.T) {
			_, body := get(t, srv.URL+"/api/citations/c1/format?style="+tt.style)
			var fr FormatResponse
			if err := json.Unmarshal([]byte(body), &fr); err != nil {
				t.Fatal(err)
			}
			if fr.Citation != tt.want || fr.Style != "apa" || fr.ID != "c1" {
				t.Errorf("format = %+v", fr)
			}
		})
	}

	_, body = get(t, srv.URL+"/api/citations/c1/format?style=mla")
	if !strings.Contains(body, `"style":"mla"`) {
		t.Errorf("mla body = %s", body)
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(testStore())
	defer srv.Close()

	tests := []struct {
		query       string
		status      int
		contentType string
		disposition string
		bodyPrefix  string
	}{
		{"id=c1&format=bibtex", 200, "application/x-bibtex", "attachment; filename=citation-c1.bib", "@article{smith2023deep,"},
		{"id=c1&format=ris", 200, "application/x-research-info-systems", "attachment; filename=citation-c1.ris", "TY  - JOUR"},
		{"id=c1&format=csv", 200, "text/csv", "attachment; filename=citation-c1.csv", "Title,Authors,Year,Journal,Volume,Issue,Pages,DOI,URL"},
		{"id=c1&format=json", 200, "application/json", "attachment; filename=citation-c1.json", "{"},
		{"format=bibtex", 400, "application/json", "", `{"error":"Missing required parameters"}`},
		{"id=c1", 400, "application/json", "", `{"error":"Missing required parameters"}`},
		{"id=c1&format=endnote", 400, "application/json", "", `{"error":"Unsupported format"}`},
		{"id=nope&format=bibtex", 404, "application/json", "", `{"error":"Citation not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/api/citations/export?"+tt.query)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := resp.Header.Get("Content-Disposition"); got != tt.disposition {
				t.Errorf("Content-Disposition = %q, want %q", got, tt.disposition)
			}
			if !strings.HasPrefix(body, tt.bodyPrefix) {
				t.Errorf("body = %q, want prefix %q", body, tt.bodyPrefix)
			}
		})
	}
}

func TestListCollections(t *testing.T) {
	srv := newTestServer(testStore())
	defer srv.Close()

	_, body := get(t, srv.URL+"/api/collections")
	if !strings.Contains(body, `"Thesis"`) || !strings.Contains(body, `"citation_ids":["c1"]`) {
		t.Errorf("collections body = %s", body)
	}
}

func TestStoreErrors(t *testing.T) {
	srv := newTestServer(&fakeStore{err: fmt.Errorf("disk on fire")})
	defer srv.Close()

	for _, path := range []string{"/api/citations", "/api/citations/c1", "/api/collections"} {
		resp, body := get(t, srv.URL+path)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, resp.StatusCode)
		}
		if strings.Contains(body, "disk on fire") {
			t.Errorf("%s leaks internal error: %s", path, body)
		}
	}
}

func TestDOI(t *testing.T) {
	found := citation.Citation{Title: "Resolved", Type: citation.TypeArticle}

	tests := []struct {
		name     string
		resolver DOIResolver
		body     string
		status   int
	}{
		{"ok", fakeResolver{c: found}, `{"doi":"10.1234/abc"}`, 200},
		{"not found", fakeResolver{err: crossref.ErrNotFound}, `{"doi":"10.1234/abc"}`, 404},
		{"invalid", fakeResolver{err: crossref.ErrInvalidDOI}, `{"doi":"nope"}`, 400},
		{"upstream", fakeResolver{err: &crossref.APIError{StatusCode: 500}}, `{"doi":"10.1234/abc"}`, 502},
		{"empty doi", fakeResolver{c: found}, `{"doi":""}`, 400},
		{"bad body", fakeResolver{c: found}, `{`, 400},
		{"no resolver", nil, `{"doi":"10.1234/abc"}`, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.resolver != nil {
				opts = append(opts, WithResolver(tt.resolver))
			}
			srv := newTestServer(testStore(), opts...)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/doi", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := New(testStore(), WithLogger(logging.Discard()))

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, _ := get(t, "http://"+ln.Addr().String()+"/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
