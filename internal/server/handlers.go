package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/crossref"
	"github.com/mondocite/mondocite/internal/export"
	"github.com/mondocite/mondocite/internal/storage"
	"github.com/mondocite/mondocite/internal/style"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatResponse is the reply of GET /api/citations/{id}/format.
type FormatResponse struct {
	ID       string      `json:"id"`
	Style    style.Style `json:"style"`
	Citation string      `json:"citation"`
}

// DOIRequest is the body of POST /api/doi.
type DOIRequest struct {
	DOI string `json:"doi"`
}

// maxBodySize bounds request bodies.
const maxBodySize = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, style.Available())
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, export.Formats())
}

// handleListCitations serves GET /api/citations.
// Query params: q, type, favorites, collection, tag, year_from, year_to, limit.
func (s *Server) handleListCitations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	var cs []citation.Citation
	if query := strings.TrimSpace(q.Get("q")); query != "" {
		cs, err = s.store.Search(query, limit)
	} else {
		f := storage.ListFilter{
			Type:          q.Get("type"),
			FavoritesOnly: q.Get("favorites") == "true" || q.Get("favorites") == "1",
			CollectionID:  q.Get("collection"),
			Tag:           q.Get("tag"),
			Limit:         limit,
		}
		if f.YearFrom, err = intParam(q.Get("year_from")); err != nil {
			writeError(w, http.StatusBadRequest, "invalid year_from")
			return
		}
		if f.YearTo, err = intParam(q.Get("year_to")); err != nil {
			writeError(w, http.StatusBadRequest, "invalid year_to")
			return
		}
		cs, err = s.store.List(f)
	}
	if err != nil {
		s.logger.Error("listing citations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list citations")
		return
	}

	if cs == nil {
		cs = []citation.Citation{}
	}
	writeJSON(w, http.StatusOK, cs)
}

// lookup fetches a citation, writing a 404 or 500 reply on failure.
func (s *Server) lookup(w http.ResponseWriter, id string) (*citation.Citation, bool) {
	c, err := s.store.GetByID(id)
	if err != nil {
		s.logger.Error("getting citation", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get citation")
		return nil, false
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Citation not found")
		return nil, false
	}
	return c, true
}

func (s *Server) handleGetCitation(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleFormatCitation(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}

	st := style.Parse(r.URL.Query().Get("style"))
	writeJSON(w, http.StatusOK, FormatResponse{
		ID:       c.ID,
		Style:    st,
		Citation: style.Format(*c, st),
	})
}

// handleExport serves GET /api/citations/export?id=&format= as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := strings.TrimSpace(q.Get("id"))
	formatName := strings.TrimSpace(q.Get("format"))
	if id == "" || formatName == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	f, err := export.ParseFormat(formatName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported format")
		return
	}

	c, ok := s.lookup(w, id)
	if !ok {
		return
	}

	body, err := export.Render(*c, f)
	if err != nil {
		s.logger.Error("exporting citation", "id", id, "format", f, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export citation")
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", f.ContentDisposition(c.ID))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.store.ListCollections()
	if err != nil {
		s.logger.Error("listing collections", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}
	if cols == nil {
		cols = []citation.Collection{}
	}
	writeJSON(w, http.StatusOK, cols)
}

// handleDOI serves POST /api/doi by asking the resolver for metadata.
func (s *Server) handleDOI(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "DOI lookup not configured")
		return
	}

	var req DOIRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.DOI) == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	c, err := s.resolver.LookupDOI(r.Context(), req.DOI)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, c)
	case errors.Is(err, crossref.ErrInvalidDOI):
		writeError(w, http.StatusBadRequest, "Invalid DOI")
	case crossref.IsNotFound(err):
		writeError(w, http.StatusNotFound, "DOI not found")
	default:
		s.logger.Warn("DOI lookup failed", "doi", req.DOI, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch citation data")
	}
}

// intParam parses an optional non-negative integer query parameter.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}
