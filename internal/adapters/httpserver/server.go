package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/induparts/catalog/internal/adapters/export"
	"github.com/induparts/catalog/internal/domain"
	"github.com/induparts/catalog/internal/usecase"
)

type Server struct {
	mux     *http.ServeMux
	schemas *usecase.SchemaUC
	queries *usecase.QueryUC
	compare *usecase.CompareUC
	specs   *usecase.SpecsUC
}

func New(schemas *usecase.SchemaUC, queries *usecase.QueryUC, compare *usecase.CompareUC, specs *usecase.SpecsUC) http.Handler {
	s := &Server{
		mux:     http.NewServeMux(),
		schemas: schemas,
		queries: queries,
		compare: compare,
		specs:   specs,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/categories/", s.handleCategory)
	s.mux.HandleFunc("/api/products/", s.handleProductSpecs)
	s.mux.HandleFunc("/api/compare", s.apiCompare)
	s.mux.HandleFunc("/api/compare.xlsx", s.apiCompareXLSX)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// handleCategory dispatches /api/categories/{id}/filters and
// /api/categories/{id}/products.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		http.Error(w, "path", 404)
		return
	}
	catID, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "category id", 400)
		return
	}
	switch parts[1] {
	case "filters":
		s.apiFilters(w, r, catID)
	case "products":
		s.apiProducts(w, r, catID)
	default:
		http.Error(w, "path", 404)
	}
}

func (s *Server) apiFilters(w http.ResponseWriter, r *http.Request, categoryID uuid.UUID) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	schema, err := s.schemas.Filters(r.Context(), categoryID)
	if err != nil {
		log.Error().Err(err).Str("category", categoryID.String()).Msg("build filter schema")
		http.Error(w, "filters", 500)
		return
	}
	writeJSON(w, 200, schema)
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request, categoryID uuid.UUID) {
	var selected []domain.SelectedFilter
	switch r.Method {
	case http.MethodGet:
		// no filters, plain listing
	case http.MethodPost:
		var req struct {
			Filters []domain.SelectedFilter `json:"filters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		selected = req.Filters
	default:
		http.Error(w, "method", 405)
		return
	}

	qs := r.URL.Query()
	page, _ := strconv.Atoi(qs.Get("page"))
	size, _ := strconv.Atoi(qs.Get("page_size"))
	list, total, err := s.queries.List(r.Context(), &categoryID, selected, qs.Get("sort"), page, size)
	if err != nil {
		log.Error().Err(err).Str("category", categoryID.String()).Msg("filtered listing")
		http.Error(w, "products", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"items": list, "total": total})
}

func (s *Server) handleProductSpecs(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
	slug, ok := strings.CutSuffix(rest, "/specs")
	if !ok || slug == "" || strings.Contains(slug, "/") {
		http.Error(w, "path", 404)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	rows, err := s.specs.Sheet(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product", 404)
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("spec sheet")
		http.Error(w, "specs", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"items": rows})
}

type compareRequest struct {
	ProductIDs []string `json:"product_ids"`
	HideEqual  bool     `json:"hide_equal"`
	HideEmpty  bool     `json:"hide_empty"`
}

func (s *Server) buildMatrix(w http.ResponseWriter, r *http.Request) *domain.CompareMatrix {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return nil
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return nil
	}
	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "product id", 400)
			return nil
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		http.Error(w, "empty", 400)
		return nil
	}
	m, err := s.compare.Build(r.Context(), ids, domain.CompareOptions{HideEqual: req.HideEqual, HideEmpty: req.HideEmpty})
	if err != nil {
		log.Error().Err(err).Msg("compare matrix")
		http.Error(w, "compare", 500)
		return nil
	}
	return m
}

func (s *Server) apiCompare(w http.ResponseWriter, r *http.Request) {
	if m := s.buildMatrix(w, r); m != nil {
		writeJSON(w, 200, m)
	}
}

func (s *Server) apiCompareXLSX(w http.ResponseWriter, r *http.Request) {
	m := s.buildMatrix(w, r)
	if m == nil {
		return
	}
	data, err := export.MatrixXLSX(m)
	if err != nil {
		log.Error().Err(err).Msg("compare export")
		http.Error(w, "export", 500)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="compare.xlsx"`)
	w.WriteHeader(200)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
