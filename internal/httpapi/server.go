// Package httpapi serves the /api/v1 REST surface over any
// regquery.Service. This is the remote form consumed by apiclient.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/regwatch/regwatch-mcp/internal/jurisdiction"
	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
)

const apiVersion = "v1"

type Server struct {
	svc    regquery.Service
	token  string
	log    *slog.Logger
	router chi.Router
}

// NewServer builds the REST server. An empty token disables bearer
// authentication (local development).
func NewServer(svc regquery.Service, token string) *Server {
	s := &Server{
		svc:   svc,
		token: token,
		log:   logger.ForComponent("httpapi"),
	}

	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.requireAuth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/laws", s.handleLaws)
		r.Get("/obligations", s.handleObligations)
		r.Get("/compare", s.handleCompare)
		r.Get("/changes", s.handleChanges)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such resource")
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleLaws(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := regquery.SearchLawsParams{
		Jurisdiction:        q.Get("jurisdiction"),
		Status:              q.Get("status"),
		EffectiveDateAfter:  q.Get("effective_date_after"),
		EffectiveDateBefore: q.Get("effective_date_before"),
		AppliesTo:           q.Get("applies_to"),
		Category:            q.Get("category"),
		Query:               q.Get("query"),
	}

	if params.Status != "" && !lawstore.LawStatus(params.Status).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid status: "+params.Status)
		return
	}
	if params.Category != "" && !lawstore.Category(params.Category).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid category: "+params.Category)
		return
	}

	laws, err := s.svc.SearchLaws(req.Context(), params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, laws, len(laws))
}

func (s *Server) handleObligations(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := regquery.GetObligationsParams{
		LawID:        q.Get("law_id"),
		Jurisdiction: q.Get("jurisdiction"),
		AppliesTo:    q.Get("applies_to"),
		Category:     q.Get("category"),
	}

	if params.Category != "" && !lawstore.Category(params.Category).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid category: "+params.Category)
		return
	}

	obligations, err := s.svc.GetObligations(req.Context(), params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, obligations, len(obligations))
}

func (s *Server) handleCompare(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	var raw []string
	for _, part := range strings.Split(q.Get("jurisdictions"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			raw = append(raw, part)
		}
	}
	codes := jurisdiction.NormalizeAll(raw)
	if len(codes) < 2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"at least two recognized jurisdictions are required")
		return
	}

	params := regquery.CompareJurisdictionsParams{
		Jurisdictions: codes,
		Category:      q.Get("category"),
		AppliesTo:     q.Get("applies_to"),
	}
	if params.Category != "" && !lawstore.Category(params.Category).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid category: "+params.Category)
		return
	}

	comparison, err := s.svc.CompareJurisdictions(req.Context(), params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, comparison, len(comparison))
}

func (s *Server) handleChanges(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := regquery.GetChangesParams{
		Since:      q.Get("since"),
		Until:      q.Get("until"),
		LawID:      q.Get("law_id"),
		ChangeType: q.Get("change_type"),
	}

	if params.ChangeType != "" && !lawstore.ChangeType(params.ChangeType).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid change_type: "+params.ChangeType)
		return
	}

	changes, err := s.svc.GetChanges(req.Context(), params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, changes, len(changes))
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	s.log.Error("query failed", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, req)
			return
		}

		auth := req.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		s.log.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"duration", time.Since(start))
	})
}

type meta struct {
	Count      int    `json:"count"`
	APIVersion string `json:"api_version"`
}

func writeData(w http.ResponseWriter, data any, count int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data": data,
		"meta": meta{Count: count, APIVersion: apiVersion},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}
