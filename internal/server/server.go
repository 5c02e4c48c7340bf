// Package server exposes the screening pipeline over HTTP: a streaming
// screen endpoint for full investor lists, a buffered single-investor
// endpoint, and client website analysis. Per-investor failures never surface
// as HTTP errors; the only caller-visible failures are malformed requests
// and, for client analysis, an unreachable website.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/config"
	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/screen"
	"github.com/evolute-hq/invscreen/internal/webtext"
)

// Server wires the screening components behind the HTTP API.
type Server struct {
	screener *screen.Screener
	fetcher  *webtext.Fetcher
	enricher *enrich.Enricher
}

// New creates a Server from its collaborators.
func New(screener *screen.Screener, fetcher *webtext.Fetcher, enricher *enrich.Enricher) *Server {
	return &Server{screener: screener, fetcher: fetcher, enricher: enricher}
}

// Router builds the chi router with CORS and request logging.
func (s *Server) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/screen-stream", s.handleScreenStream)
	r.Post("/api/screen", s.handleScreenOne)
	r.Post("/api/analyze-client", s.handleAnalyzeClient)

	return r
}

// screenRequest is the body of both screening endpoints. The optional
// profile, when supplied by the caller, skips on-demand client profiling.
type screenRequest struct {
	Criteria  model.ClientCriteria  `json:"criteria"`
	Investors []model.InvestorInput `json:"investors"`
	Investor  *model.InvestorInput  `json:"investor,omitempty"`
	Profile   *model.ClientProfile  `json:"clientProfile,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScreenStream runs a full screening run, streaming orchestrator
// events as server-sent "data: <json>" frames.
func (s *Server) handleScreenStream(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateScreen(req, true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := model.EventSinkFunc(func(ev model.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			zap.L().Error("server: marshal event", zap.Error(err))
			return
		}
		w.Write([]byte("data: "))
		w.Write(data)
		w.Write([]byte("\n\n"))
		flusher.Flush()
	})

	s.screener.Run(r.Context(), req.Criteria, req.Investors, req.Profile, sink)
}

// handleScreenOne screens a single investor and returns the buffered result.
func (s *Server) handleScreenOne(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Investor != nil {
		req.Investors = []model.InvestorInput{*req.Investor}
	}
	if msg := validateScreen(req, false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	results, summary := s.screener.Run(r.Context(), req.Criteria, req.Investors[:1], req.Profile, discardSink{})
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  results[0],
		"summary": summary,
	})
}

// analyzeRequest is the body of the client website analysis endpoint.
type analyzeRequest struct {
	Website  string   `json:"website"`
	Keywords []string `json:"keywords,omitempty"`
}

// handleAnalyzeClient fetches the client's site, discovers useful pages, and
// returns the extended profile. Unlike screening, fetch and LLM failures are
// caller-visible here: without a profile the response is useless.
func (s *Server) handleAnalyzeClient(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Website) == "" {
		writeError(w, http.StatusBadRequest, "website is required")
		return
	}

	home, resolvedURL := s.fetcher.Resolve(r.Context(), req.Website)
	if home == nil {
		writeError(w, http.StatusBadGateway, "website could not be fetched")
		return
	}

	texts := []string{"## " + resolvedURL + "\n" + home.Text}
	urls := s.fetcher.DiscoverPages(resolvedURL, home.HTML)
	for _, p := range s.fetcher.FetchAll(r.Context(), urls) {
		if p.URL == resolvedURL {
			continue
		}
		texts = append(texts, "## "+p.URL+"\n"+p.Text)
	}

	profile := s.enricher.ProfileExtended(r.Context(), texts, len(texts), req.Keywords)
	if profile == nil {
		writeError(w, http.StatusBadGateway, "profile could not be generated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile":    profile,
		"simplified": profile.Simplify(),
		"pagesUsed":  len(texts),
	})
}

// validateScreen checks the fields a screening run cannot start without.
func validateScreen(req screenRequest, multi bool) string {
	if strings.TrimSpace(req.Criteria.ClientName) == "" {
		return "criteria.clientName is required"
	}
	if len(req.Investors) == 0 {
		if multi {
			return "investors must not be empty"
		}
		return "investor is required"
	}
	for i, inv := range req.Investors {
		if strings.TrimSpace(inv.Name) == "" {
			return fmt.Sprintf("investors[%d].name is required", i)
		}
	}
	return ""
}

// discardSink drops events for the buffered single-investor endpoint.
type discardSink struct{}

func (discardSink) Emit(model.Event) {}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
