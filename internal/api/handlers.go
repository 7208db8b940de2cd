package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkristoff/bibliocr/internal/pipeline"
	"github.com/dkristoff/bibliocr/internal/report"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep, err := pipeline.Status(s.cfg.BaseDir)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"pipeline":   rep,
		"ocr_engine": s.engineName,
		"llm_stats":  s.llmStats.Snapshot(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	stem := chi.URLParam(r, "stem")

	models := pipeline.ParseModels(r.URL.Query().Get("models"))
	if len(models) == 0 {
		var err error
		models, err = pipeline.ModelsWithResults(s.cfg.BaseDir)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	cmp, err := report.Compare(s.cfg.BaseDir, s.cfg.GroundTruthDir, stem, s.engineName, models)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := cmp.HTML()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
