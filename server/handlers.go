package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/painelbi/painelbi/engine"
	"github.com/painelbi/painelbi/history"
	"github.com/painelbi/painelbi/ingest"
	"github.com/painelbi/painelbi/report"
)

// maxUploadSize bounds the multipart form held in memory before spilling
// to disk. Spreadsheets beyond this are rejected outright.
const maxUploadSize = 50 << 20

type createResponse struct {
	history.Item
	Result *report.AnalysisResult `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreate ingests an uploaded spreadsheet, runs the AI analysis and
// persists the result.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "arquivo muito grande ou formulário inválido")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "nenhum arquivo enviado")
		return
	}
	defer file.Close()

	ds, err := ingest.Parse(header.Filename, file)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("não foi possível ler a planilha: %v", err))
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), ds)
	if err != nil {
		s.log.Error("analysis failed", zap.String("file", header.Filename), zap.Error(err))
		respondError(w, http.StatusBadGateway, "falha na análise do arquivo")
		return
	}

	item, err := s.store.Save(r.Context(), header.Filename, res)
	if err != nil {
		s.log.Error("save failed", zap.String("file", header.Filename), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "falha ao salvar a análise")
		return
	}

	s.log.Info("analysis stored",
		zap.String("id", item.ID),
		zap.String("file", header.Filename),
		zap.String("reportType", string(res.ReportType)),
	)
	respondJSON(w, http.StatusCreated, createResponse{Item: item, Result: res})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "falha ao listar o histórico")
		return
	}
	if items == nil {
		items = []history.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResult(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	switch err := s.store.Delete(r.Context(), id); {
	case errors.Is(err, history.ErrNotFound):
		respondError(w, http.StatusNotFound, "análise não encontrada")
	case err != nil:
		s.log.Error("delete failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "falha ao excluir a análise")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleDashboard recomputes the stored dashboard under a date filter.
// Explicit start/end bounds take precedence over a preset.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResult(w, r)
	if !ok {
		return
	}

	rng, err := s.rangeFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, engine.Recompute(res.Dataset, res.Charts, rng))
}

// handleExport streams the filtered dataset as CSV. With chart=<index> it
// exports that chart's recomputed series instead.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResult(w, r)
	if !ok {
		return
	}

	if format := r.URL.Query().Get("format"); format != "" && format != "csv" {
		respondError(w, http.StatusBadRequest, "formato não suportado: "+format)
		return
	}

	rng, err := s.rangeFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	data := engine.Recompute(res.Dataset, res.Charts, rng)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")

	if chartParam := r.URL.Query().Get("chart"); chartParam != "" {
		var idx int
		if _, err := fmt.Sscanf(chartParam, "%d", &idx); err != nil || idx < 0 || idx >= len(data.Charts) {
			respondError(w, http.StatusBadRequest, "índice de gráfico inválido: "+chartParam)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="grafico.csv"`)
		if err := report.WriteSeriesCSV(w, data.Charts[idx]); err != nil {
			s.log.Error("export failed", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="dados.csv"`)
	if err := report.WriteRowsCSV(w, res.Dataset.Columns, data.Rows); err != nil {
		s.log.Error("export failed", zap.Error(err))
	}
}

// loadResult fetches the stored analysis addressed by the {id} URL param,
// writing the error response itself when the lookup fails.
func (s *Server) loadResult(w http.ResponseWriter, r *http.Request) (*report.AnalysisResult, bool) {
	id := chi.URLParam(r, "id")
	res, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, history.ErrNotFound):
		respondError(w, http.StatusNotFound, "análise não encontrada")
		return nil, false
	case err != nil:
		s.log.Error("get failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "falha ao carregar a análise")
		return nil, false
	}
	return res, true
}

// rangeFromQuery resolves start/end/preset query params into a DateRange.
func (s *Server) rangeFromQuery(r *http.Request) (engine.DateRange, error) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start != "" || end != "" {
		rng, err := engine.ParseRange(start, end)
		if err != nil {
			return engine.DateRange{}, fmt.Errorf("datas inválidas: use o formato AAAA-MM-DD")
		}
		return rng, nil
	}

	if preset := q.Get("preset"); preset != "" {
		p := engine.Preset(preset)
		if !p.Valid() {
			return engine.DateRange{}, fmt.Errorf("período inválido: %s", preset)
		}
		return engine.ResolvePreset(p, s.now()), nil
	}

	return engine.DateRange{}, nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
