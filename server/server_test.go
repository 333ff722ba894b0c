package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/painelbi/painelbi/engine"
	"github.com/painelbi/painelbi/history"
	"github.com/painelbi/painelbi/report"
)

// stubAnalyzer returns a canned result with the ingested dataset attached,
// so handler tests never touch the real model.
type stubAnalyzer struct {
	result report.AnalysisResult
	err    error
}

func (a *stubAnalyzer) Analyze(_ context.Context, ds engine.Dataset) (*report.AnalysisResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	res := a.result
	res.Dataset = ds
	return &res, nil
}

func fixtureResult() *report.AnalysisResult {
	return &report.AnalysisResult{
		ReportType: report.ReportSales,
		ReportName: "Vendas por Filial",
		Charts: []engine.ChartSpec{{
			Title:       "Vendas por Região",
			Kind:        engine.KindBar,
			CategoryKey: "Regiao",
			DataKey:     "Valor",
			Data:        []engine.SeriesPoint{{Name: "estático", Value: 1}},
		}},
		Dataset: engine.Dataset{
			Columns: []string{"Data", "Regiao", "Valor"},
			Rows: []engine.Row{
				{"Data": engine.TextCell("01/01/2025"), "Regiao": engine.TextCell("Sul"), "Valor": engine.TextCell("100,00")},
				{"Data": engine.TextCell("15/01/2025"), "Regiao": engine.TextCell("Norte"), "Valor": engine.TextCell("30,00")},
				{"Data": engine.TextCell("10/03/2025"), "Regiao": engine.TextCell("Sul"), "Valor": engine.TextCell("50,00")},
			},
		},
	}
}

func newTestServer(t *testing.T, an *stubAnalyzer) (*Server, *history.Store) {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fixedNow := func() time.Time {
		return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.Local)
	}
	return New(store, an, zap.NewNop()).WithClock(fixedNow), store
}

func uploadRequest(t *testing.T, name, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubAnalyzer{})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCreateAnalysis(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{result: *fixtureResult()})
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "vendas.csv", "Regiao,Valor\nSul,100\nNorte,30\n"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		ID     string                 `json:"id"`
		Result *report.AnalysisResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Vendas por Filial", got.Result.ReportName)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "vendas.csv", items[0].FileName)
}

func TestCreateAnalysisNoFile(t *testing.T) {
	srv, _ := newTestServer(t, &stubAnalyzer{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAnalysisAnalyzerFailure(t *testing.T) {
	srv, _ := newTestServer(t, &stubAnalyzer{err: errors.New("model offline")})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, uploadRequest(t, "vendas.csv", "Regiao,Valor\nSul,100\n"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetAndDelete(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	router := srv.Router()

	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res report.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, report.ReportSales, res.ReportType)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/analyses/"+item.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardExplicitRange(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	url := "/api/analyses/" + item.ID + "/dashboard?start=2025-01-01&end=2025-01-31"
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data engine.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.True(t, data.Filtered)
	assert.Len(t, data.Rows, 2)
	require.Len(t, data.Charts, 1)
	assert.Equal(t, []engine.SeriesPoint{
		{Name: "Sul", Value: 100},
		{Name: "Norte", Value: 30},
	}, data.Charts[0].Data)
}

func TestDashboardPreset(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	// Clock is pinned to 2025-03-15, so the 30-day window starts 2025-02-13
	// and only the March row survives.
	rec := httptest.NewRecorder()
	url := "/api/analyses/" + item.ID + "/dashboard?preset=30d"
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data engine.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.True(t, data.Filtered)
	assert.Len(t, data.Rows, 1)
	assert.Equal(t, []engine.SeriesPoint{{Name: "Sul", Value: 50}}, data.Charts[0].Data)
}

func TestDashboardExplicitRangeOverridesPreset(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	url := "/api/analyses/" + item.ID + "/dashboard?preset=30d&start=2025-01-01&end=2025-01-31"
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data engine.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Len(t, data.Rows, 2)
}

func TestDashboardNoFilterPassesStaticSeries(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID+"/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var data engine.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.False(t, data.Filtered)
	assert.Equal(t, []engine.SeriesPoint{{Name: "estático", Value: 1}}, data.Charts[0].Data)
}

func TestDashboardBadParams(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)
	router := srv.Router()

	for _, query := range []string{"?preset=fortnight", "?start=01/01/2025", "?end=jamais"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID+"/dashboard"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
}

func TestExportRows(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	url := "/api/analyses/" + item.ID + "/export?format=csv&start=2025-01-01&end=2025-01-31"
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dados.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Data,Regiao,Valor", strings.TrimSpace(lines[0]))
}

func TestExportChartSeries(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	url := "/api/analyses/" + item.ID + "/export?chart=0&start=2025-01-01&end=2025-01-31"
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Disposition"), "grafico.csv")
	assert.Contains(t, rec.Body.String(), "Sul,100")
}

func TestExportBadChartIndex(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID+"/export?chart=9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportUnknownFormat(t *testing.T) {
	srv, store := newTestServer(t, &stubAnalyzer{})
	item, err := store.Save(context.Background(), "vendas.xlsx", fixtureResult())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses/"+item.ID+"/export?format=xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
