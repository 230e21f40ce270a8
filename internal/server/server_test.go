package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashcopilot-dev/cashcopilot/internal/analysis"
)

func newTestServer() http.Handler {
	return New(zerolog.New(io.Discard))
}

func multipartLedger(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("ledger", "transactions.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAnalyze_SampleLedger(t *testing.T) {
	data, err := os.ReadFile("../../testdata/sample_transactions.csv")
	require.NoError(t, err)

	body, contentType := multipartLedger(t, string(data))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze?reduce_ads_percent=20", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Categorized, 28)
	assert.NotEmpty(t, report.Recurring)
	assert.Len(t, report.Forecast.Projection, 60)
	assert.NotEmpty(t, report.Insights)

	// The ads scenario shows up in the adjusted table only.
	for _, r := range report.Adjusted {
		if r.Description == "GOOGLE ADS 4471662291" {
			assert.Equal(t, "-760", r.AvgAmount.String())
		}
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("horizon_days", "60"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger file is required")
}

func TestAnalyze_MissingColumn(t *testing.T) {
	body, contentType := multipartLedger(t, "date,description\n2025-01-05,NO AMOUNT\n")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount")
}

func TestAnalyze_InvalidKnob(t *testing.T) {
	body, contentType := multipartLedger(t, "date,description,amount\n2025-01-05,X,-1.00\n")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze?reduce_ads_percent=81", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
