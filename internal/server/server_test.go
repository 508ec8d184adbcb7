package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/emi-calculator/internal/export"
	"github.com/iwvelando/emi-calculator/internal/report"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const homeLoanBody = `{"principal": 500000, "annualRatePercent": 8.5, "tenureYears": 20, "profile": "home"}`

type failingTableRenderer struct{}

func (failingTableRenderer) RenderTable(report.Table) ([]byte, error) {
	return nil, errors.New("table plugin missing")
}

// countingImageRenderer counts image renders and blocks until released.
type countingImageRenderer struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	pdf     *report.PDF
}

func (c *countingImageRenderer) RenderImage(img report.Image) ([]byte, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	<-c.release
	return c.pdf.RenderImage(img)
}

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleEMISuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := post(t, handler, "/api/emi", homeLoanBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Payment   float64              `json:"payment"`
		Schedule  []loans.PeriodRecord `json:"schedule"`
		Yearly    []loans.YearlySummary
		Formatted headlineFigures `json:"formatted"`
		Warnings  []string        `json:"warnings"`
		Duration  string          `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.InDelta(t, 4339.116, resp.Payment, 0.001)
	assert.Len(t, resp.Schedule, 240)
	assert.Len(t, resp.Yearly, 20)
	assert.Equal(t, "Rs.4,339", resp.Formatted.Payment)
	assert.Equal(t, "Rs.5,41,388", resp.Formatted.TotalInterest)
	assert.Empty(t, resp.Warnings)
	assert.NotEmpty(t, resp.Duration)
}

func TestHandleEMIInvalidTermsFailSoft(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := post(t, handler, "/api/emi", `{"principal": -5, "annualRatePercent": 8, "tenureYears": 5}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Payment  float64  `json:"payment"`
		Schedule []any    `json:"schedule"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Zero(t, resp.Payment)
	assert.NotNil(t, resp.Schedule)
	assert.Empty(t, resp.Schedule)
	assert.Len(t, resp.Warnings, 1)
}

func TestHandleEMIHugeTenureFailsSoft(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := post(t, handler, "/api/emi", `{"principal": 1, "annualRatePercent": 0, "tenureYears": 1e9}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Payment  float64  `json:"payment"`
		Schedule []any    `json:"schedule"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Zero(t, resp.Payment)
	assert.Empty(t, resp.Schedule)
	assert.Len(t, resp.Warnings, 1)
}

func TestHandleEMIBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.Handler
		body     string
		expected int
	}{
		{"Malformed JSON", NewHandler(nil, Options{}), `{"principal":`, http.StatusBadRequest},
		{"Too large", NewHandler(nil, Options{MaxRequestSize: 16}), homeLoanBody, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, tt.handler, "/api/emi", tt.body)
			assert.Equal(t, tt.expected, rr.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/emi", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleProfiles(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var profiles []loans.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profiles))
	require.Len(t, profiles, 3)
	assert.Equal(t, "car", profiles[0].Name)
	assert.Equal(t, 30.0, profiles[1].TenureYears.Max)
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{Version: " 1.2.3 "})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestHandleExport(t *testing.T) {
	tests := []struct {
		format      string
		filename    string
		contentType string
		prefix      string
	}{
		{constants.ExportFormatTable, constants.DefaultTableFilename, export.ContentTypePDF, "%PDF-"},
		{constants.ExportFormatVisual, constants.DefaultVisualFilename, export.ContentTypePDF, "%PDF-"},
		{constants.ExportFormatCSV, constants.DefaultCSVFilename, export.ContentTypeCSV, "month,emi"},
	}

	handler := NewHandler(zap.NewNop(), Options{})
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rr := post(t, handler, "/api/export/"+tt.format, homeLoanBody)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			assert.Equal(t, tt.contentType, rr.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, rr.Header().Get("Content-Disposition"))
			assert.Equal(t, tt.format, rr.Header().Get("X-Export-Strategy"))
			assert.Empty(t, rr.Header().Get("X-Export-Degraded"))
			assert.True(t, strings.HasPrefix(rr.Body.String(), tt.prefix))
		})
	}
}

func TestHandleExportFallsBackToSummary(t *testing.T) {
	pdf := report.NewPDF()
	handler := NewHandler(zap.NewNop(), Options{
		Renderers: export.Renderers{Table: failingTableRenderer{}, Summary: pdf, Image: pdf},
	})

	rr := post(t, handler, "/api/export/table", homeLoanBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, `attachment; filename="`+constants.DefaultSummaryFilename+`"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "summary", rr.Header().Get("X-Export-Strategy"))
	assert.Equal(t, "true", rr.Header().Get("X-Export-Degraded"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
}

func TestHandleExportUnknownFormat(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	rr := post(t, handler, "/api/export/xlsx", homeLoanBody)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleExportVisualCollapsesOverlap(t *testing.T) {
	pdf := report.NewPDF()
	images := &countingImageRenderer{release: make(chan struct{}), pdf: pdf}
	handler := NewHandler(zap.NewNop(), Options{
		Renderers: export.Renderers{Table: pdf, Summary: pdf, Image: images},
	})

	const requests = 4
	var wg sync.WaitGroup
	codes := make([]int, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = post(t, handler, "/api/export/visual", homeLoanBody).Code
		}(i)
	}

	// Let every request reach the shared capture before releasing it.
	time.Sleep(100 * time.Millisecond)
	close(images.release)
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	images.mu.Lock()
	defer images.mu.Unlock()
	assert.GreaterOrEqual(t, images.calls, 1)
	assert.Less(t, images.calls, requests)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, listener, cfg, NewHandler(nil, Options{Version: "test"}), nil)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + listener.Addr().String() + "/api/version")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
