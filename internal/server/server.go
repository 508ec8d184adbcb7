// Package server exposes the EMI computation and schedule exports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/emi-calculator/internal/capture"
	"github.com/iwvelando/emi-calculator/internal/export"
	"github.com/iwvelando/emi-calculator/internal/report"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/iwvelando/emi-calculator/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures the handler.
type Options struct {
	MaxRequestSize  int64
	Version         string
	Formatter       format.Formatter
	ExportPrecision int
	Renderers       export.Renderers
}

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	formatter      format.Formatter
	precision      int
	calculator     *loans.Calculator
	exporter       *export.Exporter
	captures       singleflight.Group
}

// NewHandler constructs the HTTP handler that serves the EMI and export API.
// A zero Formatter uses the display defaults and nil renderers use PDF.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Formatter == (format.Formatter{}) {
		opts.Formatter = format.Default()
	}
	if opts.Renderers.Table == nil && opts.Renderers.Summary == nil && opts.Renderers.Image == nil {
		opts.Renderers = export.PDFRenderers(report.NewPDF())
	}

	h := &handler{
		logger:         logger,
		maxRequestSize: opts.MaxRequestSize,
		version:        trimmedVersion,
		formatter:      opts.Formatter,
		precision:      opts.ExportPrecision,
		calculator:     loans.NewCalculator(logger),
		// Artifacts are delivered per response, not by the exporter.
		exporter: export.NewExporter(opts.Renderers, nil, logger),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/emi", h.handleEMI).Methods(http.MethodPost)
	api.HandleFunc("/profiles", h.handleProfiles).Methods(http.MethodGet)
	api.HandleFunc("/export/{format}", h.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	return r
}

type emiRequest struct {
	loans.LoanTerms
	Profile string `json:"profile,omitempty"`
}

type headlineFigures struct {
	Payment       string `json:"payment"`
	TotalPayment  string `json:"totalPayment"`
	TotalInterest string `json:"totalInterest"`
}

type emiResponse struct {
	loans.Result
	Formatted headlineFigures `json:"formatted"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

func (h *handler) decodeTerms(w http.ResponseWriter, r *http.Request, op string) (emiRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req emiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return emiRequest{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan terms: %v", err), op)
		return emiRequest{}, false
	}
	return req, true
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeTerms(w, r, "server.handleEMI")
	if !ok {
		return
	}

	result := h.calculator.ComputeAll(req.LoanTerms)
	h.writeJSON(w, http.StatusOK, emiResponse{
		Result: result,
		Formatted: headlineFigures{
			Payment:       h.formatter.Currency(result.Payment),
			TotalPayment:  h.formatter.Currency(result.TotalPayment),
			TotalInterest: h.formatter.Currency(result.TotalInterest),
		},
		Warnings: validation.ValidateLoanTerms(req.Profile, req.LoanTerms),
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	names := loans.ProfileNames()
	profiles := make([]loans.Profile, 0, len(names))
	for _, name := range names {
		profile, _ := loans.LookupProfile(name)
		profiles = append(profiles, profile)
	}
	h.writeJSON(w, http.StatusOK, profiles)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	exportFormat := mux.Vars(r)["format"]
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	terms, ok := h.decodeTerms(w, r, op)
	if !ok {
		return
	}

	req := export.NewRequest(h.calculator.ComputeAll(terms.LoanTerms))
	req.Formatter = h.formatter
	req.Precision = h.precision

	var (
		artifact export.Artifact
		err      error
	)
	if exportFormat == constants.ExportFormatVisual {
		artifact, err = h.exportVisual(r.Context(), req)
	} else {
		artifact, err = h.exporter.Export(r.Context(), exportFormat, req)
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("export failed: %v", err), op)
		return
	}

	if err := (AttachmentDeliverer{W: w}).Deliver(r.Context(), artifact); err != nil {
		h.logger.Warn("failed to deliver export",
			zap.String("op", op),
			zap.String("id", req.ID.String()),
			zap.String("filename", artifact.Filename),
			zap.Error(err),
		)
	}
}

// exportVisual collapses overlapping captures of the same chart into one.
func (h *handler) exportVisual(ctx context.Context, req export.Request) (export.Artifact, error) {
	region := capture.NewChartRegion(req.Result)
	req.Region = region

	v, err, shared := h.captures.Do(region.Key(), func() (interface{}, error) {
		return h.exporter.ExportVisual(ctx, req)
	})
	if shared {
		h.logger.Debug("visual export shared with concurrent request",
			zap.String("op", "server.exportVisual"),
			zap.String("region", region.Key()),
		)
	}
	if err != nil {
		return export.Artifact{}, err
	}
	return v.(export.Artifact), nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Warn("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// AttachmentDeliverer writes an artifact as a file download response.
type AttachmentDeliverer struct {
	W http.ResponseWriter
}

// Deliver implements export.Deliverer.
func (d AttachmentDeliverer) Deliver(ctx context.Context, artifact export.Artifact) error {
	header := d.W.Header()
	header.Set("Content-Type", artifact.ContentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	header.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	header.Set("X-Export-Strategy", artifact.Strategy)
	if artifact.Degraded {
		header.Set("X-Export-Degraded", "true")
	}
	d.W.WriteHeader(http.StatusOK)
	if _, err := d.W.Write(artifact.Data); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.Filename, err)
	}
	return nil
}
