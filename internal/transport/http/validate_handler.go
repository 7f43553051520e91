// Package http exposes the validation engine over HTTP: a client
// uploads a template and a data workbook and receives the full report
// as plain JSON. The handlers hold no validation semantics; they load,
// run and render.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"xlvalidator/internal/config"
	"xlvalidator/internal/engine"
	apierrors "xlvalidator/internal/errors"
	"xlvalidator/internal/infrastructure"
	"xlvalidator/internal/workbook"
	"xlvalidator/pkg/contracts/domain"
)

// ValidateHandler handles workbook validation requests
type ValidateHandler struct {
	cfg    *config.Config
	loader *workbook.Loader
	logger *slog.Logger
}

// NewValidateHandler creates a validation handler
func NewValidateHandler(cfg *config.Config, logger *slog.Logger) *ValidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateHandler{
		cfg:    cfg,
		loader: workbook.NewLoader(logger),
		logger: logger.With(slog.String("component", "validate_handler")),
	}
}

// Routes returns the validation routes
func (h *ValidateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/validate", h.Validate)
	r.Post("/sheets/{sheet}/gaps", h.SheetGaps)
	r.Post("/sheets/{sheet}/gaps.csv", h.SheetGapsCSV)
	r.Post("/sheets/{sheet}/export", h.ExportSensors)
	return r
}

// ValidationResponse wraps one run's report with its run metadata.
// The report itself is a pure artifact of the inputs; the metadata
// belongs to this invocation only.
type ValidationResponse struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Report     *domain.Report `json:"report"`
}

// Validate accepts a multipart upload with "template" and "data"
// workbook files, runs the engine and responds with the report.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	started := time.Now()
	logger := h.logger.With(slog.String("run_id", runID))

	tracer := otel.Tracer("validate-handler")
	ctx, span := tracer.Start(r.Context(), "validate_handler.validate",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()
	r = r.WithContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		renderError(w, r, parseFormError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	template, err := h.loadUpload(r, "template")
	if err != nil {
		logger.Warn("Failed to load template upload", slog.String("error", err.Error()))
		span.RecordError(err)
		renderError(w, r, uploadAPIError("template", err))
		return
	}
	data, err := h.loadUpload(r, "data")
	if err != nil {
		logger.Warn("Failed to load data upload", slog.String("error", err.Error()))
		span.RecordError(err)
		renderError(w, r, uploadAPIError("data", err))
		return
	}

	report, err := engine.Run(template, data, h.cfg.Engine, logger)
	if err != nil {
		span.RecordError(err)
		renderError(w, r, apierrors.ValidationError("config", err.Error()))
		return
	}

	span.SetAttributes(
		attribute.Bool("report.valid", report.Valid),
		attribute.Int("report.sheets", len(report.Data)),
	)
	render.JSON(w, r, ValidationResponse{
		RunID:      runID,
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
		Report:     report,
	})
}

// loadUpload saves one uploaded workbook to a temp file and loads it.
// The loader works from paths, so the upload is staged on disk for the
// duration of the request. An absent form field and a staging failure
// come back as structured API errors so call sites can pass them on.
func (h *ValidateHandler) loadUpload(r *http.Request, field string) (*domain.Workbook, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apierrors.ErrMissingUpload
	}
	defer file.Close()

	path, err := stageUpload(file, header.Filename)
	if err != nil {
		return nil, apierrors.InternalError(err)
	}
	defer os.Remove(path)

	wb, err := h.loader.Load(path)
	if err != nil {
		return nil, err
	}
	wb.Name = header.Filename
	return wb, nil
}

func stageUpload(file multipart.File, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".xlsx"
	}
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}
	defer tmp.Close()

	if _, err := tmp.ReadFrom(file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return tmp.Name(), nil
}

// parseFormError maps a multipart parse failure to its API error. A
// body over the byte limit is its own condition; anything else is a
// malformed request.
func parseFormError(err error) *apierrors.APIError {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return apierrors.ErrUploadTooLarge
	}
	return apierrors.ErrInvalidRequest
}

// uploadAPIError maps a loadUpload failure to its API error. Errors
// that already carry a status pass through; the rest mean the upload
// was present but could not be loaded as a workbook.
func uploadAPIError(role string, err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierrors.InvalidWorkbookError(role, err)
}

func renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}

// NewRouter assembles the full HTTP surface. A nil telemetry disables
// the request instruments and the /metrics route.
func NewRouter(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if telemetry != nil && telemetry.Meter != nil {
		if metrics, err := infrastructure.NewRequestMetrics(telemetry.Meter); err == nil {
			r.Use(requestMetrics(metrics))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	if telemetry != nil && telemetry.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", telemetry.PrometheusHTTP)
	}
	r.Mount("/api", NewValidateHandler(cfg, logger).Routes())
	return r
}

// requestMetrics records one count and one duration sample per request
func requestMetrics(metrics *infrastructure.RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("path", r.URL.Path),
				attribute.Int("status", ww.Status()),
			)
			metrics.RequestsTotal.Add(r.Context(), 1, attrs)
			metrics.RequestDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
		})
	}
}
