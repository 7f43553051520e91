package http

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "xlvalidator/internal/errors"
	"xlvalidator/internal/exporter"
	"xlvalidator/internal/timeseries"
	"xlvalidator/pkg/contracts/domain"
)

// SheetGaps runs gap analysis over one sheet of an uploaded data
// workbook and responds with the gap report.
func (h *ValidateHandler) SheetGaps(w http.ResponseWriter, r *http.Request) {
	report, apiErr := h.sheetGapReport(w, r)
	if apiErr != nil {
		renderError(w, r, apiErr)
		return
	}
	render.JSON(w, r, report)
}

// SheetGapsCSV responds with the gap summary for one sheet as a CSV
// download.
func (h *ValidateHandler) SheetGapsCSV(w http.ResponseWriter, r *http.Request) {
	report, apiErr := h.sheetGapReport(w, r)
	if apiErr != nil {
		renderError(w, r, apiErr)
		return
	}

	headers, records := exporter.GapSummaryRecords(report)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "gap_summary_"+report.Sheet+".csv"))

	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(headers); err != nil {
		return
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return
		}
	}
}

// ExportSensors writes per-sensor CSV artifacts for one sheet of an
// uploaded data workbook and responds with the file names written.
// The template upload is optional; without it asset and hierarchy
// metadata falls back to Unknown.
func (h *ValidateHandler) ExportSensors(w http.ResponseWriter, r *http.Request) {
	sheet := chi.URLParam(r, "sheet")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		renderError(w, r, parseFormError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, err := h.loadUpload(r, "data")
	if err != nil {
		renderError(w, r, uploadAPIError("data", err))
		return
	}
	dataTable, ok := data.Sheets[sheet]
	if !ok {
		renderError(w, r, apierrors.ErrSheetNotFound)
		return
	}

	var templateTable domain.Table
	if template, err := h.loadUpload(r, "template"); err == nil {
		templateTable = template.Sheets[sheet]
	}

	writer := exporter.NewCSVWriter(h.cfg.Export.OutputDir, h.logger)
	written, err := exporter.NewSensorExporter(writer, h.cfg.Export, h.logger).
		ExportSheet(sheet, dataTable, templateTable)
	if err != nil {
		renderError(w, r, apierrors.ValidationError("data", err.Error()))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"sheet": sheet,
		"files": written,
	})
}

// sheetGapReport loads the uploaded data workbook and runs gap analysis
// over the named sheet's timestamp column.
func (h *ValidateHandler) sheetGapReport(w http.ResponseWriter, r *http.Request) (domain.GapReport, *apierrors.APIError) {
	sheet := chi.URLParam(r, "sheet")

	tracer := otel.Tracer("validate-handler")
	ctx, span := tracer.Start(r.Context(), "validate_handler.sheet_gaps",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("sheet", sheet)))
	defer span.End()
	r = r.WithContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		span.RecordError(err)
		return domain.GapReport{}, parseFormError(err)
	}
	defer r.MultipartForm.RemoveAll()

	data, err := h.loadUpload(r, "data")
	if err != nil {
		h.logger.Warn("Failed to load data upload", "error", err.Error())
		span.RecordError(err)
		return domain.GapReport{}, uploadAPIError("data", err)
	}
	table, ok := data.Sheets[sheet]
	if !ok {
		return domain.GapReport{}, apierrors.ErrSheetNotFound
	}

	start := h.cfg.Engine.GapStartRow - 1
	column := table.Column(h.cfg.Engine.DateColumnIndex())
	if start >= len(column) {
		return domain.GapReport{Sheet: sheet, Insufficient: true}, nil
	}
	instants := timeseries.ExtractInstants(column[start:])
	report := timeseries.AnalyzeGaps(sheet, instants, h.cfg.Engine.GapOverride(), h.logger)
	span.SetAttributes(attribute.Int("gaps.count", len(report.Gaps)))
	return report, nil
}
