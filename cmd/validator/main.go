// Command validator validates one or more data workbooks against a
// template workbook and writes the reports as JSON, with optional gap
// and sensor CSV artifacts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"xlvalidator/internal/config"
	"xlvalidator/internal/engine"
	"xlvalidator/internal/exporter"
	"xlvalidator/internal/infrastructure"
	"xlvalidator/internal/workbook"
	"xlvalidator/pkg/contracts/domain"
)

func main() {
	templatePath := flag.String("template", "", "template workbook (.xlsx)")
	dataGlob := flag.String("data", "", "data workbook path or glob, e.g. 'reports/*.xlsx'")
	configPath := flag.String("config", "", "optional YAML config file")
	outDir := flag.String("out", "", "output directory for reports (defaults to the config export dir)")
	writeGaps := flag.Bool("gaps", false, "also write gap summary and missing-timestamp CSVs")
	exportSheet := flag.String("export-sheet", "", "export per-sensor CSVs for the named sheet")
	flag.Parse()

	if *templatePath == "" || *dataGlob == "" {
		fmt.Fprintln(os.Stderr, "usage: validator -template template.xlsx -data 'data/*.xlsx' [-config config.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	dataPaths, err := filepath.Glob(*dataGlob)
	if err != nil || len(dataPaths) == 0 {
		logger.Error("No data workbooks match pattern", slog.String("pattern", *dataGlob))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loader := workbook.NewLoader(logger)
	template, err := loader.Load(*templatePath)
	if err != nil {
		logger.Error("Failed to load template workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting validation",
		slog.String("template", *templatePath),
		slog.Int("data_files", len(dataPaths)))

	// The engine itself is sequential; independent data files are
	// validated in parallel against the shared read-only template.
	var (
		mu      sync.Mutex
		invalid []string
	)
	var g errgroup.Group
	for _, path := range dataPaths {
		path := path
		g.Go(func() error {
			runLogger := logger.With(slog.String("run_id", uuid.NewString()), slog.String("data", path))

			data, err := loader.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}

			report, err := engine.Run(template, data, cfg.Engine, runLogger)
			if err != nil {
				return err
			}

			reportName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_report.json"
			if err := writeReportJSON(filepath.Join(*outDir, reportName), report); err != nil {
				return err
			}
			runLogger.Info("Report written",
				slog.String("file", reportName),
				slog.Bool("valid", report.Valid))

			writer := exporter.NewCSVWriter(*outDir, runLogger)
			if *writeGaps {
				for _, gapReport := range report.Gaps {
					if gapReport.Insufficient || len(gapReport.Gaps) == 0 {
						continue
					}
					if _, err := exporter.WriteGapArtifacts(writer, gapReport); err != nil {
						return err
					}
				}
			}
			if *exportSheet != "" {
				if err := exportSensors(writer, cfg, *exportSheet, template, data, runLogger); err != nil {
					return err
				}
			}

			if !report.Valid {
				mu.Lock()
				invalid = append(invalid, path)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(invalid) > 0 {
		logger.Error("Validation found issues",
			slog.Int("invalid_files", len(invalid)),
			slog.Any("files", invalid))
		os.Exit(1)
	}
	logger.Info("All data workbooks passed validation", slog.Int("files", len(dataPaths)))
}

func writeReportJSON(path string, report interface{}) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func exportSensors(writer *exporter.CSVWriter, cfg *config.Config, sheet string,
	template, data *domain.Workbook, logger *slog.Logger) error {
	dataTable, ok := data.Sheets[sheet]
	if !ok {
		return fmt.Errorf("sheet %q not found in data workbook", sheet)
	}
	// A sheet absent from the template still exports, with Unknown
	// asset and hierarchy parts.
	templateTable := template.Sheets[sheet]

	_, err := exporter.NewSensorExporter(writer, cfg.Export, logger).ExportSheet(sheet, dataTable, templateTable)
	return err
}
