package services

import (
	"context"
	"fmt"

	"caixa/internal/core"
	"caixa/internal/export"
	"caixa/internal/log"
)

// ExportService appends resolved month snapshots to the configured
// spreadsheet, the accountant-handoff path.
type ExportService struct {
	months   *MonthService
	exporter export.MonthExporter
	logger   *log.Logger
}

func NewExportService(months *MonthService, exporter export.MonthExporter, logger *log.Logger) *ExportService {
	return &ExportService{
		months:   months,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentExport),
	}
}

// ExportMonth resolves the month and appends its snapshot row.
func (s *ExportService) ExportMonth(ctx context.Context, userID string, year int, month core.Month) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}

	view, err := s.months.ResolvedView(ctx, userID, year, month)
	if err != nil {
		return "", fmt.Errorf("resolve month: %w", err)
	}

	ref, err := s.exporter.ExportMonth(ctx, view.ResolvedMonthView, view.Totals)
	if err != nil {
		return "", fmt.Errorf("export month: %w", err)
	}

	s.logger.InfoContext(ctx, "Month exported",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpExport,
		log.FieldMonthKey, core.MonthKey(year, month),
		"ref", ref)

	return ref, nil
}
