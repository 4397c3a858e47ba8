package services

import (
	"context"
	"testing"

	"caixa/internal/core"
	"caixa/internal/export"
	"caixa/internal/store/memory"
)

func TestExportService_ExportMonth(t *testing.T) {
	st := memory.New()
	seedHealthyJune(t, st, "user-1")

	months := newMonthService(st)
	exporter := export.NewMemory()
	svc := NewExportService(months, exporter, testLogger())

	ref, err := svc.ExportMonth(context.Background(), "user-1", 2025, core.June)
	if err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][0] != "2025-06" {
		t.Errorf("row key = %v, want 2025-06", rows[0][0])
	}
	// Income 10000 flows into the second column.
	if rows[0][1] != 10000.0 {
		t.Errorf("row income = %v, want 10000", rows[0][1])
	}
}

func TestExportService_NoExporter(t *testing.T) {
	months := newMonthService(memory.New())
	svc := NewExportService(months, nil, testLogger())

	if _, err := svc.ExportMonth(context.Background(), "user-1", 2025, core.June); err == nil {
		t.Error("ExportMonth() should fail when no exporter is configured")
	}
}
