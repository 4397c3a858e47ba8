package export

import (
	"context"
	"testing"

	"caixa/internal/core"
)

func TestBuildMonthRow(t *testing.T) {
	view := core.ResolvedMonthView{
		MonthRecord: core.MonthRecord{
			Month:         core.December,
			Year:          2025,
			RevenueTarget: core.NewAmount(30000),
		},
	}
	totals := core.Totals{
		TotalIncomes:          core.NewAmount(10000),
		PendingIncomes:        core.NewAmount(1000),
		AvailableCash:         core.NewAmount(5000),
		LiquidHealthNoReserve: core.NewAmount(6000),
	}

	row := BuildMonthRow(view, totals)

	if len(row) != len(MonthRowHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(MonthRowHeader))
	}
	if row[0] != "2025-12" {
		t.Errorf("row[0] = %v, want 2025-12", row[0])
	}
	if row[1] != 10000.0 {
		t.Errorf("row[1] = %v, want 10000", row[1])
	}
	if row[9] != 30000.0 {
		t.Errorf("row[9] = %v, want 30000", row[9])
	}
}

func TestMemoryExporter(t *testing.T) {
	m := NewMemory()
	view := core.ResolvedMonthView{MonthRecord: core.MonthRecord{Month: core.June, Year: 2025}}

	ref, err := m.ExportMonth(context.Background(), view, core.Totals{})
	if err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}
	if rows := m.Rows(); len(rows) != 1 || rows[0][0] != "2025-06" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
