package export

import (
	"context"
	"fmt"
	"sync"

	"caixa/internal/core"
)

// Memory is an in-process exporter used when no spreadsheet is configured
// and by tests. Rows accumulate in order of export.
type Memory struct {
	mu   sync.Mutex
	rows [][]any
}

var _ MonthExporter = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ExportMonth(_ context.Context, view core.ResolvedMonthView, totals core.Totals) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, BuildMonthRow(view, totals))
	return fmt.Sprintf("mem:%d", len(m.rows)), nil
}

// Rows returns a copy of the exported rows.
func (m *Memory) Rows() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]any, len(m.rows))
	copy(out, m.rows)
	return out
}
