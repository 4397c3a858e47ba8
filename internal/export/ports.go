// Package export pushes month snapshots to external spreadsheets.
package export

import (
	"context"

	"caixa/internal/core"
)

// MonthExporter appends one resolved month, with its computed totals, to an
// external sheet. The returned ref identifies where the snapshot landed.
type MonthExporter interface {
	ExportMonth(ctx context.Context, view core.ResolvedMonthView, totals core.Totals) (ref string, err error)
}
