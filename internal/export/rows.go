package export

import (
	"caixa/internal/core"
)

// MonthRowHeader is the column layout of exported month snapshots.
var MonthRowHeader = []any{
	"Mês", "Receita total", "Receitas pendentes",
	"Despesas (transações)", "Dívida de cartões", "Saídas pendentes",
	"Caixa disponível", "Reserva", "Saúde líquida", "Meta de receita",
}

// BuildMonthRow flattens a resolved month and its totals into one sheet row.
// Amounts are exported as floats so the spreadsheet can aggregate them.
func BuildMonthRow(view core.ResolvedMonthView, totals core.Totals) []any {
	return []any{
		view.Key(),
		totals.TotalIncomes.Float(),
		totals.PendingIncomes.Float(),
		totals.TotalExpenseTransactions.Float(),
		totals.TotalCardDebt.Float(),
		totals.TotalPendingOutflows.Float(),
		totals.AvailableCash.Float(),
		totals.ReserveValue.Float(),
		totals.LiquidHealthNoReserve.Float(),
		view.RevenueTarget.Float(),
	}
}
