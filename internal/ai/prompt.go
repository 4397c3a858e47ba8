package ai

import (
	"fmt"
	"strings"

	"caixa/internal/core"
)

// BuildMonthlyReportPrompt renders the prompt for one month's financial
// health report. All figures are pre-computed; the model only writes prose
// and must not invent numbers.
func BuildMonthlyReportPrompt(year int, month core.Month, totals core.Totals, ind core.Indicators, revenueTarget core.Amount) string {
	var sb strings.Builder

	sb.WriteString("Você é um consultor financeiro de pequenas empresas no Brasil.\n")
	sb.WriteString(fmt.Sprintf("Escreva um relatório curto de saúde financeira para %s.\n", month.Label(year)))
	sb.WriteString("Use apenas os números fornecidos abaixo; não invente valores.\n\n")

	sb.WriteString("Resumo do mês:\n")
	sb.WriteString(fmt.Sprintf("- Receita total: R$ %s\n", totals.TotalIncomes.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Receitas pendentes: R$ %s\n", totals.PendingIncomes.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Despesas totais (incluindo cartões): R$ %s\n", totals.TotalExpenses.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Saídas pendentes: R$ %s\n", totals.TotalPendingOutflows.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Caixa disponível: R$ %s\n", totals.AvailableCash.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Reserva: R$ %s\n", totals.ReserveValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("- Saúde líquida (sem reserva): R$ %s\n", totals.LiquidHealthNoReserve.StringFixed(2)))
	if revenueTarget.IsPositive() {
		sb.WriteString(fmt.Sprintf("- Meta de receita: R$ %s\n", revenueTarget.StringFixed(2)))
	}

	sb.WriteString("\nIndicadores:\n")
	sb.WriteString(fmt.Sprintf("- Margem: %.1f%%\n", ind.Margin))
	sb.WriteString(fmt.Sprintf("- Queima diária: R$ %.2f\n", ind.DailyBurn))
	sb.WriteString(fmt.Sprintf("- Fôlego de caixa: %.0f dias\n", ind.RunwayDays))
	sb.WriteString(fmt.Sprintf("- Ponto de equilíbrio: %.1f%% da receita\n", ind.BreakEven))
	sb.WriteString(fmt.Sprintf("- Nota de saúde: %d/100\n", ind.HealthScore))

	sb.WriteString("\nEstruture o relatório em três partes: situação atual, ")
	sb.WriteString("pontos de atenção e recomendações práticas para o próximo mês. ")
	sb.WriteString("Escreva em português, em tom direto e sem jargão.")

	return sb.String()
}
