package core

import "math"

// burnDays is the constant month length assumed by the burn-rate figures.
const burnDays = 30

type (
	// Indicators are the secondary ratio-based health metrics derived from
	// a month's Totals. Percentages are expressed as 0-100.
	Indicators struct {
		Margin      float64 `json:"margin"`
		DailyBurn   float64 `json:"dailyBurn"`
		RunwayDays  float64 `json:"runwayDays"`
		BreakEven   float64 `json:"breakEven"`
		HealthScore int     `json:"healthScore"`
	}

	// ReportClass is the deterministic name and tag set assigned to a
	// generated report.
	ReportClass struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}

	reportRule struct {
		matches func(ind Indicators, revenueRealized, revenueTarget Amount) bool
		class   ReportClass
	}
)

// DeriveIndicators computes the ratio metrics from a month's totals. Every
// ratio carries an explicit zero-guard; division by zero yields 0, never an
// error.
func DeriveIndicators(totals Totals, revenueRealized, revenueTarget Amount) Indicators {
	revenue := revenueRealized.Float()
	expenses := totals.TotalExpenses.Float()
	cash := totals.AvailableCash.Float()

	var ind Indicators

	if revenue > 0 {
		ind.Margin = (revenue - expenses) / revenue * 100
		ind.BreakEven = expenses / revenue * 100
	}

	ind.DailyBurn = expenses / burnDays
	if ind.DailyBurn > 0 {
		ind.RunwayDays = cash / ind.DailyBurn
	}

	ind.HealthScore = healthScore(ind, revenue, expenses)
	return ind
}

// healthScore combines margin (up to 40 points), runway (up to 30) and
// profitability (30) into a 0-100 integer.
func healthScore(ind Indicators, revenue, expenses float64) int {
	marginPoints := clamp(ind.Margin*0.4, 0, 40)

	runwayPoints := 30.0
	if ind.RunwayDays <= burnDays {
		runwayPoints = clamp(ind.RunwayDays/burnDays*30, 0, 30)
	}

	profitPoints := 0.0
	if revenue > expenses {
		profitPoints = 30
	}

	score := math.Round(marginPoints + runwayPoints + profitPoints)
	return int(clamp(score, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// reportRules is evaluated in order; the first matching rule wins. The order
// is a contract: it keeps report naming deterministic and testable.
var reportRules = []reportRule{
	{
		matches: func(ind Indicators, _, _ Amount) bool { return ind.RunwayDays <= 3 },
		class:   ReportClass{Name: "Alerta crítico de caixa", Tags: []string{"alerta-critico", "caixa"}},
	},
	{
		matches: func(ind Indicators, _, _ Amount) bool { return ind.Margin < 0 },
		class:   ReportClass{Name: "Mês no vermelho", Tags: []string{"prejuizo"}},
	},
	{
		matches: func(ind Indicators, _, _ Amount) bool { return ind.RunwayDays <= 15 },
		class:   ReportClass{Name: "Atenção ao caixa", Tags: []string{"caixa-curto"}},
	},
	{
		matches: func(_ Indicators, realized, target Amount) bool {
			return target.IsPositive() && realized.Cmp(target.Decimal) >= 0
		},
		class: ReportClass{Name: "Meta de receita batida", Tags: []string{"meta-batida"}},
	},
	{
		matches: func(ind Indicators, _, _ Amount) bool { return ind.HealthScore >= 80 },
		class:   ReportClass{Name: "Mês saudável", Tags: []string{"saudavel"}},
	},
}

// defaultReportClass applies when no rule matches.
var defaultReportClass = ReportClass{Name: "Relatório mensal", Tags: []string{"regular"}}

// ClassifyReport assigns a report name and tag set from the indicators,
// evaluating the rule table in its fixed priority order.
func ClassifyReport(ind Indicators, revenueRealized, revenueTarget Amount) ReportClass {
	for _, rule := range reportRules {
		if rule.matches(ind, revenueRealized, revenueTarget) {
			return rule.class
		}
	}
	return defaultReportClass
}
