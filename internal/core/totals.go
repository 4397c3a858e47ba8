package core

// Totals are the aggregate solvency figures for one resolved month.
// Recomputed on every read, never persisted.
type Totals struct {
	PendingIncomes             Amount `json:"pendingIncomes"`
	TotalIncomes               Amount `json:"totalIncomes"`
	PendingExpenseTransactions Amount `json:"pendingExpenseTransactions"`
	TotalExpenseTransactions   Amount `json:"totalExpenseTransactions"`
	PendingCardDebt            Amount `json:"pendingCardDebt"`
	TotalCardDebt              Amount `json:"totalCardDebt"`
	TotalPendingOutflows       Amount `json:"totalPendingOutflows"`
	AvailableCash              Amount `json:"availableCash"`
	ReserveValue               Amount `json:"reserveValue"`
	LiquidHealthNoReserve      Amount `json:"liquidHealthNoReserve"`
	LiquidHealthWithReserve    Amount `json:"liquidHealthWithReserve"`
	TotalExpenses              Amount `json:"totalExpenses"`
}

// ComputeTotals derives the solvency figures from a resolved month view.
//
// A CANCELED transaction is dead: it counts toward neither realized nor
// pending figures. A PAID transaction is realized: it counts in the totals
// but not in the pending variants. Card statements follow the same pending
// rule, but every card counts in TotalCardDebt regardless of status.
func ComputeTotals(view ResolvedMonthView) Totals {
	var t Totals

	for _, tx := range view.Transactions {
		if tx.Situation == SituationCanceled {
			continue
		}
		pending := tx.Situation != SituationPaid
		switch tx.Type {
		case Income:
			t.TotalIncomes = t.TotalIncomes.Add(tx.Value)
			if pending {
				t.PendingIncomes = t.PendingIncomes.Add(tx.Value)
			}
		case Expense:
			t.TotalExpenseTransactions = t.TotalExpenseTransactions.Add(tx.Value)
			if pending {
				t.PendingExpenseTransactions = t.PendingExpenseTransactions.Add(tx.Value)
			}
		}
	}

	for _, card := range view.Cards {
		t.TotalCardDebt = t.TotalCardDebt.Add(card.Balance)
		if card.Status != SituationPaid {
			t.PendingCardDebt = t.PendingCardDebt.Add(card.Balance)
		}
	}

	for _, account := range view.Accounts {
		t.AvailableCash = t.AvailableCash.Add(account.Balance)
	}

	t.ReserveValue = view.Reserve
	t.TotalPendingOutflows = t.PendingExpenseTransactions.Add(t.PendingCardDebt)
	t.LiquidHealthNoReserve = t.AvailableCash.Add(t.PendingIncomes).Sub(t.TotalPendingOutflows)
	t.LiquidHealthWithReserve = t.LiquidHealthNoReserve.Add(t.ReserveValue)
	t.TotalExpenses = t.TotalExpenseTransactions.Add(t.TotalCardDebt)

	return t
}
