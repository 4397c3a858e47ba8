package core

import "testing"

func testAssets() []Asset {
	return []Asset{
		{ID: "nubank", Name: "Nubank", Kind: Bank},
		{ID: "itau", Name: "Itaú", Kind: Bank},
		{ID: "visa", Name: "Visa Infinite", Kind: Card},
	}
}

func TestResolve_DefaultsWhenNoRecordMatches(t *testing.T) {
	view := Resolve(2025, March, testAssets(), nil, NewAmountFromInt(30000))

	if len(view.Transactions) != 0 {
		t.Errorf("transactions = %d, want 0", len(view.Transactions))
	}
	if !view.RevenueTarget.Equals(NewAmountFromInt(30000)) {
		t.Errorf("revenue target = %s, want 30000", view.RevenueTarget)
	}
	if !view.Reserve.IsZero() {
		t.Errorf("reserve = %s, want 0", view.Reserve)
	}
	if len(view.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(view.Accounts))
	}
	for _, account := range view.Accounts {
		if !account.Balance.IsZero() {
			t.Errorf("account %s balance = %s, want 0", account.ID, account.Balance)
		}
	}
	if len(view.Cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(view.Cards))
	}
	card := view.Cards[0]
	if card.DueDate != "2025-03-10" {
		t.Errorf("card due date = %q, want %q", card.DueDate, "2025-03-10")
	}
	if card.Status != SituationPending {
		t.Errorf("card status = %q, want %q", card.Status, SituationPending)
	}
}

func TestResolve_MatchesRecordByIdentityKeyOnly(t *testing.T) {
	records := []MonthRecord{
		{
			Month: December, Year: 2024,
			Balances: map[string]Amount{"nubank": NewAmountFromInt(1)},
		},
		{
			Month: December, Year: 2025,
			Balances: map[string]Amount{"nubank": NewAmountFromInt(5000)},
			CardDetails: map[string]CardDetail{
				"visa": {DueDate: "2025-12-15", Status: SituationPaid},
			},
		},
	}

	view := Resolve(2025, December, testAssets(), records, NewAmountFromInt(30000))

	if got := view.Accounts[0].Balance; !got.Equals(NewAmountFromInt(5000)) {
		t.Errorf("nubank balance = %s, want 5000", got)
	}
	// itau has no balance entry: defaults to zero, never fabricated.
	if got := view.Accounts[1].Balance; !got.IsZero() {
		t.Errorf("itau balance = %s, want 0", got)
	}
	card := view.Cards[0]
	if card.DueDate != "2025-12-15" {
		t.Errorf("card due date = %q, want recorded date", card.DueDate)
	}
	if card.Status != SituationPaid {
		t.Errorf("card status = %q, want %q", card.Status, SituationPaid)
	}
}

func TestResolve_IgnoresOrphanedBalanceKeys(t *testing.T) {
	records := []MonthRecord{{
		Month: June, Year: 2025,
		Balances: map[string]Amount{
			"nubank":  NewAmountFromInt(100),
			"deleted": NewAmountFromInt(999),
		},
	}}

	view := Resolve(2025, June, testAssets(), records, Amount{})

	for _, account := range view.Accounts {
		if account.ID == "deleted" {
			t.Fatal("orphaned balance key must not produce an account")
		}
	}
	totals := ComputeTotals(view)
	if !totals.AvailableCash.Equals(NewAmountFromInt(100)) {
		t.Errorf("available cash = %s, want 100 (orphan ignored)", totals.AvailableCash)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month Month
		want  string
	}{
		{name: "zero-padded month", year: 2025, month: March, want: "2025-03"},
		{name: "december", year: 2025, month: December, want: "2025-12"},
		{name: "january", year: 2026, month: January, want: "2026-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKey(tt.year, tt.month); got != tt.want {
				t.Errorf("MonthKey(%d, %s) = %q, want %q", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     Month
		wantYear  int
		wantMonth Month
	}{
		{name: "mid-year", year: 2025, month: June, wantYear: 2025, wantMonth: May},
		{name: "january rolls back a year", year: 2026, month: January, wantYear: 2025, wantMonth: December},
		{name: "february", year: 2025, month: February, wantYear: 2025, wantMonth: January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := PreviousPeriod(tt.year, tt.month)
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("PreviousPeriod(%d, %s) = (%d, %s), want (%d, %s)",
					tt.year, tt.month, year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestSituationTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Situation
		to   Situation
		want bool
	}{
		{name: "pending to scheduled", from: SituationPending, to: SituationScheduled, want: true},
		{name: "scheduled to paid", from: SituationScheduled, to: SituationPaid, want: true},
		{name: "paid back to scheduled", from: SituationPaid, to: SituationScheduled, want: true},
		{name: "pending straight to paid", from: SituationPending, to: SituationPaid, want: false},
		{name: "any to canceled", from: SituationPaid, to: SituationCanceled, want: true},
		{name: "canceled is terminal", from: SituationCanceled, to: SituationPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
