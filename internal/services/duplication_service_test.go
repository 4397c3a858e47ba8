package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"caixa/internal/core"
	"caixa/internal/store"
	"caixa/internal/store/memory"
)

func sequentialIDs() core.IDGenerator {
	n := 0
	return core.IDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func seedDecember(t *testing.T, st store.Store, userID string) {
	t.Helper()
	record := core.MonthRecord{
		Month: core.December,
		Year:  2025,
		Transactions: []core.Transaction{
			{ID: "src-1", Description: "Aluguel", Value: core.NewAmount(2000), DueDate: "2025-12-05", MonthRef: "December 2025", Situation: core.SituationPaid, Type: core.Expense, IsRecurring: true},
			{ID: "src-2", Description: "Venda avulsa", Value: core.NewAmount(800), DueDate: "2025-12-20", MonthRef: "December 2025", Situation: core.SituationPaid, Type: core.Income},
		},
		Balances:      map[string]core.Amount{"nubank": core.NewAmount(5000)},
		CardDetails:   map[string]core.CardDetail{"visa": {DueDate: "2025-12-10", Status: core.SituationPaid}},
		Reserve:       core.NewAmount(3000),
		RevenueTarget: core.NewAmount(40000),
	}
	if err := st.SaveMonth(context.Background(), userID, record); err != nil {
		t.Fatalf("SaveMonth() error = %v", err)
	}
}

func TestDuplicationService_RecurringOnly(t *testing.T) {
	st := memory.New()
	seedDecember(t, st, "user-1")
	svc := NewDuplicationService(st, testViews(), sequentialIDs(), core.NewAmount(30000), testLogger())

	target, err := svc.DuplicatePrevious(context.Background(), "user-1", 2026, core.January, core.DuplicateRecurring)
	if err != nil {
		t.Fatalf("DuplicatePrevious() error = %v", err)
	}

	if len(target.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1 (only the recurring one)", len(target.Transactions))
	}
	tx := target.Transactions[0]
	if tx.ID != "id-1" {
		t.Errorf("id = %q, want id-1", tx.ID)
	}
	if tx.Situation != core.SituationPending {
		t.Errorf("situation = %v, want PENDING", tx.Situation)
	}
	if tx.DueDate != "2026-01-05" {
		t.Errorf("dueDate = %q, want 2026-01-05", tx.DueDate)
	}
	if tx.MonthRef != "January 2026" {
		t.Errorf("monthRef = %q, want January 2026", tx.MonthRef)
	}

	// RecurringOnly leaves balances and card details alone.
	if len(target.Balances) != 0 {
		t.Errorf("balances should stay empty, got %v", target.Balances)
	}
	if len(target.CardDetails) != 0 {
		t.Errorf("cardDetails should stay empty, got %v", target.CardDetails)
	}
}

func TestDuplicationService_AllReseedsMonth(t *testing.T) {
	st := memory.New()
	seedDecember(t, st, "user-1")
	svc := NewDuplicationService(st, testViews(), sequentialIDs(), core.NewAmount(30000), testLogger())

	target, err := svc.DuplicatePrevious(context.Background(), "user-1", 2026, core.January, core.DuplicateAll)
	if err != nil {
		t.Fatalf("DuplicatePrevious() error = %v", err)
	}

	if len(target.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(target.Transactions))
	}
	if target.Balances["nubank"].Float() != 5000 {
		t.Errorf("balance = %v, want 5000 carried forward", target.Balances["nubank"])
	}
	detail := target.CardDetails["visa"]
	if detail.Status != core.SituationPending {
		t.Errorf("card status = %v, want PENDING reset", detail.Status)
	}
	if detail.DueDate != "2026-01-10" {
		t.Errorf("card dueDate = %q, want 2026-01-10", detail.DueDate)
	}
	if target.Reserve.Float() != 3000 {
		t.Errorf("reserve = %v, want 3000", target.Reserve)
	}
	if target.RevenueTarget.Float() != 40000 {
		t.Errorf("revenueTarget = %v, want 40000", target.RevenueTarget)
	}

	// The target must now be persisted under its own key.
	saved, err := st.GetMonth(context.Background(), "user-1", "2026-01")
	if err != nil {
		t.Fatalf("GetMonth() error = %v", err)
	}
	if len(saved.Transactions) != 2 {
		t.Errorf("persisted %d transactions, want 2", len(saved.Transactions))
	}
}

func TestDuplicationService_SourceMissing(t *testing.T) {
	st := memory.New()
	svc := NewDuplicationService(st, testViews(), sequentialIDs(), core.NewAmount(30000), testLogger())

	_, err := svc.DuplicatePrevious(context.Background(), "user-1", 2026, core.January, core.DuplicateAll)
	if !errors.Is(err, core.ErrSourceMonthNotFound) {
		t.Fatalf("DuplicatePrevious() error = %v, want ErrSourceMonthNotFound", err)
	}

	// Nothing written on the recoverable path.
	if _, err := st.GetMonth(context.Background(), "user-1", "2026-01"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetMonth() error = %v, want ErrNotFound", err)
	}
}

func TestDuplicationService_NotIdempotent(t *testing.T) {
	st := memory.New()
	seedDecember(t, st, "user-1")
	svc := NewDuplicationService(st, testViews(), sequentialIDs(), core.NewAmount(30000), testLogger())
	ctx := context.Background()

	if _, err := svc.DuplicatePrevious(ctx, "user-1", 2026, core.January, core.DuplicateAll); err != nil {
		t.Fatalf("first DuplicatePrevious() error = %v", err)
	}
	target, err := svc.DuplicatePrevious(ctx, "user-1", 2026, core.January, core.DuplicateAll)
	if err != nil {
		t.Fatalf("second DuplicatePrevious() error = %v", err)
	}

	// Two runs append the transaction set twice; dedup is the caller's job.
	if len(target.Transactions) != 4 {
		t.Errorf("got %d transactions after two runs, want 4", len(target.Transactions))
	}
}

func TestDuplicationService_RejectsBadInput(t *testing.T) {
	svc := NewDuplicationService(memory.New(), testViews(), sequentialIDs(), core.NewAmount(30000), testLogger())
	ctx := context.Background()

	if _, err := svc.DuplicatePrevious(ctx, "user-1", 2026, "Janeiro", core.DuplicateAll); err == nil {
		t.Error("DuplicatePrevious() should reject an unknown month")
	}
	if _, err := svc.DuplicatePrevious(ctx, "user-1", 2026, core.January, "everything"); err == nil {
		t.Error("DuplicatePrevious() should reject an unknown mode")
	}
}
