package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"caixa/internal/cache"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/store"
	"caixa/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{
		Component: "test",
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

func testViews() *cache.LRUCache[MonthView] {
	return cache.NewLRUCache[MonthView](16, time.Minute)
}

func newMonthService(st store.Store) *MonthService {
	return NewMonthService(st, testViews(), core.NewAmount(30000), testLogger())
}

func TestMonthService_ResolvedView_Defaults(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	if err := st.SaveAsset(ctx, "user-1", core.Asset{ID: "nubank", Name: "Nubank", Kind: core.Bank}); err != nil {
		t.Fatalf("SaveAsset() error = %v", err)
	}

	view, err := svc.ResolvedView(ctx, "user-1", 2025, core.June)
	if err != nil {
		t.Fatalf("ResolvedView() error = %v", err)
	}

	if len(view.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(view.Accounts))
	}
	if !view.Accounts[0].Balance.IsZero() {
		t.Errorf("default balance = %v, want 0", view.Accounts[0].Balance)
	}
	if !view.RevenueTarget.Equals(core.NewAmount(30000)) {
		t.Errorf("revenue target = %v, want default 30000", view.RevenueTarget)
	}
	if !view.Totals.AvailableCash.IsZero() {
		t.Errorf("availableCash = %v, want 0", view.Totals.AvailableCash)
	}

	// The default view must not have been persisted.
	if _, err := st.GetMonth(ctx, "user-1", "2025-06"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetMonth() error = %v, want ErrNotFound", err)
	}
}

func TestMonthService_SetBalance_MaterializesMonth(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	if err := st.SaveAsset(ctx, "user-1", core.Asset{ID: "nubank", Name: "Nubank", Kind: core.Bank}); err != nil {
		t.Fatalf("SaveAsset() error = %v", err)
	}

	if err := svc.SetBalance(ctx, "user-1", 2025, core.June, "nubank", core.NewAmount(1200)); err != nil {
		t.Fatalf("SetBalance() error = %v", err)
	}

	record, err := st.GetMonth(ctx, "user-1", "2025-06")
	if err != nil {
		t.Fatalf("GetMonth() error = %v", err)
	}
	if record.RevenueTarget.Float() != 30000 {
		t.Errorf("materialized revenue target = %v, want default", record.RevenueTarget)
	}

	view, err := svc.ResolvedView(ctx, "user-1", 2025, core.June)
	if err != nil {
		t.Fatalf("ResolvedView() error = %v", err)
	}
	if view.Totals.AvailableCash.Float() != 1200 {
		t.Errorf("availableCash = %v, want 1200", view.Totals.AvailableCash)
	}
}

func TestMonthService_Transactions(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	tx := core.Transaction{
		ID:    "tx-1",
		Value: core.NewAmount(500),
		Type:  core.Income,
	}
	if err := svc.AddTransaction(ctx, "user-1", 2025, core.June, tx); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	record, err := st.GetMonth(ctx, "user-1", "2025-06")
	if err != nil {
		t.Fatalf("GetMonth() error = %v", err)
	}
	if len(record.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(record.Transactions))
	}
	if record.Transactions[0].Situation != core.SituationPending {
		t.Errorf("situation = %v, want PENDING default", record.Transactions[0].Situation)
	}
	if record.Transactions[0].MonthRef != "June 2025" {
		t.Errorf("monthRef = %q, want June 2025", record.Transactions[0].MonthRef)
	}

	tx.Description = "Venda balcão"
	if err := svc.UpdateTransaction(ctx, "user-1", 2025, core.June, tx); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	record, _ = st.GetMonth(ctx, "user-1", "2025-06")
	if record.Transactions[0].Description != "Venda balcão" {
		t.Errorf("description = %q after update", record.Transactions[0].Description)
	}

	if err := svc.DeleteTransaction(ctx, "user-1", 2025, core.June, "tx-1"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	record, _ = st.GetMonth(ctx, "user-1", "2025-06")
	if len(record.Transactions) != 0 {
		t.Errorf("got %d transactions after delete, want 0", len(record.Transactions))
	}

	if err := svc.DeleteTransaction(ctx, "user-1", 2025, core.June, "tx-1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("DeleteTransaction() error = %v, want ErrTransactionNotFound", err)
	}
}

func TestMonthService_ChangeSituation(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	tx := core.Transaction{ID: "tx-1", Value: core.NewAmount(100), Type: core.Expense}
	if err := svc.AddTransaction(ctx, "user-1", 2025, core.June, tx); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	// PENDING -> PAID skips SCHEDULED and must be rejected.
	err := svc.ChangeSituation(ctx, "user-1", 2025, core.June, "tx-1", core.SituationPaid)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ChangeSituation() error = %v, want ErrInvalidTransition", err)
	}

	for _, to := range []core.Situation{core.SituationScheduled, core.SituationPaid} {
		if err := svc.ChangeSituation(ctx, "user-1", 2025, core.June, "tx-1", to); err != nil {
			t.Fatalf("ChangeSituation(%v) error = %v", to, err)
		}
	}

	// Cancel from PAID, then verify CANCELED is terminal and keeps the record.
	if err := svc.ChangeSituation(ctx, "user-1", 2025, core.June, "tx-1", core.SituationCanceled); err != nil {
		t.Fatalf("ChangeSituation(CANCELED) error = %v", err)
	}
	err = svc.ChangeSituation(ctx, "user-1", 2025, core.June, "tx-1", core.SituationPending)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ChangeSituation() from CANCELED error = %v, want ErrInvalidTransition", err)
	}
	record, _ := st.GetMonth(ctx, "user-1", "2025-06")
	if len(record.Transactions) != 1 {
		t.Errorf("canceled transaction should survive, got %d transactions", len(record.Transactions))
	}
}

func TestMonthService_UpdateTransaction_RejectsSituationChange(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	tx := core.Transaction{ID: "tx-1", Value: core.NewAmount(100), Type: core.Expense}
	if err := svc.AddTransaction(ctx, "user-1", 2025, core.June, tx); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	tx.Situation = core.SituationPaid
	err := svc.UpdateTransaction(ctx, "user-1", 2025, core.June, tx)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateTransaction() error = %v, want ErrInvalidTransition", err)
	}
}

func TestMonthService_UpdateSettings(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	reserve := core.NewAmount(5000)
	target := core.NewAmount(42000)
	err := svc.UpdateSettings(ctx, "user-1", 2025, core.June, MonthSettings{
		Reserve:         &reserve,
		ReserveCurrency: core.EUR,
		RevenueTarget:   &target,
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	record, err := st.GetMonth(ctx, "user-1", "2025-06")
	if err != nil {
		t.Fatalf("GetMonth() error = %v", err)
	}
	if record.Reserve.Float() != 5000 {
		t.Errorf("reserve = %v, want 5000", record.Reserve)
	}
	if record.ReserveCurrency != core.EUR {
		t.Errorf("reserveCurrency = %v, want EUR", record.ReserveCurrency)
	}
	if record.RevenueTarget.Float() != 42000 {
		t.Errorf("revenueTarget = %v, want 42000", record.RevenueTarget)
	}
}

func TestMonthService_AssetMutationInvalidatesViews(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	if err := svc.SaveAsset(ctx, "user-1", core.Asset{ID: "nubank", Name: "Nubank", Kind: core.Bank}); err != nil {
		t.Fatalf("SaveAsset() error = %v", err)
	}

	view, err := svc.ResolvedView(ctx, "user-1", 2025, core.June)
	if err != nil {
		t.Fatalf("ResolvedView() error = %v", err)
	}
	if len(view.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(view.Accounts))
	}

	// A second asset must show up even though the previous view was cached.
	if err := svc.SaveAsset(ctx, "user-1", core.Asset{ID: "visa", Name: "Visa", Kind: core.Card}); err != nil {
		t.Fatalf("SaveAsset() error = %v", err)
	}
	view, err = svc.ResolvedView(ctx, "user-1", 2025, core.June)
	if err != nil {
		t.Fatalf("ResolvedView() error = %v", err)
	}
	if len(view.Cards) != 1 {
		t.Errorf("got %d cards after registry change, want 1", len(view.Cards))
	}
}

func TestMonthService_SaveAsset_Validation(t *testing.T) {
	svc := newMonthService(memory.New())
	ctx := context.Background()

	if err := svc.SaveAsset(ctx, "user-1", core.Asset{Name: "sem id", Kind: core.Bank}); err == nil {
		t.Error("SaveAsset() should reject a missing id")
	}
	if err := svc.SaveAsset(ctx, "user-1", core.Asset{ID: "x", Kind: "WALLET"}); err == nil {
		t.Error("SaveAsset() should reject an unknown kind")
	}
}

func TestMonthService_ConcurrentMutationsAndReads(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	if err := st.SaveAsset(ctx, "user-1", core.Asset{ID: "nubank", Name: "Nubank", Kind: core.Bank}); err != nil {
		t.Fatalf("SaveAsset() error = %v", err)
	}

	// One writer and one reader per iteration hammer the same month; run
	// under -race this guards against shared month state escaping the store.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := svc.SetBalance(ctx, "user-1", 2025, core.June, "nubank", core.NewAmount(float64(i))); err != nil {
				t.Errorf("SetBalance() error = %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := svc.ResolvedView(ctx, "user-1", 2025, core.June); err != nil {
				t.Errorf("ResolvedView() error = %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestMonthService_RejectedMutationWritesNothing(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	var pushes int
	cancel := st.SubscribeMonths("user-1", func([]core.MonthRecord) { pushes++ })
	defer cancel()

	// Deleting from a month that was never materialized must not create it.
	err := svc.DeleteTransaction(ctx, "user-1", 2025, core.June, "missing")
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("DeleteTransaction() error = %v, want ErrTransactionNotFound", err)
	}
	if _, err := st.GetMonth(ctx, "user-1", "2025-06"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rejected delete materialized the month: GetMonth() error = %v", err)
	}

	tx := core.Transaction{ID: "tx-1", Value: core.NewAmount(100), Type: core.Expense}
	if err := svc.AddTransaction(ctx, "user-1", 2025, core.June, tx); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	pushesAfterAdd := pushes

	// A refused transition must not save, so subscribers see no new push.
	err = svc.ChangeSituation(ctx, "user-1", 2025, core.June, "tx-1", core.SituationPaid)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ChangeSituation() error = %v, want ErrInvalidTransition", err)
	}
	if pushes != pushesAfterAdd {
		t.Errorf("rejected transition published a change: pushes = %d, want %d", pushes, pushesAfterAdd)
	}

	// Same for a wholesale update of an unknown transaction.
	err = svc.UpdateTransaction(ctx, "user-1", 2025, core.June, core.Transaction{ID: "ghost"})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("UpdateTransaction() error = %v, want ErrTransactionNotFound", err)
	}
	if pushes != pushesAfterAdd {
		t.Errorf("rejected update published a change: pushes = %d, want %d", pushes, pushesAfterAdd)
	}
}

func TestMonthService_SubscribeViews(t *testing.T) {
	st := memory.New()
	svc := newMonthService(st)
	ctx := context.Background()

	var pushed []MonthView
	cancel := svc.SubscribeViews(ctx, "user-1", 2025, core.June, func(v MonthView) {
		pushed = append(pushed, v)
	})
	defer cancel()

	if err := svc.SetBalance(ctx, "user-1", 2025, core.June, "nubank", core.NewAmount(100)); err != nil {
		t.Fatalf("SetBalance() error = %v", err)
	}

	if len(pushed) != 1 {
		t.Fatalf("got %d pushes, want 1", len(pushed))
	}
	if pushed[0].Key() != "2025-06" {
		t.Errorf("pushed view key = %q, want 2025-06", pushed[0].Key())
	}
}
