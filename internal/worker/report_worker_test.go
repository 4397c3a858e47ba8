package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"caixa/internal/ai"
	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func sequentialIDs() core.IDGenerator {
	var n atomic.Int64
	return core.IDFunc(func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	})
}

func newWorker(generator ai.TextGenerator) (*ReportWorker, *memory.Store) {
	st := memory.New()
	reports := services.NewReportService(st, generator, sequentialIDs(), core.NewAmountFromInt(30000), testLogger())
	return NewReportWorker(reports, testLogger()), st
}

func seedMonth(t *testing.T, st *memory.Store) {
	t.Helper()
	record := core.DefaultMonthRecord(2025, core.June, core.NewAmountFromInt(8000))
	record.Transactions = []core.Transaction{{
		ID:        "sale",
		Value:     core.NewAmountFromInt(10000),
		Type:      core.Income,
		Situation: core.SituationPaid,
	}}
	if err := st.SaveMonth(context.Background(), "user-1", record); err != nil {
		t.Fatalf("seed month: %v", err)
	}
}

func TestHandleReportJobStoresAnalysis(t *testing.T) {
	w, st := newWorker(ai.GeneratorFunc(func(context.Context, string) (string, error) {
		return "tudo certo", nil
	}))
	seedMonth(t, st)

	msg := amqp.NewReportJobMessage("user-1", 2025, "June", "pro")
	if err := w.HandleReportJob(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportJob() error = %v", err)
	}

	analyses, err := st.ListAnalyses(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list analyses: %v", err)
	}
	if len(analyses) != 1 || analyses[0].ReportText != "tudo certo" {
		t.Fatalf("analyses = %+v, want one stored report", analyses)
	}
}

func TestHandleReportJobDropsInvalidPeriod(t *testing.T) {
	w, st := newWorker(ai.GeneratorFunc(func(context.Context, string) (string, error) {
		t.Fatal("generator must not run for an invalid period")
		return "", nil
	}))

	msg := amqp.NewReportJobMessage("user-1", 2025, "Juneuary", "pro")
	if err := w.HandleReportJob(context.Background(), msg); err != nil {
		t.Fatalf("invalid period must be dropped, got error %v", err)
	}

	analyses, _ := st.ListAnalyses(context.Background(), "user-1")
	if len(analyses) != 0 {
		t.Fatalf("stored %d analyses, want none", len(analyses))
	}
}

func TestHandleReportJobPropagatesTransientFailure(t *testing.T) {
	genErr := errors.New("model unavailable")
	w, st := newWorker(ai.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", genErr
	}))
	seedMonth(t, st)

	msg := amqp.NewReportJobMessage("user-1", 2025, "June", "pro")
	if err := w.HandleReportJob(context.Background(), msg); !errors.Is(err, genErr) {
		t.Fatalf("HandleReportJob() error = %v, want wrapped %v", err, genErr)
	}
}

func TestHandleReportJobDropsOverPlanLimit(t *testing.T) {
	generated := 0
	w, st := newWorker(ai.GeneratorFunc(func(context.Context, string) (string, error) {
		generated++
		return "relatório", nil
	}))
	seedMonth(t, st)

	for i := 0; i < 3; i++ {
		msg := amqp.NewReportJobMessage("user-1", 2025, "June", "free")
		if err := w.HandleReportJob(context.Background(), msg); err != nil {
			t.Fatalf("job %d: %v", i, err)
		}
	}

	// The fourth free-plan job exceeds the stored-report cap and is dropped.
	msg := amqp.NewReportJobMessage("user-1", 2025, "June", "free")
	if err := w.HandleReportJob(context.Background(), msg); err != nil {
		t.Fatalf("over-limit job must be dropped, got error %v", err)
	}
	if generated != 3 {
		t.Fatalf("generator ran %d times, want 3", generated)
	}

	analyses, _ := st.ListAnalyses(context.Background(), "user-1")
	if len(analyses) != 3 {
		t.Fatalf("stored %d analyses, want 3", len(analyses))
	}
}
