// Package worker consumes queued report jobs and runs the generation
// pipeline against the document store.
package worker

import (
	"context"
	"errors"
	"fmt"

	"caixa/internal/amqp"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/services"
)

// ReportWorker handles asynchronous report generation jobs.
type ReportWorker struct {
	reports *services.ReportService
	logger  *log.Logger
}

func NewReportWorker(reports *services.ReportService, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		reports: reports,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleReportJob processes a single report job from the queue. Jobs that
// can never succeed (bad period, plan limit reached) are dropped instead of
// requeued; transient failures propagate so the message is redelivered.
func (w *ReportWorker) HandleReportJob(ctx context.Context, msg *amqp.ReportJobMessage) error {
	w.logger.InfoContext(ctx, "Processing report job",
		log.FieldUserID, msg.UserID,
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month,
		log.FieldPlan, msg.Plan)

	month := core.Month(msg.Month)
	if !month.Valid() || msg.Year < 1900 || msg.Year > 3000 {
		w.logger.WarnContext(ctx, "Dropping report job with invalid period",
			log.FieldYear, msg.Year,
			log.FieldMonth, msg.Month)
		return nil
	}

	analysis, err := w.reports.Generate(ctx, msg.UserID, msg.Plan, msg.Year, month)
	if err != nil {
		if errors.Is(err, services.ErrPlanLimit) {
			w.logger.WarnContext(ctx, "Dropping report job over plan limit",
				log.FieldUserID, msg.UserID,
				log.FieldPlan, msg.Plan)
			return nil
		}
		return fmt.Errorf("generate report for %s: %w", core.MonthKey(msg.Year, month), err)
	}

	w.logger.InfoContext(ctx, "Report job completed",
		log.FieldUserID, msg.UserID,
		log.FieldReportID, analysis.ID)
	return nil
}
