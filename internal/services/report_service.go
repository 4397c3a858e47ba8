package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caixa/internal/ai"
	"caixa/internal/auth"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/store"
)

// freePlanReportLimit caps how many stored reports a free-plan user may
// hold. Generation beyond the cap requires deleting an old report or
// upgrading.
const freePlanReportLimit = 3

// ErrPlanLimit reports that the user's plan does not allow generating
// another report.
var ErrPlanLimit = errors.New("report limit reached for current plan")

// ReportService generates and manages AI financial health reports.
type ReportService struct {
	store                store.Store
	generator            ai.TextGenerator
	ids                  core.IDGenerator
	defaultRevenueTarget core.Amount
	logger               *log.Logger
}

func NewReportService(st store.Store, generator ai.TextGenerator, ids core.IDGenerator, defaultRevenueTarget core.Amount, logger *log.Logger) *ReportService {
	return &ReportService{
		store:                st,
		generator:            generator,
		ids:                  ids,
		defaultRevenueTarget: defaultRevenueTarget,
		logger:               logger.WithComponent(log.ComponentReports),
	}
}

// Generate computes the month's figures, asks the AI collaborator for the
// report prose, and persists the result as an immutable analysis. An AI or
// store failure aborts the operation with nothing persisted; there is no
// retry here.
func (s *ReportService) Generate(ctx context.Context, userID, plan string, year int, month core.Month) (store.Analysis, error) {
	if s.generator == nil {
		return store.Analysis{}, fmt.Errorf("no text generator configured")
	}
	if !month.Valid() {
		return store.Analysis{}, fmt.Errorf("invalid month %q", month)
	}

	if plan != auth.PlanPro {
		existing, err := s.store.ListAnalyses(ctx, userID)
		if err != nil {
			return store.Analysis{}, fmt.Errorf("list analyses: %w", err)
		}
		if len(existing) >= freePlanReportLimit {
			return store.Analysis{}, ErrPlanLimit
		}
	}

	assets, err := s.store.ListAssets(ctx, userID)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("list assets: %w", err)
	}
	records, err := s.store.ListMonths(ctx, userID)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("list months: %w", err)
	}

	view := core.Resolve(year, month, assets, records, s.defaultRevenueTarget)
	totals := core.ComputeTotals(view)
	indicators := core.DeriveIndicators(totals, totals.TotalIncomes, view.RevenueTarget)
	class := core.ClassifyReport(indicators, totals.TotalIncomes, view.RevenueTarget)

	prompt := ai.BuildMonthlyReportPrompt(year, month, totals, indicators, view.RevenueTarget)

	started := time.Now()
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("generate report text: %w", err)
	}
	elapsed := time.Since(started)

	analysis := store.Analysis{
		ID:           s.ids.NewID(),
		Name:         class.Name,
		NameEditable: true,
		Tags:         class.Tags,
		CreatedAt:    time.Now().UTC(),
		Indicators:   indicators,
		ReportText:   text,
		Metadata: store.AnalysisMetadata{
			AIVersion:        s.generator.Version(),
			ProcessingTimeMs: elapsed.Milliseconds(),
			UserPlan:         plan,
		},
	}

	if err := s.store.SaveAnalysis(ctx, userID, analysis); err != nil {
		return store.Analysis{}, fmt.Errorf("save analysis: %w", err)
	}

	s.logger.InfoContext(ctx, "Report generated",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpGenerate,
		log.FieldMonthKey, core.MonthKey(year, month),
		log.FieldReportID, analysis.ID,
		log.FieldPlan, plan,
		log.FieldDuration, elapsed.Milliseconds())

	return analysis, nil
}

// List returns the user's reports, newest first.
func (s *ReportService) List(ctx context.Context, userID string) ([]store.Analysis, error) {
	return s.store.ListAnalyses(ctx, userID)
}

// Get returns one report by id.
func (s *ReportService) Get(ctx context.Context, userID, id string) (store.Analysis, error) {
	return s.store.GetAnalysis(ctx, userID, id)
}

// Rename changes a report's display name. The report text never changes;
// renaming a locked report fails with store.ErrNameLocked.
func (s *ReportService) Rename(ctx context.Context, userID, id, name string) error {
	if name == "" {
		return fmt.Errorf("report name is required")
	}
	return s.store.RenameAnalysis(ctx, userID, id, name)
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteAnalysis(ctx, userID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Report deleted",
		log.FieldUserID, userID,
		log.FieldReportID, id)
	return nil
}
