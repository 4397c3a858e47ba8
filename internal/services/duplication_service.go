package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"caixa/internal/cache"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/store"
)

// UUIDGenerator is the production id source for duplicated transactions.
var UUIDGenerator core.IDGenerator = core.IDFunc(func() string { return uuid.NewString() })

// DuplicationService copies the previous month's data into a target month.
type DuplicationService struct {
	store                store.Store
	views                *cache.LRUCache[MonthView]
	ids                  core.IDGenerator
	defaultRevenueTarget core.Amount
	logger               *log.Logger
}

func NewDuplicationService(st store.Store, views *cache.LRUCache[MonthView], ids core.IDGenerator, defaultRevenueTarget core.Amount, logger *log.Logger) *DuplicationService {
	return &DuplicationService{
		store:                st,
		views:                views,
		ids:                  ids,
		defaultRevenueTarget: defaultRevenueTarget,
		logger:               logger.WithComponent(log.ComponentDuplication),
	}
}

// DuplicatePrevious copies the month preceding (year, month) into (year,
// month). Missing source surfaces core.ErrSourceMonthNotFound and writes
// nothing. Calling it twice appends the transaction set twice; the caller
// owns idempotence.
func (s *DuplicationService) DuplicatePrevious(ctx context.Context, userID string, year int, month core.Month, mode core.DuplicationMode) (core.MonthRecord, error) {
	if !month.Valid() {
		return core.MonthRecord{}, fmt.Errorf("invalid month %q", month)
	}
	if !mode.Valid() {
		return core.MonthRecord{}, fmt.Errorf("invalid duplication mode %q", mode)
	}

	sourceYear, sourceMonth := core.PreviousPeriod(year, month)
	source, err := s.store.GetMonth(ctx, userID, core.MonthKey(sourceYear, sourceMonth))
	if errors.Is(err, store.ErrNotFound) {
		return core.MonthRecord{}, core.ErrSourceMonthNotFound
	}
	if err != nil {
		return core.MonthRecord{}, fmt.Errorf("get source month: %w", err)
	}

	patch := core.Duplicate(year, month, source, mode, s.defaultRevenueTarget, s.ids)
	for _, warning := range patch.Warnings {
		s.logger.WarnContext(ctx, "Duplication warning",
			log.FieldUserID, userID,
			log.FieldMonthKey, core.MonthKey(year, month),
			"warning", warning)
	}

	target, err := s.store.GetMonth(ctx, userID, core.MonthKey(year, month))
	if errors.Is(err, store.ErrNotFound) {
		target = core.DefaultMonthRecord(year, month, s.defaultRevenueTarget)
	} else if err != nil {
		return core.MonthRecord{}, fmt.Errorf("get target month: %w", err)
	}

	target = patch.ApplyTo(target)
	if err := s.store.SaveMonth(ctx, userID, target); err != nil {
		return core.MonthRecord{}, fmt.Errorf("save target month: %w", err)
	}

	if s.views != nil {
		s.views.Delete(viewCacheKey(userID, year, month))
	}

	s.logger.InfoContext(ctx, "Month duplicated",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpDuplicate,
		log.FieldMode, string(mode),
		"source_key", core.MonthKey(sourceYear, sourceMonth),
		log.FieldMonthKey, core.MonthKey(year, month),
		"copied_transactions", len(patch.Transactions))

	return target, nil
}
