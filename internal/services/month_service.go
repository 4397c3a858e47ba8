// Package services orchestrates the core computations over the document
// store: resolved month reads, month mutations, duplication, report
// generation and the sheets export.
package services

import (
	"context"
	"errors"
	"fmt"

	"caixa/internal/cache"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/store"
)

var ErrInvalidTransition = errors.New("situation transition not allowed")

var ErrTransactionNotFound = errors.New("transaction not found")

// ErrValidation marks input rejected before any store access; the HTTP layer
// maps it to 400 instead of 500.
var ErrValidation = errors.New("invalid input")

// MonthView is a resolved month with its computed totals, the unit served
// to the dashboard and held in the view cache.
type MonthView struct {
	core.ResolvedMonthView
	Totals core.Totals `json:"totals"`
}

// MonthSettings are the scalar month fields mutable outside the transaction
// list. Nil pointers leave the stored value untouched.
type MonthSettings struct {
	Reserve          *core.Amount
	ReserveCurrency  core.Currency
	RevenueTarget    *core.Amount
	Investment       *core.Amount
	InvestmentReturn *core.Amount
}

// MonthService serves resolved month views and applies month mutations.
// Every mutation is a read-merge-write of the whole month document,
// materializing the default record the first time a month is touched.
type MonthService struct {
	store                store.Store
	views                *cache.LRUCache[MonthView]
	defaultRevenueTarget core.Amount
	logger               *log.Logger
}

func NewMonthService(st store.Store, views *cache.LRUCache[MonthView], defaultRevenueTarget core.Amount, logger *log.Logger) *MonthService {
	return &MonthService{
		store:                st,
		views:                views,
		defaultRevenueTarget: defaultRevenueTarget,
		logger:               logger.WithComponent(log.ComponentMonths),
	}
}

func viewCacheKey(userID string, year int, month core.Month) string {
	return userID + "/" + core.MonthKey(year, month)
}

// ResolvedView resolves (year, month) against the asset registry and
// computes its totals. Served from the view cache when fresh.
func (s *MonthService) ResolvedView(ctx context.Context, userID string, year int, month core.Month) (MonthView, error) {
	key := viewCacheKey(userID, year, month)
	if s.views != nil {
		if view, ok := s.views.Get(key); ok {
			return view, nil
		}
	}

	assets, err := s.store.ListAssets(ctx, userID)
	if err != nil {
		return MonthView{}, fmt.Errorf("list assets: %w", err)
	}
	records, err := s.store.ListMonths(ctx, userID)
	if err != nil {
		return MonthView{}, fmt.Errorf("list months: %w", err)
	}

	resolved := core.Resolve(year, month, assets, records, s.defaultRevenueTarget)
	view := MonthView{
		ResolvedMonthView: resolved,
		Totals:            core.ComputeTotals(resolved),
	}

	if s.views != nil {
		s.views.Set(key, view)
	}
	return view, nil
}

// mutateMonth runs a read-merge-write cycle on one month document. A month
// that was never materialized starts from the default record. A mutate error
// aborts the cycle before the save: nothing is written, no change
// notification fires, the cached view stays.
func (s *MonthService) mutateMonth(ctx context.Context, userID string, year int, month core.Month, mutate func(*core.MonthRecord) error) error {
	record, err := s.store.GetMonth(ctx, userID, core.MonthKey(year, month))
	if errors.Is(err, store.ErrNotFound) {
		record = core.DefaultMonthRecord(year, month, s.defaultRevenueTarget)
	} else if err != nil {
		return fmt.Errorf("get month: %w", err)
	}

	if err := mutate(&record); err != nil {
		return err
	}

	if err := s.store.SaveMonth(ctx, userID, record); err != nil {
		return fmt.Errorf("save month: %w", err)
	}

	if s.views != nil {
		s.views.Delete(viewCacheKey(userID, year, month))
	}
	return nil
}

// SetBalance sets one asset's balance for the month.
func (s *MonthService) SetBalance(ctx context.Context, userID string, year int, month core.Month, assetID string, balance core.Amount) error {
	err := s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		if r.Balances == nil {
			r.Balances = map[string]core.Amount{}
		}
		r.Balances[assetID] = balance
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Balance updated",
		log.FieldUserID, userID,
		log.FieldMonthKey, core.MonthKey(year, month),
		log.FieldAssetID, assetID)
	return nil
}

// SetCardDetail sets one card's statement metadata for the month.
func (s *MonthService) SetCardDetail(ctx context.Context, userID string, year int, month core.Month, assetID string, detail core.CardDetail) error {
	if detail.Status != "" && !detail.Status.Valid() {
		return fmt.Errorf("%w: invalid card status %q", ErrValidation, detail.Status)
	}
	err := s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		if r.CardDetails == nil {
			r.CardDetails = map[string]core.CardDetail{}
		}
		r.CardDetails[assetID] = detail
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Card detail updated",
		log.FieldUserID, userID,
		log.FieldMonthKey, core.MonthKey(year, month),
		log.FieldAssetID, assetID)
	return nil
}

// UpdateSettings applies the month's scalar settings.
func (s *MonthService) UpdateSettings(ctx context.Context, userID string, year int, month core.Month, settings MonthSettings) error {
	return s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		if settings.Reserve != nil {
			r.Reserve = *settings.Reserve
		}
		if settings.ReserveCurrency != "" {
			r.ReserveCurrency = settings.ReserveCurrency
		}
		if settings.RevenueTarget != nil {
			r.RevenueTarget = *settings.RevenueTarget
		}
		if settings.Investment != nil {
			r.Investment = *settings.Investment
		}
		if settings.InvestmentReturn != nil {
			r.InvestmentReturn = *settings.InvestmentReturn
		}
		return nil
	})
}

// AddTransaction appends a transaction to the month. An empty situation
// defaults to PENDING; an empty month reference gets the period label.
func (s *MonthService) AddTransaction(ctx context.Context, userID string, year int, month core.Month, tx core.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("%w: transaction id is required", ErrValidation)
	}
	if tx.Type != core.Income && tx.Type != core.Expense {
		return fmt.Errorf("%w: invalid transaction type %q", ErrValidation, tx.Type)
	}
	if tx.Situation == "" {
		tx.Situation = core.SituationPending
	}
	if !tx.Situation.Valid() {
		return fmt.Errorf("%w: invalid situation %q", ErrValidation, tx.Situation)
	}
	if tx.MonthRef == "" {
		tx.MonthRef = month.Label(year)
	}

	err := s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		r.Transactions = append(r.Transactions, tx)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldUserID, userID,
		log.FieldMonthKey, core.MonthKey(year, month),
		log.FieldTxID, tx.ID)
	return nil
}

// UpdateTransaction replaces a transaction wholesale, matched by id. The
// situation is not allowed to change here; ChangeSituation owns that.
func (s *MonthService) UpdateTransaction(ctx context.Context, userID string, year int, month core.Month, tx core.Transaction) error {
	return s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		for i := range r.Transactions {
			if r.Transactions[i].ID != tx.ID {
				continue
			}
			if tx.Situation != "" && tx.Situation != r.Transactions[i].Situation {
				return fmt.Errorf("%w: use the situation endpoint to change status", ErrInvalidTransition)
			}
			tx.Situation = r.Transactions[i].Situation
			r.Transactions[i] = tx
			return nil
		}
		return ErrTransactionNotFound
	})
}

// DeleteTransaction removes a transaction by id.
func (s *MonthService) DeleteTransaction(ctx context.Context, userID string, year int, month core.Month, txID string) error {
	err := s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		for i := range r.Transactions {
			if r.Transactions[i].ID == txID {
				r.Transactions = append(r.Transactions[:i], r.Transactions[i+1:]...)
				return nil
			}
		}
		return ErrTransactionNotFound
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldUserID, userID,
		log.FieldMonthKey, core.MonthKey(year, month),
		log.FieldTxID, txID)
	return nil
}

// ChangeSituation moves a transaction along the status lifecycle, enforcing
// the transition chain. Cancelling keeps the record; nothing is deleted.
func (s *MonthService) ChangeSituation(ctx context.Context, userID string, year int, month core.Month, txID string, to core.Situation) error {
	if !to.Valid() {
		return fmt.Errorf("%w: invalid situation %q", ErrValidation, to)
	}

	err := s.mutateMonth(ctx, userID, year, month, func(r *core.MonthRecord) error {
		for i := range r.Transactions {
			if r.Transactions[i].ID != txID {
				continue
			}
			from := r.Transactions[i].Situation
			if !from.CanTransitionTo(to) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
			}
			r.Transactions[i].Situation = to
			return nil
		}
		return ErrTransactionNotFound
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Situation changed",
		log.FieldUserID, userID,
		log.FieldTxID, txID,
		log.FieldSituation, string(to))
	return nil
}

// ListAssets lists the user's asset registry.
func (s *MonthService) ListAssets(ctx context.Context, userID string) ([]core.Asset, error) {
	return s.store.ListAssets(ctx, userID)
}

// SaveAsset creates or replaces an asset. Every cached view of the user is
// dropped because all views join against the registry.
func (s *MonthService) SaveAsset(ctx context.Context, userID string, asset core.Asset) error {
	if asset.ID == "" {
		return fmt.Errorf("%w: asset id is required", ErrValidation)
	}
	if asset.Kind != core.Bank && asset.Kind != core.Card {
		return fmt.Errorf("%w: invalid asset kind %q", ErrValidation, asset.Kind)
	}
	if err := s.store.SaveAsset(ctx, userID, asset); err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	if s.views != nil {
		s.views.DeletePrefix(userID + "/")
	}
	return nil
}

// DeleteAsset removes an asset from the registry. Balances and transactions
// referencing it are left alone; resolution simply stops emitting it.
func (s *MonthService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	if err := s.store.DeleteAsset(ctx, userID, assetID); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if s.views != nil {
		s.views.DeletePrefix(userID + "/")
	}
	return nil
}

// SubscribeViews re-resolves (year, month) on every month-collection change
// and pushes the fresh view to fn. The full collection is re-read each time;
// pushes carry state, not diffs.
func (s *MonthService) SubscribeViews(ctx context.Context, userID string, year int, month core.Month, fn func(MonthView)) (cancel func()) {
	return s.store.SubscribeMonths(userID, func(records []core.MonthRecord) {
		assets, err := s.store.ListAssets(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "Subscription re-resolve failed",
				log.FieldUserID, userID, log.FieldError, err)
			return
		}
		resolved := core.Resolve(year, month, assets, records, s.defaultRevenueTarget)
		fn(MonthView{
			ResolvedMonthView: resolved,
			Totals:            core.ComputeTotals(resolved),
		})
	})
}
