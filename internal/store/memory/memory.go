// Package memory provides the in-memory store adapter, used as the default
// backend and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"caixa/internal/core"
	"caixa/internal/store"
)

type Store struct {
	mu       sync.Mutex
	assets   map[string]map[string]core.Asset
	months   map[string]map[string]core.MonthRecord
	partners map[string]map[string]store.Partner
	analyses map[string]map[string]store.Analysis

	monthChanges *store.Notifier[core.MonthRecord]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		assets:       make(map[string]map[string]core.Asset),
		months:       make(map[string]map[string]core.MonthRecord),
		partners:     make(map[string]map[string]store.Partner),
		analyses:     make(map[string]map[string]store.Analysis),
		monthChanges: store.NewNotifier[core.MonthRecord](),
	}
}

func (s *Store) ListAssets(_ context.Context, userID string) ([]core.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Asset, 0, len(s.assets[userID]))
	for _, asset := range s.assets[userID] {
		out = append(out, asset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveAsset(_ context.Context, userID string, asset core.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assets[userID] == nil {
		s.assets[userID] = make(map[string]core.Asset)
	}
	s.assets[userID][asset.ID] = asset
	return nil
}

func (s *Store) DeleteAsset(_ context.Context, userID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets[userID], assetID)
	return nil
}

func (s *Store) ListMonths(_ context.Context, userID string) ([]core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthsLocked(userID), nil
}

func (s *Store) GetMonth(_ context.Context, userID, key string) (core.MonthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.months[userID][key]
	if !ok {
		return core.MonthRecord{}, store.ErrNotFound
	}
	return cloneRecord(record), nil
}

func (s *Store) SaveMonth(_ context.Context, userID string, record core.MonthRecord) error {
	s.mu.Lock()
	if s.months[userID] == nil {
		s.months[userID] = make(map[string]core.MonthRecord)
	}
	s.months[userID][record.Key()] = cloneRecord(record)
	records := s.monthsLocked(userID)
	s.mu.Unlock()

	// Subscribers receive the whole collection, never a diff.
	s.monthChanges.Publish(userID, records)
	return nil
}

func (s *Store) SubscribeMonths(userID string, fn func([]core.MonthRecord)) (cancel func()) {
	return s.monthChanges.Subscribe(userID, fn)
}

func (s *Store) monthsLocked(userID string) []core.MonthRecord {
	out := make([]core.MonthRecord, 0, len(s.months[userID]))
	for _, record := range s.months[userID] {
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// cloneRecord detaches a month record from the store's copy. Records carry
// maps and a slice; handing those out by reference would let callers mutate
// stored state outside the mutex.
func cloneRecord(record core.MonthRecord) core.MonthRecord {
	out := record
	if record.Transactions != nil {
		out.Transactions = make([]core.Transaction, len(record.Transactions))
		copy(out.Transactions, record.Transactions)
	}
	if record.Balances != nil {
		out.Balances = make(map[string]core.Amount, len(record.Balances))
		for id, balance := range record.Balances {
			out.Balances[id] = balance
		}
	}
	if record.CardDetails != nil {
		out.CardDetails = make(map[string]core.CardDetail, len(record.CardDetails))
		for id, detail := range record.CardDetails {
			out.CardDetails[id] = detail
		}
	}
	return out
}

func (s *Store) ListPartners(_ context.Context, userID string) ([]store.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Partner, 0, len(s.partners[userID]))
	for _, partner := range s.partners[userID] {
		out = append(out, partner)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SavePartner(_ context.Context, userID string, partner store.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.partners[userID] == nil {
		s.partners[userID] = make(map[string]store.Partner)
	}
	s.partners[userID][partner.ID] = partner
	return nil
}

func (s *Store) DeletePartner(_ context.Context, userID, partnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partners[userID], partnerID)
	return nil
}

func (s *Store) ListAnalyses(_ context.Context, userID string) ([]store.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Analysis, 0, len(s.analyses[userID]))
	for _, analysis := range s.analyses[userID] {
		out = append(out, analysis)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetAnalysis(_ context.Context, userID, id string) (store.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	analysis, ok := s.analyses[userID][id]
	if !ok {
		return store.Analysis{}, store.ErrNotFound
	}
	return analysis, nil
}

func (s *Store) SaveAnalysis(_ context.Context, userID string, analysis store.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyses[userID] == nil {
		s.analyses[userID] = make(map[string]store.Analysis)
	}
	s.analyses[userID][analysis.ID] = analysis
	return nil
}

func (s *Store) RenameAnalysis(_ context.Context, userID, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	analysis, ok := s.analyses[userID][id]
	if !ok {
		return store.ErrNotFound
	}
	if !analysis.NameEditable {
		return store.ErrNameLocked
	}
	analysis.Name = name
	s.analyses[userID][id] = analysis
	return nil
}

func (s *Store) DeleteAnalysis(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses[userID], id)
	return nil
}

func (s *Store) Close() error { return nil }
