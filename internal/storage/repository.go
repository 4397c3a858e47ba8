// Package storage implements the SQLite store adapter. Every collection is
// persisted as JSON documents in a single table keyed by
// (user_id, collection, doc_id), mirroring the document-store access pattern
// of the ports: get by id, whole-document set, delete, list per collection.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"caixa/internal/core"
	"caixa/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db           *sql.DB
	monthChanges *store.Notifier[core.MonthRecord]
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:           db,
		monthChanges: store.NewNotifier[core.MonthRecord](),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// getDocument reads one document body.
func (r *SQLiteRepository) getDocument(ctx context.Context, userID, collection, docID string, out any) error {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE user_id = ? AND collection = ? AND doc_id = ?`,
		userID, collection, docID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get document %s/%s: %w", collection, docID, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// setDocument writes one document wholesale (upsert).
func (r *SQLiteRepository) setDocument(ctx context.Context, userID, collection, docID string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, docID, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, collection, doc_id, body)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, collection, doc_id)
		 DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		userID, collection, docID, string(body),
	)
	if err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (r *SQLiteRepository) deleteDocument(ctx context.Context, userID, collection, docID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = ? AND collection = ? AND doc_id = ?`,
		userID, collection, docID,
	)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// listDocuments reads all bodies of a collection ordered by document id.
func (r *SQLiteRepository) listDocuments(ctx context.Context, userID, collection string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE user_id = ? AND collection = ? ORDER BY doc_id`,
		userID, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan collection %s: %w", collection, err)
		}
		bodies = append(bodies, body)
	}
	return bodies, rows.Err()
}

func listAs[T any](ctx context.Context, r *SQLiteRepository, userID, collection string) ([]T, error) {
	bodies, err := r.listDocuments(ctx, userID, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		var item T
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			// A corrupt document must not hide the rest of the collection.
			slog.WarnContext(ctx, "Skipping undecodable document",
				"collection", collection, "error", err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SQLiteRepository) ListAssets(ctx context.Context, userID string) ([]core.Asset, error) {
	assets, err := listAs[core.Asset](ctx, r, userID, store.CollectionAssets)
	if err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

func (r *SQLiteRepository) SaveAsset(ctx context.Context, userID string, asset core.Asset) error {
	return r.setDocument(ctx, userID, store.CollectionAssets, asset.ID, asset)
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, userID, assetID string) error {
	return r.deleteDocument(ctx, userID, store.CollectionAssets, assetID)
}

func (r *SQLiteRepository) ListMonths(ctx context.Context, userID string) ([]core.MonthRecord, error) {
	return listAs[core.MonthRecord](ctx, r, userID, store.CollectionMonths)
}

func (r *SQLiteRepository) GetMonth(ctx context.Context, userID, key string) (core.MonthRecord, error) {
	var record core.MonthRecord
	if err := r.getDocument(ctx, userID, store.CollectionMonths, key, &record); err != nil {
		return core.MonthRecord{}, err
	}
	return record, nil
}

func (r *SQLiteRepository) SaveMonth(ctx context.Context, userID string, record core.MonthRecord) error {
	if err := r.setDocument(ctx, userID, store.CollectionMonths, record.Key(), record); err != nil {
		return err
	}

	records, err := r.ListMonths(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Month saved but change notification failed",
			"month_key", record.Key(), "error", err)
		return nil
	}
	r.monthChanges.Publish(userID, records)
	return nil
}

func (r *SQLiteRepository) SubscribeMonths(userID string, fn func([]core.MonthRecord)) (cancel func()) {
	return r.monthChanges.Subscribe(userID, fn)
}

func (r *SQLiteRepository) ListPartners(ctx context.Context, userID string) ([]store.Partner, error) {
	partners, err := listAs[store.Partner](ctx, r, userID, store.CollectionPartners)
	if err != nil {
		return nil, err
	}
	sort.Slice(partners, func(i, j int) bool { return partners[i].Name < partners[j].Name })
	return partners, nil
}

func (r *SQLiteRepository) SavePartner(ctx context.Context, userID string, partner store.Partner) error {
	return r.setDocument(ctx, userID, store.CollectionPartners, partner.ID, partner)
}

func (r *SQLiteRepository) DeletePartner(ctx context.Context, userID, partnerID string) error {
	return r.deleteDocument(ctx, userID, store.CollectionPartners, partnerID)
}

func (r *SQLiteRepository) ListAnalyses(ctx context.Context, userID string) ([]store.Analysis, error) {
	analyses, err := listAs[store.Analysis](ctx, r, userID, store.CollectionAnalyses)
	if err != nil {
		return nil, err
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].CreatedAt.After(analyses[j].CreatedAt) })
	return analyses, nil
}

func (r *SQLiteRepository) GetAnalysis(ctx context.Context, userID, id string) (store.Analysis, error) {
	var analysis store.Analysis
	if err := r.getDocument(ctx, userID, store.CollectionAnalyses, id, &analysis); err != nil {
		return store.Analysis{}, err
	}
	return analysis, nil
}

func (r *SQLiteRepository) SaveAnalysis(ctx context.Context, userID string, analysis store.Analysis) error {
	return r.setDocument(ctx, userID, store.CollectionAnalyses, analysis.ID, analysis)
}

func (r *SQLiteRepository) RenameAnalysis(ctx context.Context, userID, id, name string) error {
	analysis, err := r.GetAnalysis(ctx, userID, id)
	if err != nil {
		return err
	}
	if !analysis.NameEditable {
		return store.ErrNameLocked
	}
	analysis.Name = name
	return r.SaveAnalysis(ctx, userID, analysis)
}

func (r *SQLiteRepository) DeleteAnalysis(ctx context.Context, userID, id string) error {
	return r.deleteDocument(ctx, userID, store.CollectionAnalyses, id)
}
