// Package store defines the persistence ports of the dashboard: the
// document collections every adapter must expose, namespaced by user.
package store

import (
	"context"
	"errors"
	"time"

	"caixa/internal/core"
)

// Collection names used by every adapter. Month documents are keyed by
// their identity key (e.g. "2025-12"); everything else by its own id.
const (
	CollectionAssets   = "assets"
	CollectionMonths   = "months"
	CollectionPartners = "partners"
	CollectionAnalyses = "analyses"
)

// ErrNotFound reports that a document does not exist. Callers decide whether
// that is an error (duplication source) or a default (month resolution).
var ErrNotFound = errors.New("document not found")

// ErrNameLocked reports an attempt to rename an analysis whose name is not
// editable.
var ErrNameLocked = errors.New("analysis name is not editable")

type (
	// Partner is a client or supplier contact. Pure CRUD pass-through; the
	// core never computes over partners.
	Partner struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Kind      string    `json:"kind"` // "client" or "supplier"
		Email     string    `json:"email,omitempty"`
		Phone     string    `json:"phone,omitempty"`
		TaxID     string    `json:"taxId,omitempty"`
		Notes     string    `json:"notes,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// AnalysisMetadata records how an analysis was produced.
	AnalysisMetadata struct {
		AIVersion        string `json:"aiVersion"`
		ProcessingTimeMs int64  `json:"processingTimeMs"`
		UserPlan         string `json:"userPlan"`
	}

	// Analysis is one generated financial health report. The report text is
	// immutable after storage; only the name may change, and only while
	// NameEditable is true.
	Analysis struct {
		ID           string           `json:"id"`
		Name         string           `json:"name"`
		NameEditable bool             `json:"nameEditable"`
		Tags         []string         `json:"tags"`
		CreatedAt    time.Time        `json:"createdAt"`
		Indicators   core.Indicators  `json:"indicators"`
		ReportText   string           `json:"reportText"`
		Metadata     AnalysisMetadata `json:"metadata"`
	}

	// AssetStore persists the user's asset registry. Deleting an asset never
	// cascades into transactions that reference it as a payment method.
	AssetStore interface {
		ListAssets(ctx context.Context, userID string) ([]core.Asset, error)
		SaveAsset(ctx context.Context, userID string, asset core.Asset) error
		DeleteAsset(ctx context.Context, userID, assetID string) error
	}

	// MonthStore persists month documents. SaveMonth is a whole-document
	// write: concurrent edits to the same field are last-write-wins.
	// SubscribeMonths pushes the full month collection on every change, not
	// a diff; subscribers re-derive whatever they need from it.
	MonthStore interface {
		ListMonths(ctx context.Context, userID string) ([]core.MonthRecord, error)
		GetMonth(ctx context.Context, userID, key string) (core.MonthRecord, error)
		SaveMonth(ctx context.Context, userID string, record core.MonthRecord) error
		SubscribeMonths(userID string, fn func([]core.MonthRecord)) (cancel func())
	}

	// PartnerStore persists the partner CRM collection.
	PartnerStore interface {
		ListPartners(ctx context.Context, userID string) ([]Partner, error)
		SavePartner(ctx context.Context, userID string, partner Partner) error
		DeletePartner(ctx context.Context, userID, partnerID string) error
	}

	// AnalysisStore persists generated reports. Rename fails with
	// ErrNameLocked when the analysis name is not editable; the report text
	// itself is never mutated.
	AnalysisStore interface {
		ListAnalyses(ctx context.Context, userID string) ([]Analysis, error)
		GetAnalysis(ctx context.Context, userID, id string) (Analysis, error)
		SaveAnalysis(ctx context.Context, userID string, analysis Analysis) error
		RenameAnalysis(ctx context.Context, userID, id, name string) error
		DeleteAnalysis(ctx context.Context, userID, id string) error
	}

	// Store is the unified persistence interface the application wires.
	Store interface {
		AssetStore
		MonthStore
		PartnerStore
		AnalysisStore
		Close() error
	}
)
