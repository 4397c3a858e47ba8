package core

import (
	"fmt"
)

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

const (
	SituationPending   Situation = "PENDING"
	SituationScheduled Situation = "SCHEDULED"
	SituationPaid      Situation = "PAID"
	SituationCanceled  Situation = "CANCELED"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	Bank AssetKind = "BANK"
	Card AssetKind = "CARD"
)

const (
	BRL Currency = "BRL"
	EUR Currency = "EUR"
)

type (
	Month           string
	Situation       string
	TransactionType string
	AssetKind       string
	Currency        string

	// Asset is a financial instrument (bank account or credit card) from the
	// user's registry. It persists independently of any month and carries no
	// balance of its own.
	Asset struct {
		ID   string    `json:"id"`
		Name string    `json:"name"`
		Icon string    `json:"icon,omitempty"`
		Kind AssetKind `json:"kind"`
	}

	// Transaction lives inside exactly one MonthRecord. Value is an unsigned
	// magnitude; direction comes entirely from Type.
	Transaction struct {
		ID            string          `json:"id"`
		Description   string          `json:"description"`
		Value         Amount          `json:"value"`
		CategoryID    string          `json:"categoryId"`
		DueDate       string          `json:"dueDate"`
		MonthRef      string          `json:"monthRef"`
		Situation     Situation       `json:"situation"`
		Type          TransactionType `json:"type"`
		PaymentMethod string          `json:"paymentMethod,omitempty"`
		IsRecurring   bool            `json:"isRecurring,omitempty"`
		AttachmentURL string          `json:"attachmentUrl,omitempty"`
	}

	// CardDetail holds per-month statement metadata for a card asset.
	CardDetail struct {
		DueDate string    `json:"dueDate,omitempty"`
		Status  Situation `json:"status,omitempty"`
	}

	// MonthRecord is the persisted per-month financial document. Its identity
	// key is always derivable from (Year, Month); absence of a record for a
	// key means "not yet materialized".
	MonthRecord struct {
		Month            Month                 `json:"month"`
		Year             int                   `json:"year"`
		Transactions     []Transaction         `json:"transactions"`
		Balances         map[string]Amount     `json:"balances"`
		CardDetails      map[string]CardDetail `json:"cardDetails"`
		Reserve          Amount                `json:"reserve"`
		ReserveCurrency  Currency              `json:"reserveCurrency,omitempty"`
		RevenueTarget    Amount                `json:"revenueTarget"`
		Investment       Amount                `json:"investment"`
		InvestmentReturn Amount                `json:"investmentReturn"`
	}

	// ResolvedAccount is a Bank asset joined with its balance for one month.
	ResolvedAccount struct {
		Asset
		Balance Amount `json:"balance"`
	}

	// ResolvedCard is a Card asset joined with its balance and statement
	// metadata for one month.
	ResolvedCard struct {
		Asset
		Balance Amount    `json:"balance"`
		DueDate string    `json:"dueDate"`
		Status  Situation `json:"status"`
	}

	// ResolvedMonthView is a MonthRecord joined with the asset registry.
	// Derived, never persisted.
	ResolvedMonthView struct {
		MonthRecord
		Accounts []ResolvedAccount `json:"accounts"`
		Cards    []ResolvedCard    `json:"cards"`
	}
)

var months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

var monthIndexes = func() map[Month]int {
	m := make(map[Month]int, len(months))
	for i, name := range months {
		m[name] = i
	}
	return m
}()

// Index returns the zero-based month index, or -1 for an unknown month.
func (m Month) Index() int {
	if i, ok := monthIndexes[m]; ok {
		return i
	}
	return -1
}

// Number returns the one-based month number (1-12), or 0 for an unknown month.
func (m Month) Number() int {
	return m.Index() + 1
}

// Valid reports whether m is one of the twelve month names.
func (m Month) Valid() bool {
	return m.Index() >= 0
}

// MonthFromIndex returns the month at the given zero-based index, wrapping
// modulo 12 so adjacent-period arithmetic never goes out of range.
func MonthFromIndex(i int) Month {
	i %= len(months)
	if i < 0 {
		i += len(months)
	}
	return months[i]
}

// MonthKey derives the identity key of a month document, e.g. "2025-12".
// Records must only ever be matched through this key.
func MonthKey(year int, m Month) string {
	return fmt.Sprintf("%04d-%02d", year, m.Number())
}

// Label returns the human label used as a transaction's month reference,
// e.g. "December 2025".
func (m Month) Label(year int) string {
	return fmt.Sprintf("%s %d", m, year)
}

// PreviousPeriod decrements (year, month) with year rollover at January.
func PreviousPeriod(year int, m Month) (int, Month) {
	i := m.Index()
	if i == 0 {
		return year - 1, December
	}
	return year, MonthFromIndex(i - 1)
}

// Valid reports whether s is a known lifecycle status.
func (s Situation) Valid() bool {
	switch s {
	case SituationPending, SituationScheduled, SituationPaid, SituationCanceled:
		return true
	}
	return false
}

// situationTransitions encodes the lifecycle chain
// PENDING <-> SCHEDULED <-> PAID, with CANCELED reachable from any state.
// CANCELED is terminal: the record survives but never changes status again.
var situationTransitions = map[Situation][]Situation{
	SituationPending:   {SituationScheduled, SituationCanceled},
	SituationScheduled: {SituationPending, SituationPaid, SituationCanceled},
	SituationPaid:      {SituationScheduled, SituationCanceled},
	SituationCanceled:  {},
}

// CanTransitionTo reports whether the status change s -> to is allowed.
func (s Situation) CanTransitionTo(to Situation) bool {
	for _, next := range situationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Key returns the record's identity key derived from its own year and month.
func (r MonthRecord) Key() string {
	return MonthKey(r.Year, r.Month)
}

// DefaultMonthRecord synthesizes the all-zero record used when a month has
// not been materialized yet. Callers must not persist it until the user
// performs a mutating action.
func DefaultMonthRecord(year int, month Month, revenueTarget Amount) MonthRecord {
	return MonthRecord{
		Month:           month,
		Year:            year,
		Transactions:    []Transaction{},
		Balances:        map[string]Amount{},
		CardDetails:     map[string]CardDetail{},
		ReserveCurrency: BRL,
		RevenueTarget:   revenueTarget,
	}
}
