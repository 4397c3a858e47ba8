package core

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// DuplicateAll copies every transaction and re-seeds balances, card
	// details, reserve and revenue target from the source month.
	DuplicateAll DuplicationMode = "all"

	// DuplicateRecurring copies only transactions marked as recurring and
	// leaves the target's balances and card details untouched.
	DuplicateRecurring DuplicationMode = "recurring"
)

// ErrSourceMonthNotFound reports that no record exists for the computed
// previous period. Recoverable: the caller surfaces it and writes nothing.
var ErrSourceMonthNotFound = errors.New("source month not found")

type (
	DuplicationMode string

	// IDGenerator supplies ids for duplicated transactions. Injected so
	// tests can assert exact output.
	IDGenerator interface {
		NewID() string
	}

	// IDFunc adapts a plain function to an IDGenerator.
	IDFunc func() string

	// MonthPatch is the result of duplicating a month: data to merge into
	// the target record. Nil maps and pointers mean "leave untouched";
	// transactions are always appended, never replaced.
	MonthPatch struct {
		Transactions    []Transaction
		Balances        map[string]Amount
		CardDetails     map[string]CardDetail
		Reserve         *Amount
		ReserveCurrency Currency
		RevenueTarget   *Amount
		Warnings        []string
	}
)

func (f IDFunc) NewID() string { return f() }

// Valid reports whether m is a known duplication mode.
func (m DuplicationMode) Valid() bool {
	return m == DuplicateAll || m == DuplicateRecurring
}

// Duplicate copies the selected data of a source month into a patch for the
// (targetYear, targetMonth) period. Duplicated transactions get a fresh id,
// a PENDING situation, the target period's label, and a due date with the
// day preserved but year and month rewritten. Card details carry forward
// with status reset to PENDING.
//
// The operation is not idempotent: applying the same patch twice appends the
// transaction set twice. Deduplication is the caller's responsibility.
func Duplicate(targetYear int, targetMonth Month, source MonthRecord, mode DuplicationMode, defaultRevenueTarget Amount, ids IDGenerator) MonthPatch {
	var patch MonthPatch
	label := targetMonth.Label(targetYear)

	for _, tx := range source.Transactions {
		if mode == DuplicateRecurring && !tx.IsRecurring {
			continue
		}
		copied := tx
		copied.ID = ids.NewID()
		copied.Situation = SituationPending
		copied.MonthRef = label
		dueDate, ok := RewriteDueDate(tx.DueDate, targetYear, targetMonth)
		if !ok && tx.DueDate != "" {
			patch.Warnings = append(patch.Warnings,
				fmt.Sprintf("transaction %q: due date %q not parseable, kept unchanged", tx.Description, tx.DueDate))
		}
		copied.DueDate = dueDate
		patch.Transactions = append(patch.Transactions, copied)
	}

	if mode == DuplicateAll {
		patch.Balances = make(map[string]Amount, len(source.Balances))
		for id, balance := range source.Balances {
			patch.Balances[id] = balance
		}

		patch.CardDetails = make(map[string]CardDetail, len(source.CardDetails))
		for id, detail := range source.CardDetails {
			remapped := detail
			remapped.Status = SituationPending
			if detail.DueDate != "" {
				remapped.DueDate, _ = RewriteDueDate(detail.DueDate, targetYear, targetMonth)
			}
			patch.CardDetails[id] = remapped
		}

		reserve := source.Reserve
		patch.Reserve = &reserve
		patch.ReserveCurrency = source.ReserveCurrency
		if patch.ReserveCurrency == "" {
			patch.ReserveCurrency = BRL
		}

		target := source.RevenueTarget
		if target.IsZero() {
			target = defaultRevenueTarget
		}
		patch.RevenueTarget = &target
	}

	return patch
}

// ApplyTo merges the patch into a target record: transactions are appended
// to whatever already exists, while balances, card details, reserve and
// revenue target are overwritten wholesale when the patch carries them.
// Overwriting is deliberate: duplication re-seeds a blank month, it does not
// merge two months' balances.
func (p MonthPatch) ApplyTo(target MonthRecord) MonthRecord {
	target.Transactions = append(target.Transactions, p.Transactions...)
	if p.Balances != nil {
		target.Balances = p.Balances
	}
	if p.CardDetails != nil {
		target.CardDetails = p.CardDetails
	}
	if p.Reserve != nil {
		target.Reserve = *p.Reserve
	}
	if p.ReserveCurrency != "" {
		target.ReserveCurrency = p.ReserveCurrency
	}
	if p.RevenueTarget != nil {
		target.RevenueTarget = *p.RevenueTarget
	}
	return target
}

// RewriteDueDate keeps the day component of an ISO date (parsed positionally
// as YYYY-MM-DD) and rewrites year and month to the target period. When the
// string does not look like an ISO date the original is returned unchanged
// and ok is false; the failure is never fatal.
func RewriteDueDate(date string, year int, month Month) (rewritten string, ok bool) {
	if len(date) < 10 || date[4] != '-' || date[7] != '-' {
		return date, false
	}
	day, err := strconv.Atoi(date[8:10])
	if err != nil || day < 1 || day > 31 {
		return date, false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month.Number(), day), true
}
