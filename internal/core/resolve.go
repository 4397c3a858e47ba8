package core

import "fmt"

// DefaultCardDueDay is the statement due day assumed when a card has no
// explicit due date recorded for the month.
const DefaultCardDueDay = 10

// Resolve joins the asset registry with the month document identified by
// (year, month) into a materialized view. The full record set is passed in
// because resolution owns the identity-key matching; callers never pre-filter.
//
// When no record matches, a default record is synthesized with the given
// revenue target. Resolve is pure and always succeeds.
func Resolve(year int, month Month, assets []Asset, records []MonthRecord, defaultRevenueTarget Amount) ResolvedMonthView {
	key := MonthKey(year, month)

	record := DefaultMonthRecord(year, month, defaultRevenueTarget)
	for _, r := range records {
		if r.Key() == key {
			record = r
			break
		}
	}

	view := ResolvedMonthView{
		MonthRecord: record,
		Accounts:    []ResolvedAccount{},
		Cards:       []ResolvedCard{},
	}

	for _, asset := range assets {
		balance := record.Balances[asset.ID]
		switch asset.Kind {
		case Bank:
			view.Accounts = append(view.Accounts, ResolvedAccount{
				Asset:   asset,
				Balance: balance,
			})
		case Card:
			detail := record.CardDetails[asset.ID]
			dueDate := detail.DueDate
			if dueDate == "" {
				dueDate = fmt.Sprintf("%04d-%02d-%02d", year, month.Number(), DefaultCardDueDay)
			}
			status := detail.Status
			if status == "" {
				status = SituationPending
			}
			view.Cards = append(view.Cards, ResolvedCard{
				Asset:   asset,
				Balance: balance,
				DueDate: dueDate,
				Status:  status,
			})
		}
	}

	return view
}
