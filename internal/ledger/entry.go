// Package ledger builds the provision journal: balanced GL entry pairs for
// the computed provision and for its difference against booked balances.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// Accounts are the fixed fifth segments of the two sides of every entry.
type Accounts struct {
	Provision string // expense side, debited by a positive provision
	Reserve   string // balance-sheet side
}

// CombinationLookup resolves a brand and location to a GL coordinate.
type CombinationLookup interface {
	Lookup(brand, location string) (model.GLCode, bool)
}

// AttachCodes returns a copy of lines with GL coordinates joined on
// (StdBrand, Location). Unmatched lines get model.ZeroCode.
func AttachCodes(lines []model.StockLine, combos CombinationLookup) []model.StockLine {
	out := make([]model.StockLine, len(lines))
	for i, l := range lines {
		code, ok := combos.Lookup(l.StdBrand, l.Location)
		if !ok {
			code = model.ZeroCode
		}
		l.Code = code
		l.HasCombination = ok
		out[i] = l
	}
	return out
}

// Group is the total provision at one GL coordinate.
type Group struct {
	Code  model.GLCode
	Total decimal.Decimal
}

// GroupTotals sums line totals by coordinate, ordered by coordinate.
func GroupTotals(lines []model.StockLine) []Group {
	totals := make(map[model.GLCode]decimal.Decimal)
	for _, l := range lines {
		totals[l.Code] = totals[l.Code].Add(l.Total)
	}
	groups := make([]Group, 0, len(totals))
	for code, total := range totals {
		groups = append(groups, Group{Code: code, Total: total})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Code.Less(groups[j].Code) })
	return groups
}

// BuildEntry books each group's provision to the provision account and its
// negation to the reserve account. Zero rows are dropped.
func BuildEntry(groups []Group, acct Accounts) []model.GLEntry {
	amounts := make([]decimal.Decimal, len(groups))
	codes := make([]model.GLCode, len(groups))
	for i, g := range groups {
		codes[i] = g.Code
		amounts[i] = g.Total
	}
	return pair(codes, amounts, acct.Provision, acct.Reserve)
}

// BuildDiff books the movement needed to bring existing balances in line
// with the provision. Groups and balances are outer-joined on coordinate,
// missing sides count as zero, and diff = -(provision + closing balance)
// goes to the reserve account with its negation on the provision account.
func BuildDiff(groups []Group, balances []model.Balance, acct Accounts) []model.GLEntry {
	provision := make(map[model.GLCode]decimal.Decimal, len(groups))
	existing := make(map[model.GLCode]decimal.Decimal, len(balances))
	var codes []model.GLCode
	seen := make(map[model.GLCode]bool)
	add := func(c model.GLCode) {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	for _, g := range groups {
		provision[g.Code] = provision[g.Code].Add(g.Total)
		add(g.Code)
	}
	for _, b := range balances {
		existing[b.Code] = existing[b.Code].Add(b.Closing)
		add(b.Code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Less(codes[j]) })

	amounts := make([]decimal.Decimal, len(codes))
	for i, c := range codes {
		amounts[i] = provision[c].Add(existing[c]).Neg()
	}
	return pair(codes, amounts, acct.Reserve, acct.Provision)
}

// pair emits every amount on the first account, then every negated amount
// on the second, skipping zeros.
func pair(codes []model.GLCode, amounts []decimal.Decimal, first, second string) []model.GLEntry {
	entries := make([]model.GLEntry, 0, 2*len(codes))
	for i, c := range codes {
		if !amounts[i].IsZero() {
			entries = append(entries, model.GLEntry{Code: c, S5: first, Amount: amounts[i]})
		}
	}
	for i, c := range codes {
		if !amounts[i].IsZero() {
			entries = append(entries, model.GLEntry{Code: c, S5: second, Amount: amounts[i].Neg()})
		}
	}
	return entries
}

// Sum totals the entries booked to account s5; an empty s5 totals all.
func Sum(entries []model.GLEntry, s5 string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if s5 == "" || e.S5 == s5 {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SumBalances totals the closing balances.
func SumBalances(balances []model.Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Closing)
	}
	return total
}

// Reconciliation is the cross-check between the provision entry and the
// diff entry on the reserve account.
type Reconciliation struct {
	EntryReserve  decimal.Decimal
	DiffReserve   decimal.Decimal
	ExistingTotal decimal.Decimal
	OK            bool
}

// Reconcile checks that the reserve side of the provision entry equals
// the reserve side of the diff entry plus the existing balances.
func Reconcile(entry, diff []model.GLEntry, balances []model.Balance, acct Accounts) Reconciliation {
	r := Reconciliation{
		EntryReserve:  Sum(entry, acct.Reserve),
		DiffReserve:   Sum(diff, acct.Reserve),
		ExistingTotal: SumBalances(balances),
	}
	r.OK = r.EntryReserve.Equal(r.DiffReserve.Add(r.ExistingTotal))
	return r
}
