package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// ValidationError describes a single violation in an entry set.
type ValidationError struct {
	Check       string
	Code        model.GLCode
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s/%s/%s/%s]: %s", e.Check, e.Code.S1, e.Code.S2, e.Code.S3, e.Code.S4, e.Description)
}

// Validate checks that an entry set is a well-formed double entry: every
// row is on one of the two accounts and nonzero, and each coordinate nets
// to zero across the two accounts.
func Validate(entries []model.GLEntry, acct Accounts) []ValidationError {
	var errs []ValidationError

	net := make(map[model.GLCode]decimal.Decimal)
	var order []model.GLCode
	for _, e := range entries {
		if e.S5 != acct.Provision && e.S5 != acct.Reserve {
			errs = append(errs, ValidationError{
				Check:       "account",
				Code:        e.Code,
				Description: fmt.Sprintf("s5 %q is neither %s nor %s", e.S5, acct.Provision, acct.Reserve),
			})
		}
		if e.Amount.IsZero() {
			errs = append(errs, ValidationError{
				Check:       "zero-amount",
				Code:        e.Code,
				Description: "zero amount rows must be dropped",
			})
		}
		if _, ok := net[e.Code]; !ok {
			order = append(order, e.Code)
		}
		net[e.Code] = net[e.Code].Add(e.Amount)
	}

	for _, c := range order {
		if !net[c].IsZero() {
			errs = append(errs, ValidationError{
				Check:       "balance",
				Code:        c,
				Description: fmt.Sprintf("coordinate nets to %s", net[c].String()),
			})
		}
	}
	return errs
}
