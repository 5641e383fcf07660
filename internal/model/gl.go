package model

import "github.com/shopspring/decimal"

// GLEntry is one row of a GL export: a coordinate, the fixed fifth
// segment, and a signed amount (positive = debit).
type GLEntry struct {
	Code   GLCode
	S5     string
	Amount decimal.Decimal
}
