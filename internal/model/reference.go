package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mapping is a row of the brand mapping file.
type Mapping struct {
	GroupName    string // upper-cased
	StdBrand     string
	ClosedStatus ClosureStatus
}

// GLCode is the four-segment account coordinate shared by combinations,
// balances and entries.
type GLCode struct {
	S1 string
	S2 string
	S3 string
	S4 string
}

// ZeroCode is the coordinate assigned to lines with no combination.
var ZeroCode = GLCode{S1: "0", S2: "0", S3: "0", S4: "0"}

// Combination maps a (brand, location) pair to its GL coordinate.
type Combination struct {
	Location string
	StdBrand string
	Code     GLCode
}

// Balance is a previously booked closing balance at a GL coordinate.
type Balance struct {
	Code    GLCode
	Closing decimal.Decimal
}

// Less orders codes segment by segment, numerically where both segments
// are numbers.
func (c GLCode) Less(o GLCode) bool {
	a := [4]string{c.S1, c.S2, c.S3, c.S4}
	b := [4]string{o.S1, o.S2, o.S3, o.S4}
	for i := range a {
		if cmp := compareSegment(a[i], b[i]); cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

func compareSegment(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(a, b)
}

// NormalizeSegment canonicalizes a GL segment so that "101", "101.0" and
// " 101 " join to each other. Non-numeric segments are only trimmed and an
// empty segment becomes "0".
func NormalizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d.String()
	}
	return s
}
