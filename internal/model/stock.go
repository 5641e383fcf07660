package model

import "github.com/shopspring/decimal"

// ClosureStatus is a brand's lifecycle state from the mapping file.
type ClosureStatus string

const (
	ClosureClosed ClosureStatus = "Closed"
	ClosureExit   ClosureStatus = "Exit"
)

// Bucket is one of the four age tiers.
type Bucket string

const (
	Bucket1 Bucket = "bucket1"
	Bucket2 Bucket = "bucket2"
	Bucket3 Bucket = "bucket3"
	Bucket4 Bucket = "bucket4"
)

// Buckets lists the tiers in ascending age order.
var Buckets = []Bucket{Bucket1, Bucket2, Bucket3, Bucket4}

// LocationCategory classifies a stock location.
type LocationCategory string

const (
	CategoryStoreOnlineWH LocationCategory = "Store, Online & WH"
	CategoryDamage        LocationCategory = "Damage"
	CategoryLeftover      LocationCategory = "Leftover"
)

// StockLine is one SOH row after mapping, season standardization and
// scoring. Amount fields are zero until the rule engine has run.
type StockLine struct {
	GroupName    string // upper-cased GROUP_NAME
	StdBrand     string
	Mapped       bool // a Mapping row matched GroupName
	ClosedStatus ClosureStatus
	Location     string // Combination join key (LOCATION, or LOCATION_NAME)
	LocationName string
	Model        string
	NetCost      decimal.Decimal
	CostCoerced  bool // NETTOTAL_COST was blank or unparseable
	RawSeason    string

	StdSeason string
	Bucket    Bucket
	Category  LocationCategory

	PolicyRate       decimal.Decimal
	ContinuityFactor decimal.Decimal
	PolicyAmount     decimal.Decimal
	Additional       decimal.Decimal
	Total            decimal.Decimal
	Rule             string // name of the override rule that set Additional, if any

	Code           GLCode
	HasCombination bool
}

// IsClosed reports whether the line's brand is closed but still stocked.
func (l StockLine) IsClosed() bool {
	return l.ClosedStatus == ClosureClosed
}
