// Package ingest turns the uploaded tables into domain records, enforcing
// their column contracts.
package ingest

// SOH columns.
const (
	ColGroupName    = "GROUP_NAME"
	ColARComments   = "AR Comments"
	ColNetCost      = "NETTOTAL_COST"
	ColLocationName = "LOCATION_NAME"
	ColLocation     = "LOCATION"
	ColModel        = "Model"
	ColSeasonDesc   = "SEASON_DESC"
	ColSeasonDescSp = "SEASON DESC"
)

// Mapping and combination columns.
const (
	ColStdBrand     = "Std Brand"
	ColClosedStatus = "Closed_status"
)

// GL coordinate columns shared by combinations and balances.
const (
	ColS1             = "s1"
	ColS2             = "s2"
	ColS3             = "s3"
	ColS4             = "s4"
	ColClosingBalance = "Closing balance"
)

// ConsiderMarker is the AR Comments value that admits a row.
const ConsiderMarker = "Consider"

var (
	sohRequired         = []string{ColGroupName, ColARComments, ColNetCost, ColLocationName, ColModel}
	mappingRequired     = []string{ColGroupName, ColStdBrand, ColClosedStatus}
	combinationRequired = []string{ColLocation, ColStdBrand, ColS1, ColS2, ColS3, ColS4}
	balanceRequired     = []string{ColS1, ColS2, ColS3, ColS4, ColClosingBalance}
)
