package rules

import (
	"strings"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// locationRules are checked highest precedence first. A name containing
// several markers takes the category of the first one listed here, so
// "sulay" beats "damage", which beats "leftover".
var locationRules = []struct {
	marker   string
	category model.LocationCategory
}{
	{"sulay", model.CategoryLeftover},
	{"damage", model.CategoryDamage},
	{"leftover", model.CategoryLeftover},
}

// Categorize classifies a location by case-insensitive substring.
func Categorize(locationName string) model.LocationCategory {
	name := strings.ToLower(locationName)
	for _, r := range locationRules {
		if strings.Contains(name, r.marker) {
			return r.category
		}
	}
	return model.CategoryStoreOnlineWH
}
