// Package season turns free-text season descriptions into canonical codes
// and partitions the codes of one SOH snapshot into age buckets.
package season

import (
	"regexp"
	"strings"
)

// Canonical codes that are not of the SSyy/AWyy form.
const (
	Unknown    = "Unknown"
	Continuity = "Continuity"
	Old        = "Old-"
	Legacy     = "AW97"
)

var (
	yearPattern     = regexp.MustCompile(`20\d{2}`)
	codePattern     = regexp.MustCompile(`(SS|AW)(\d{2})`)
	swappedPattern  = regexp.MustCompile(`WA(\d{2})`)
	twoDigitPattern = regexp.MustCompile(`\d{2}`)
)

// Standardize maps a raw season description to its canonical code. An
// empty cell is passed as "". Rules are tried in order and the first match
// wins; the fallbacks are heuristics and misclassify some inputs, which the
// season crosswalk diagnostic exists to surface.
func Standardize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Unknown
	}

	if strings.Contains(s, "CONTINUITY") || strings.Contains(s, "BASICS") {
		return Continuity
	}
	if strings.Contains(s, "OLD") {
		return Old
	}

	if year := yearPattern.FindString(s); year != "" {
		yy := year[2:]
		switch {
		case containsAny(s, "SPRING", "SUMMER", "SS"):
			return "SS" + yy
		case containsAny(s, "AUTUMN", "WINTER", "AW"):
			return "AW" + yy
		}
	}

	if m := codePattern.FindStringSubmatch(s); m != nil {
		return m[1] + m[2]
	}

	// WA22 is a common transposition of AW22.
	if strings.Contains(s, "WA") {
		if m := swappedPattern.FindStringSubmatch(s); m != nil {
			return "AW" + m[1]
		}
	}

	if m := twoDigitPattern.FindString(s); m != "" {
		return "SS" + m
	}
	return Unknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
