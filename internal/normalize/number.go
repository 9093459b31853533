package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var thousandsGroupedRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)

// ParseLocalizedNumber parses prices and counts written either in the
// regional convention (dot thousands, comma decimal: "8.500", "8,50") or
// plain. Values that do not parse, or parse to <= 0, return ok=false.
func ParseLocalizedNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	if thousandsGroupedRe.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
