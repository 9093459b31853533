package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Phrases that regularly show up where a city name should be. All lowercase.
var locationBlacklist = []string{
	"novo", "korišteno", "koristeno", "polovno", "rabljeno", "kao novo",
	"vozila", "nekretnine", "ostalo", "cijena", "besplatno", "dogovor",
	"na upit", "dostava", "prodaja", "condition", "used", "new",
}

var jsonLDLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"addressLocality"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"addressRegion"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"location"\s*:\s*\{[^}]*?"name"\s*:\s*"([^"]+)"`),
}

// Inline-JSON patterns catch client-rendered state embedded in script
// tags, including once-escaped variants.
var inlineJSONLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"(?:city|cityName|locationName|grad)"\s*:\s*"([^"]{2,50})"`),
	regexp.MustCompile(`\\"(?:city|cityName|locationName|grad)\\":\\"([^"\\]{2,50})\\"`),
	regexp.MustCompile(`"location"\s*:\s*"([^"]{2,50})"`),
}

var geoMetaKeys = []string{"geo.placename", "og:locality", "place:location:locality", "og:region"}

// extractLocation walks the source-priority chain for the ad's city or
// region. Structured data is trusted unconditionally when present; the DOM
// and inline-JSON fallbacks are each gated by a plausibility check.
func extractLocation(doc *goquery.Document, rawHTML, jsonLD string, meta map[string]string) string {
	for _, re := range jsonLDLocationPatterns {
		if m := re.FindStringSubmatch(jsonLD); len(m) > 1 {
			if loc := cleanLocation(m[1]); loc != "" {
				return loc
			}
		}
	}

	for _, key := range geoMetaKeys {
		if loc := cleanLocation(meta[key]); loc != "" {
			return loc
		}
	}

	for _, re := range inlineJSONLocationPatterns {
		if m := re.FindStringSubmatch(rawHTML); len(m) > 1 {
			if loc := cleanLocation(m[1]); loc != "" {
				return loc
			}
		}
	}

	return locationFromDOM(doc)
}

var locationLabels = []string{"lokacija", "grad", "mjesto", "location", "city"}

func locationFromDOM(doc *goquery.Document) string {
	// Definition-list rows: <dt>Lokacija</dt><dd>Sarajevo</dd> and the
	// table-row equivalent.
	var found string
	doc.Find("dt, th, td.label, span.label").EachWithBreak(func(i int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		for _, want := range locationLabels {
			if strings.Contains(label, want) {
				value := strings.TrimSpace(s.Next().Text())
				if loc := cleanLocation(value); loc != "" {
					found = loc
					return false
				}
			}
		}
		return true
	})
	if found != "" {
		return found
	}

	for _, selector := range []string{".location", ".ad-location", "[itemprop=address]", ".grad"} {
		if loc := cleanLocation(doc.Find(selector).First().Text()); loc != "" {
			return loc
		}
	}

	return ""
}

// cleanLocation applies the plausibility gate: 2-50 chars, no markup or
// digits-heavy noise, not a known non-location phrase.
func cleanLocation(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 50 {
		return ""
	}
	if strings.ContainsAny(s, "{}<>=|") {
		return ""
	}

	lower := strings.ToLower(s)
	for _, bad := range locationBlacklist {
		if lower == bad || strings.HasPrefix(lower, bad+" ") {
			return ""
		}
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits > len(s)/2 {
		return ""
	}

	return s
}
