package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"oglasnik/importer/internal/domain"
)

// Apply fills the listing's price, currency, year, mileage, condition and
// location from the extraction bundle. Every sub-field follows a fixed
// source-priority chain and stops at the first success; fields already set
// by a higher-priority source are left alone. Malformed values are skipped
// silently, never raised.
func Apply(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	normalizePriceType(listing, bundle)
	normalizePrice(listing, bundle)
	normalizeCurrency(listing, bundle)
	normalizeYear(listing, bundle)
	normalizeMileage(listing, bundle)
	normalizeCondition(listing, bundle)
	normalizeLocation(listing, bundle)
}

var onRequestRe = regexp.MustCompile(`(?i)po\s+dogovoru|na\s+upit|cijena\s+na\s+upit|auf\s+anfrage|by\s+agreement|on\s+request|price\s+on\s+request`)

func normalizePriceType(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.PriceType != "" {
		return
	}
	if onRequestRe.MatchString(bundle.PageText) {
		listing.PriceType = domain.PriceTypeNegotiable
	}
}

var (
	jsonLDPriceRe = regexp.MustCompile(`"price"\s*:\s*"?([\d.,]+)"?`)

	// Ordered: labelled price first, then bare amount with a currency
	// token, then the symbol-suffixed and symbol-prefixed forms. The €
	// suffix gets its own pattern: \b never matches after a non-word rune.
	textPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)cijena[:\s]+([\d][\d.,]*)\s*(KM|BAM|EUR|€|USD|\$)?`),
		regexp.MustCompile(`([\d][\d.,]*)\s*(KM|BAM|EUR)\b`),
		regexp.MustCompile(`([\d][\d.,]*)\s*(€)`),
		regexp.MustCompile(`(€|\$)\s*([\d][\d.,]*)`),
	}
)

var metaPriceKeys = []string{"product:price:amount", "og:price:amount", "price"}

func normalizePrice(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.PriceType == domain.PriceTypeNegotiable {
		listing.Price = 0
		return
	}
	if listing.Price > 0 {
		return
	}

	for _, key := range metaPriceKeys {
		if v, ok := ParseLocalizedNumber(bundle.Meta[key]); ok {
			listing.Price = v
			return
		}
	}

	if m := jsonLDPriceRe.FindStringSubmatch(bundle.JSONLD); len(m) > 1 {
		if v, ok := ParseLocalizedNumber(m[1]); ok {
			listing.Price = v
			return
		}
	}

	for _, re := range textPricePatterns {
		m := re.FindStringSubmatch(bundle.PageText)
		if len(m) == 0 {
			continue
		}
		amount, token := priceMatchParts(m)
		if v, ok := ParseLocalizedNumber(amount); ok {
			listing.Price = v
			if listing.Currency == "" && token != "" {
				listing.Currency = CurrencyCode(token)
			}
			return
		}
	}
}

// priceMatchParts splits a price-pattern match into amount and currency
// token regardless of which side the token was captured on.
func priceMatchParts(m []string) (amount, token string) {
	if len(m) > 2 && (m[1] == "€" || m[1] == "$") {
		return m[2], m[1]
	}
	amount = m[1]
	if len(m) > 2 {
		token = m[2]
	}
	return amount, token
}

var jsonLDCurrencyRe = regexp.MustCompile(`"priceCurrency"\s*:\s*"([A-Za-z€$]+)"`)

var metaCurrencyKeys = []string{"product:price:currency", "og:price:currency", "pricecurrency"}

func normalizeCurrency(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.Currency != "" {
		listing.Currency = CurrencyCode(listing.Currency)
		return
	}

	for _, key := range metaCurrencyKeys {
		if v := bundle.Meta[key]; v != "" {
			listing.Currency = CurrencyCode(v)
			return
		}
	}

	if m := jsonLDCurrencyRe.FindStringSubmatch(bundle.JSONLD); len(m) > 1 {
		listing.Currency = CurrencyCode(m[1])
	}
}

// CurrencyCode canonicalizes a currency token; the local BAM/KM pair
// collapses to the local code.
func CurrencyCode(token string) string {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "BAM", "KM":
		return domain.LocalCurrency
	case "€", "EUR":
		return "EUR"
	case "$", "USD":
		return "USD"
	default:
		return strings.ToUpper(strings.TrimSpace(token))
	}
}

const (
	minYear = 1950
	maxYear = 2030
)

var (
	jsonLDYearRe = regexp.MustCompile(`"(?:vehicleModelDate|productionDate|releaseDate|dateVehicleFirstRegistered)"\s*:\s*"?(\d{4})`)

	textYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:godište|godiste|baujahr|year)[:\s]+((?:19|20)\d{2})`),
		regexp.MustCompile(`((?:19|20)\d{2})\.?\s*god`),
	}
)

func normalizeYear(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.Year != 0 {
		return
	}

	try := func(s string) bool {
		y, err := strconv.Atoi(s)
		if err != nil || y < minYear || y > maxYear {
			return false
		}
		listing.Year = y
		return true
	}

	if m := jsonLDYearRe.FindStringSubmatch(bundle.JSONLD); len(m) > 1 && try(m[1]) {
		return
	}
	for _, re := range textYearPatterns {
		if m := re.FindStringSubmatch(bundle.PageText); len(m) > 1 && try(m[1]) {
			return
		}
	}
}

const (
	minMileage = 100
	maxMileage = 2000000
)

var textMileagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:kilometraža|kilometraza|prešao|presao|km[\s-]*stand|mileage)[:\s]+([\d][\d.,]*)\s*(?:km)?`),
	regexp.MustCompile(`(?i)([\d][\d.,]*)\s*km\b`),
}

func normalizeMileage(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.Mileage != 0 {
		return
	}

	for _, re := range textMileagePatterns {
		if m := re.FindStringSubmatch(bundle.PageText); len(m) > 1 {
			if v, ok := ParseLocalizedNumber(m[1]); ok {
				km := int(v)
				if km > minMileage && km < maxMileage {
					listing.Mileage = km
					return
				}
			}
		}
	}
}

// Condition rules are ordered so that "kao novo" is never misread as plain
// "novo" and parts listings are never misread as used goods.
var conditionRules = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)kao\s+novo|like\s+new`), domain.ConditionLikeNew},
	{regexp.MustCompile(`(?i)za\s+dijelove|for\s+parts|neispravn`), domain.ConditionForParts},
	{regexp.MustCompile(`(?i)korišteno|koristeno|polovno|rabljeno|\bused\b`), domain.ConditionUsed},
	{regexp.MustCompile(`(?i)\bnovo\b|\bnew\b`), domain.ConditionNew},
}

func normalizeCondition(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	if listing.Condition != "" {
		return
	}
	listing.Condition = ClassifyCondition(bundle.PageText)
}

// ClassifyCondition maps free text onto the canonical condition labels;
// empty when nothing matches.
func ClassifyCondition(text string) string {
	for _, rule := range conditionRules {
		if rule.re.MatchString(text) {
			return rule.label
		}
	}
	return ""
}

var textLocationRe = regexp.MustCompile(`(?i)(?:lokacija|grad|location)[:\s]+([\p{Lu}][^\n,|]{1,40})`)

func normalizeLocation(listing *domain.Listing, bundle *domain.ExtractionBundle) {
	// The HTML-extracted location is authoritative over anything the AI
	// proposed.
	if bundle.Location != "" {
		listing.Location = bundle.Location
		return
	}

	if listing.Location != "" {
		if idx := strings.Index(listing.Location, ","); idx > 0 {
			listing.Location = strings.TrimSpace(listing.Location[:idx])
		}
		return
	}

	if m := textLocationRe.FindStringSubmatch(bundle.PageText); len(m) > 1 {
		listing.Location = strings.TrimSpace(m[1])
	}
}
