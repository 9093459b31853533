package resolve

import (
	"strings"

	"oglasnik/importer/internal/domain"
)

type itemRule struct {
	keywords []string
	item     string
}

// Deterministic item rules per subcategory, evaluated first-match-wins.
// A rule's target item may be missing from the taxonomy list supplied at
// runtime; such targets are fuzzy-matched and otherwise discarded rather
// than emitted, so the validity invariant holds regardless of rule drift.
var itemRulesBySubcategory = map[string][]itemRule{
	"osobni automobili": {
		{[]string{"golf", "passat", "tiguan", "touran", "polo", "caddy", "bora", "jetta", "vw"}, "Volkswagen"},
		{[]string{"bmw"}, "BMW"},
		{[]string{"mercedes", "benz"}, "Mercedes-Benz"},
		{[]string{"audi"}, "Audi"},
		{[]string{"škoda", "skoda", "octavia", "fabia", "superb"}, "Škoda"},
		{[]string{"renault", "clio", "megane", "laguna"}, "Renault"},
		{[]string{"opel", "astra", "corsa", "vectra", "zafira"}, "Opel"},
		{[]string{"fiat", "punto", "stilo"}, "Fiat"},
		{[]string{"peugeot"}, "Peugeot"},
		{[]string{"citroen", "citroën"}, "Citroën"},
		{[]string{"toyota", "corolla", "yaris"}, "Toyota"},
		{[]string{"ford", "focus", "fiesta", "mondeo"}, "Ford"},
	},
	"motocikli": {
		{[]string{"yamaha"}, "Yamaha"},
		{[]string{"honda"}, "Honda"},
		{[]string{"suzuki"}, "Suzuki"},
		{[]string{"kawasaki"}, "Kawasaki"},
		{[]string{"piaggio", "vespa"}, "Piaggio"},
	},
	"mobilni telefoni": {
		{[]string{"iphone", "apple"}, "Apple"},
		{[]string{"samsung", "galaxy"}, "Samsung"},
		{[]string{"xiaomi", "redmi", "poco"}, "Xiaomi"},
		{[]string{"huawei"}, "Huawei"},
		{[]string{"nokia"}, "Nokia"},
	},
	"laptopi": {
		{[]string{"thinkpad", "lenovo"}, "Lenovo"},
		{[]string{"macbook", "apple"}, "Apple"},
		{[]string{"dell"}, "Dell"},
		{[]string{"hp ", "pavilion", "elitebook"}, "HP"},
		{[]string{"asus"}, "Asus"},
		{[]string{"acer"}, "Acer"},
	},
	"dijelovi za automobile": {
		{[]string{"motor", "glava motora", "turbina", "alternator"}, "Motor i dijelovi motora"},
		{[]string{"mjenjač", "mjenjac", "kvačilo", "kvacilo"}, "Mjenjač i prenos"},
		{[]string{"far", "stop svjetlo", "žmigavac", "zmigavac"}, "Svjetla i signalizacija"},
		{[]string{"branik", "hauba", "vrata", "krilo"}, "Karoserija"},
		{[]string{"felge", "gume", "točkovi", "tockovi"}, "Felge i gume"},
	},
}

// Preferred fallback item per subcategory when no rule fires; resolved
// before the generic "Ostalo"/first-item ladder.
var subcategoryFallbackItem = map[string]string{
	"osobni automobili":      "Ostalo",
	"motocikli":              "Ostalo",
	"mobilni telefoni":       "Ostalo",
	"laptopi":                "Ostalo",
	"dijelovi za automobile": "Ostalo",
}

// Names treated as the generic catch-all leaf.
var catchAllItems = []string{"Ostalo", "Other", "Razno"}

// validateItem checks item against the subcategory's closed item list:
// verbatim (case-insensitive, returning the list's canonical casing)
// first, then a stem-aware fuzzy pass.
func validateItem(group *domain.SubCategoryGroup, item string) (string, bool) {
	item = strings.TrimSpace(item)
	if item == "" || len(group.Items) == 0 {
		return "", false
	}

	for _, candidate := range group.Items {
		if strings.EqualFold(candidate, item) {
			return candidate, true
		}
	}
	for _, candidate := range group.Items {
		if StemMatch(item, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// fallbackItem returns a guaranteed member of the subcategory's item list:
// ordered keyword rules, the subcategory's preferred fallback, any
// catch-all item, then the first item. Callers must not invoke this on an
// empty item list.
func fallbackItem(group *domain.SubCategoryGroup, text string) string {
	subKey := strings.ToLower(group.Name)
	textLower := strings.ToLower(text)

	for _, rule := range itemRulesBySubcategory[subKey] {
		for _, kw := range rule.keywords {
			if strings.Contains(textLower, kw) {
				if valid, ok := validateItem(group, rule.item); ok {
					return valid
				}
				break // Rule target absent from the taxonomy list; discard the rule.
			}
		}
	}

	if preferred, ok := subcategoryFallbackItem[subKey]; ok {
		if valid, ok := validateItem(group, preferred); ok {
			return valid
		}
	}

	for _, catchAll := range catchAllItems {
		for _, candidate := range group.Items {
			if strings.EqualFold(candidate, catchAll) {
				return candidate
			}
		}
	}

	return group.Items[0]
}
