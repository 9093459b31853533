package vehicle

import (
	"sort"
	"strings"

	"oglasnik/importer/internal/domain"
)

// fuelSynonyms feeds the search-tag set, not the fuel attribute.
var fuelSynonyms = map[domain.FuelType][]string{
	domain.FuelDiesel:   {"dizel", "diesel"},
	domain.FuelPetrol:   {"benzin", "benzinac"},
	domain.FuelHybrid:   {"hibrid", "hybrid"},
	domain.FuelElectric: {"elektro", "električni"},
	domain.FuelGas:      {"plin", "lpg"},
}

var genericVehicleTags = []string{"vozilo", "auto", "automobil"}

// Enrich back-fills vehicle attributes from the listing title and emits
// the auxiliary tag set used for search indexing. Attributes are filled
// only where empty; existing values always win. When multiple candidates
// survive disambiguation only the first is used.
func Enrich(listing *domain.Listing) {
	cands := lookupInTitle(listing.Title)
	if len(cands) == 0 {
		return
	}
	cand := cands[0]

	listing.SetAttribute("brand", cand.Brand)
	listing.SetAttribute("model", cand.Model)
	listing.SetAttribute("engine", cand.Variant)
	if cand.Generation != "" {
		listing.SetAttribute("generation", cand.Generation)
	}
	if cand.Fuel != "" {
		listing.SetAttribute("fuel", cand.Fuel.Label())
	}

	addTag(listing, cand.Brand)
	addTag(listing, cand.Model)
	for _, synonym := range codeSynonyms(cand.Brand, cand.Model) {
		addTag(listing, synonym)
	}
	if cand.Fuel != "" {
		addTag(listing, cand.Fuel.Label())
		for _, synonym := range fuelSynonyms[cand.Fuel] {
			addTag(listing, synonym)
		}
	}
	for _, tag := range genericVehicleTags {
		addTag(listing, tag)
	}
}

// lookupInTitle slides over the title tokens so that leading filler words
// like "prodajem" do not hide the vehicle tokens behind them.
func lookupInTitle(title string) []domain.VehicleCandidate {
	tokens := tokenize(title)
	for i := range tokens {
		if cands := Lookup(strings.Join(tokens[i:], " ")); len(cands) > 0 {
			return cands
		}
	}
	return nil
}

// codeSynonyms collects every chassis code and model shortcut that maps
// to the same brand and model, so a Golf V listing is findable under
// "1k" and "mk5" alike.
func codeSynonyms(brand, model string) []string {
	var out []string
	for code, cands := range chassisCodes {
		for _, c := range cands {
			if c.Brand == brand && c.Model == model {
				out = append(out, code)
				break
			}
		}
	}
	for shortcut, c := range modelShortcuts {
		if c.Brand == brand && c.Model == model {
			out = append(out, shortcut)
		}
	}
	sort.Strings(out)
	return out
}

func addTag(listing *domain.Listing, tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range listing.Tags {
		if strings.EqualFold(existing, tag) {
			return
		}
	}
	listing.Tags = append(listing.Tags, tag)
}
