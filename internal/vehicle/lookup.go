package vehicle

import (
	"strings"
	"unicode"

	"oglasnik/importer/internal/domain"
)

// Lookup maps free-text vehicle tokens to zero or more candidates.
// Pure and deterministic: the first token is tried against the exact
// chassis-code table, then the model-shortcut table, then brand-prefixed
// patterns (brand consumed, remainder re-looked-up), then the bare
// series-code regexes. Trailing tokens disambiguate and decode fuel.
func Lookup(text string) []domain.VehicleCandidate {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	first, rest := tokens[0], tokens[1:]

	if cands, ok := chassisCodes[first]; ok {
		out := disambiguate(cands, rest)
		for i := range out {
			applyFuel(&out[i], rest)
		}
		return out
	}

	if cand, ok := modelShortcuts[first]; ok {
		applyFuel(&cand, rest)
		return []domain.VehicleCandidate{cand}
	}

	if brand, ok := brandNames[first]; ok {
		if len(rest) > 0 {
			if cands := Lookup(strings.Join(rest, " ")); len(cands) > 0 {
				out := make([]domain.VehicleCandidate, 0, len(cands))
				for _, c := range cands {
					if c.Brand == "" || c.Brand == brand {
						c.Brand = brand
						out = append(out, c)
					}
				}
				if len(out) > 0 {
					return out
				}
			}
		}
		cand := domain.VehicleCandidate{Brand: brand}
		applyFuel(&cand, rest)
		return []domain.VehicleCandidate{cand}
	}

	if cand, ok := matchSeriesCode(first); ok {
		applyFuel(&cand, rest)
		return []domain.VehicleCandidate{cand}
	}
	return nil
}

// matchSeriesCode decodes bare alphanumeric variant codes: BMW-style
// three-digit series codes and Mercedes-style class-letter codes, both
// with an optional fuel-suffix letter.
func matchSeriesCode(token string) (domain.VehicleCandidate, bool) {
	if m := bmwSeriesRe.FindStringSubmatch(token); m != nil {
		cand := domain.VehicleCandidate{
			Brand:   "BMW",
			Model:   m[1] + " Series",
			Variant: m[1] + m[2] + m[3],
		}
		if fuel, ok := fuelTokens[m[3]]; ok {
			cand.Fuel = fuel
		}
		return cand, true
	}

	if m := mercedesClassRe.FindStringSubmatch(token); m != nil {
		cand := domain.VehicleCandidate{
			Brand:   "Mercedes-Benz",
			Model:   strings.ToUpper(m[1]) + "-Class",
			Variant: strings.ToUpper(m[1]) + m[2] + m[3],
		}
		if fuel, ok := fuelTokens[m[3]]; ok {
			cand.Fuel = fuel
		}
		return cand, true
	}
	return domain.VehicleCandidate{}, false
}

// disambiguate narrows an ambiguous chassis code using trailing tokens
// that name a brand or a model. When nothing narrows it, all candidates
// survive in table order and callers use the first.
func disambiguate(cands []domain.VehicleCandidate, rest []string) []domain.VehicleCandidate {
	if len(cands) < 2 {
		return append([]domain.VehicleCandidate(nil), cands...)
	}

	for _, token := range rest {
		brand := brandNames[token]
		model := ""
		if shortcut, ok := modelShortcuts[token]; ok {
			model = shortcut.Model
		}
		if brand == "" && model == "" {
			continue
		}

		var narrowed []domain.VehicleCandidate
		for _, c := range cands {
			if (brand != "" && c.Brand == brand) || (model != "" && c.Model == model) {
				narrowed = append(narrowed, c)
			}
		}
		if len(narrowed) > 0 {
			return narrowed
		}
	}
	return append([]domain.VehicleCandidate(nil), cands...)
}

func applyFuel(cand *domain.VehicleCandidate, rest []string) {
	if cand.Fuel != "" {
		return
	}
	for _, token := range rest {
		if fuel, ok := fuelTokens[token]; ok {
			cand.Fuel = fuel
			return
		}
		// Engine codes arrive glued to displacement, like "20tdi".
		trimmed := strings.TrimLeftFunc(token, unicode.IsDigit)
		if trimmed != token && trimmed != "" {
			if fuel, ok := fuelTokens[trimmed]; ok {
				cand.Fuel = fuel
				return
			}
		}
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
