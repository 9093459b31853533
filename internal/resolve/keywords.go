package resolve

import "strings"

// Canonical top-level category names used by the rule tables. The loaded
// taxonomy is the source of truth; every rule result is still validated
// against it before use.
const (
	CategoryVehicles    = "Vozila"
	CategoryCarParts    = "Auto dijelovi i oprema"
	CategoryAgriculture = "Poljoprivreda"
	CategoryRealEstate  = "Nekretnine"
	CategoryMobile      = "Mobilni uređaji"
	CategoryComputers   = "Kompjuteri"
	CategoryAppliances  = "Tehnika"
	CategoryFurniture   = "Namještaj i kućanstvo"
	CategoryClothing    = "Odjeća i obuća"
	CategorySport       = "Sport i rekreacija"
	CategoryPets        = "Kućni ljubimci"
	CategoryTools       = "Alati i mašine"
	CategoryMusic       = "Muzika i instrumenti"
	CategoryBooks       = "Knjige i časopisi"
	CategoryDefault     = "Ostalo"
)

type keywordRule struct {
	keywords []string
	category string
}

// firstMatch returns the category of the first rule with any keyword
// contained in the text. Rule order is load-bearing: reordering silently
// changes classification outcomes, so specific vocabularies (parts,
// machinery) must stay ahead of generic ones (whole vehicles).
func firstMatch(rules []keywordRule, text string) (string, bool) {
	textLower := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(textLower, kw) {
				return rule.category, true
			}
		}
	}
	return "", false
}

// breadcrumbOverrideRules map on-site navigation text to categories.
// Breadcrumbs outrank the AI proposal because sites know their own
// taxonomy. Parts before whole vehicles, machinery before vehicles.
var breadcrumbOverrideRules = []keywordRule{
	{[]string{"dijelovi", "dijelova", "autodijelovi", "oprema za vozila"}, CategoryCarParts},
	{[]string{"traktor", "poljoprivred", "mehanizacija"}, CategoryAgriculture},
	{[]string{"vozila", "automobili", "osobni automobili", "motocikli", "kamioni", "kombi"}, CategoryVehicles},
	{[]string{"nekretnine", "stanovi", "kuće", "kuce", "zemljišta", "zemljista", "poslovni prostori"}, CategoryRealEstate},
	{[]string{"mobilni", "mobiteli", "telefoni"}, CategoryMobile},
	{[]string{"kompjuteri", "računari", "racunari", "laptopi"}, CategoryComputers},
	{[]string{"bijela tehnika", "tehnika", "televizori"}, CategoryAppliances},
	{[]string{"namještaj", "namjestaj"}, CategoryFurniture},
	{[]string{"odjeća", "odjeca", "obuća", "obuca"}, CategoryClothing},
	{[]string{"sport"}, CategorySport},
	{[]string{"ljubimci", "životinje", "zivotinje"}, CategoryPets},
	{[]string{"alati", "mašine", "masine"}, CategoryTools},
}

// titleKeywordRules is the independent sanity-check classifier run over
// title+breadcrumbs. Car-parts vocabulary is checked before whole-vehicle
// vocabulary, and tractors/machinery before generic vehicle brand names,
// so a "far za golfa" listing never lands in whole vehicles.
var titleKeywordRules = []keywordRule{
	{[]string{
		"branik", "retrovizor", "alternator", "turbina", "bosch pumpa",
		"mjenjač za", "mjenjac za", "motor za", "far ", "farovi", "stop svjetlo",
		"felge", "alu felge", "gume ", "hauba", "vjetrobran", "dijelovi",
	}, CategoryCarParts},
	{[]string{"traktor", "kombajn", "motokultivator", "freza", "balirka", "plug ", "imt ", "ursus"}, CategoryAgriculture},
	{[]string{
		"golf", "passat", "audi", "bmw", "mercedes", "škoda", "skoda", "octavia",
		"punto", "clio", "astra", "polo ", "corsa", "automobil", "motocikl",
		"skuter", "kamion", "prikolica za auto", "quad",
	}, CategoryVehicles},
	{[]string{"stan ", "stana", "kuća", "kuca", "garsonjera", "apartman", "zemljište", "zemljiste", "poslovni prostor"}, CategoryRealEstate},
	{[]string{"iphone", "samsung galaxy", "xiaomi", "huawei", "mobitel", "mobilni telefon"}, CategoryMobile},
	{[]string{"laptop", "računar", "racunar", "monitor", "grafička kartica", "graficka kartica", "procesor", "tastatura"}, CategoryComputers},
	{[]string{"frižider", "frizider", "veš mašina", "ves masina", "šporet", "sporet", "televizor", "klima uređaj", "klima uredjaj"}, CategoryAppliances},
	{[]string{"kauč", "kauc", "trosjed", "ugaona garnitura", "ormar", "krevet", "komoda", "stol "}, CategoryFurniture},
	{[]string{"jakna", "patike", "cipele", "haljina", "trenerka", "čizme", "cizme"}, CategoryClothing},
	{[]string{"bicikl", "tegovi", "sprava za vježbanje", "sprava za vjezbanje", "orbitrek", "dres "}, CategorySport},
	{[]string{"štene", "stene", "pas ", "mačka", "macka", "akvarij", "papagaj"}, CategoryPets},
	{[]string{"bušilica", "busilica", "brusilica", "aparat za varenje", "motorna pila", "agregat"}, CategoryTools},
	{[]string{"gitara", "klavir", "harmonika", "sintisajzer", "bubnjevi"}, CategoryMusic},
	{[]string{"knjiga", "knjige", "roman", "udžbenik", "udzbenik", "strip"}, CategoryBooks},
}

// matchBreadcrumbOverride resolves a category from breadcrumb text.
func matchBreadcrumbOverride(breadcrumbs string) (string, bool) {
	return firstMatch(breadcrumbOverrideRules, breadcrumbs)
}

// classifyByKeywords resolves a category from title and breadcrumb text.
func classifyByKeywords(text string) (string, bool) {
	return firstMatch(titleKeywordRules, text)
}

// categoriesAgree reports whether two category names refer to the same
// category: equal, or one a substring of the other (case-insensitive).
func categoriesAgree(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
