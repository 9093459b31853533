package vehicle

import (
	"regexp"

	"oglasnik/importer/internal/domain"
)

// chassisCodes maps manufacturer chassis/platform codes to candidates.
// Ambiguous codes carry every plausible candidate; disambiguation by
// trailing tokens happens in Lookup. Keys are lowercase.
var chassisCodes = map[string][]domain.VehicleCandidate{
	// Volkswagen Golf
	"1j":  {{Brand: "Volkswagen", Model: "Golf", Generation: "IV", Years: "1997-2003"}},
	"mk4": {{Brand: "Volkswagen", Model: "Golf", Generation: "IV", Years: "1997-2003"}},
	"1k":  {{Brand: "Volkswagen", Model: "Golf", Generation: "V", Years: "2003-2008"}},
	"mk5": {{Brand: "Volkswagen", Model: "Golf", Generation: "V", Years: "2003-2008"}},
	"5k":  {{Brand: "Volkswagen", Model: "Golf", Generation: "VI", Years: "2008-2012"}},
	"mk6": {{Brand: "Volkswagen", Model: "Golf", Generation: "VI", Years: "2008-2012"}},
	"5g":  {{Brand: "Volkswagen", Model: "Golf", Generation: "VII", Years: "2012-2019"}},
	"mk7": {{Brand: "Volkswagen", Model: "Golf", Generation: "VII", Years: "2012-2019"}},
	"mk8": {{Brand: "Volkswagen", Model: "Golf", Generation: "VIII", Years: "2019-"}},

	// B platform: shared numbering between VW Passat and Audi A4.
	"b5": {
		{Brand: "Volkswagen", Model: "Passat", Generation: "B5", Years: "1996-2005"},
		{Brand: "Audi", Model: "A4", Generation: "B5", Years: "1994-2001"},
	},
	"b6": {
		{Brand: "Volkswagen", Model: "Passat", Generation: "B6", Years: "2005-2010"},
		{Brand: "Audi", Model: "A4", Generation: "B6", Years: "2000-2006"},
	},
	"b7": {
		{Brand: "Volkswagen", Model: "Passat", Generation: "B7", Years: "2010-2014"},
		{Brand: "Audi", Model: "A4", Generation: "B7", Years: "2004-2008"},
	},
	"b8": {
		{Brand: "Audi", Model: "A4", Generation: "B8", Years: "2007-2015"},
		{Brand: "Volkswagen", Model: "Passat", Generation: "B8", Years: "2014-2023"},
	},

	// Audi A3 / A6
	"8l": {{Brand: "Audi", Model: "A3", Generation: "8L", Years: "1996-2003"}},
	"8p": {{Brand: "Audi", Model: "A3", Generation: "8P", Years: "2003-2013"}},
	"8v": {{Brand: "Audi", Model: "A3", Generation: "8V", Years: "2012-2020"}},
	"c5": {{Brand: "Audi", Model: "A6", Generation: "C5", Years: "1997-2004"}},
	"c6": {{Brand: "Audi", Model: "A6", Generation: "C6", Years: "2004-2011"}},
	"c7": {{Brand: "Audi", Model: "A6", Generation: "C7", Years: "2011-2018"}},

	// BMW 3 Series
	"e36": {{Brand: "BMW", Model: "3 Series", Generation: "E36", Years: "1990-2000"}},
	"e46": {{Brand: "BMW", Model: "3 Series", Generation: "E46", Years: "1998-2006"}},
	"e90": {{Brand: "BMW", Model: "3 Series", Generation: "E90", Years: "2005-2013"}},
	"f30": {{Brand: "BMW", Model: "3 Series", Generation: "F30", Years: "2012-2019"}},
	"g20": {{Brand: "BMW", Model: "3 Series", Generation: "G20", Years: "2019-"}},

	// BMW 5 Series
	"e39": {{Brand: "BMW", Model: "5 Series", Generation: "E39", Years: "1995-2004"}},
	"e60": {{Brand: "BMW", Model: "5 Series", Generation: "E60", Years: "2003-2010"}},
	"f10": {{Brand: "BMW", Model: "5 Series", Generation: "F10", Years: "2010-2017"}},
	"g30": {{Brand: "BMW", Model: "5 Series", Generation: "G30", Years: "2017-"}},

	// Mercedes-Benz C-Class
	"w202": {{Brand: "Mercedes-Benz", Model: "C-Class", Generation: "W202", Years: "1993-2000"}},
	"w203": {{Brand: "Mercedes-Benz", Model: "C-Class", Generation: "W203", Years: "2000-2007"}},
	"w204": {{Brand: "Mercedes-Benz", Model: "C-Class", Generation: "W204", Years: "2007-2014"}},
	"w205": {{Brand: "Mercedes-Benz", Model: "C-Class", Generation: "W205", Years: "2014-2021"}},

	// Mercedes-Benz E-Class
	"w210": {{Brand: "Mercedes-Benz", Model: "E-Class", Generation: "W210", Years: "1995-2002"}},
	"w211": {{Brand: "Mercedes-Benz", Model: "E-Class", Generation: "W211", Years: "2002-2009"}},
	"w212": {{Brand: "Mercedes-Benz", Model: "E-Class", Generation: "W212", Years: "2009-2016"}},
	"w213": {{Brand: "Mercedes-Benz", Model: "E-Class", Generation: "W213", Years: "2016-"}},
}

// modelShortcuts maps bare model names to their single canonical brand.
var modelShortcuts = map[string]domain.VehicleCandidate{
	"golf":    {Brand: "Volkswagen", Model: "Golf"},
	"passat":  {Brand: "Volkswagen", Model: "Passat"},
	"polo":    {Brand: "Volkswagen", Model: "Polo"},
	"caddy":   {Brand: "Volkswagen", Model: "Caddy"},
	"tiguan":  {Brand: "Volkswagen", Model: "Tiguan"},
	"touran":  {Brand: "Volkswagen", Model: "Touran"},
	"octavia": {Brand: "Škoda", Model: "Octavia"},
	"fabia":   {Brand: "Škoda", Model: "Fabia"},
	"superb":  {Brand: "Škoda", Model: "Superb"},
	"clio":    {Brand: "Renault", Model: "Clio"},
	"megane":  {Brand: "Renault", Model: "Megane"},
	"laguna":  {Brand: "Renault", Model: "Laguna"},
	"astra":   {Brand: "Opel", Model: "Astra"},
	"corsa":   {Brand: "Opel", Model: "Corsa"},
	"vectra":  {Brand: "Opel", Model: "Vectra"},
	"zafira":  {Brand: "Opel", Model: "Zafira"},
	"punto":   {Brand: "Fiat", Model: "Punto"},
	"stilo":   {Brand: "Fiat", Model: "Stilo"},
	"focus":   {Brand: "Ford", Model: "Focus"},
	"fiesta":  {Brand: "Ford", Model: "Fiesta"},
	"mondeo":  {Brand: "Ford", Model: "Mondeo"},
	"corolla": {Brand: "Toyota", Model: "Corolla"},
	"yaris":   {Brand: "Toyota", Model: "Yaris"},
	"leon":    {Brand: "Seat", Model: "Leon"},
	"ibiza":   {Brand: "Seat", Model: "Ibiza"},
}

// brandNames maps brand tokens to canonical brand names.
var brandNames = map[string]string{
	"vw":         "Volkswagen",
	"volkswagen": "Volkswagen",
	"bmw":        "BMW",
	"mercedes":   "Mercedes-Benz",
	"benz":       "Mercedes-Benz",
	"audi":       "Audi",
	"škoda":      "Škoda",
	"skoda":      "Škoda",
	"renault":    "Renault",
	"opel":       "Opel",
	"fiat":       "Fiat",
	"peugeot":    "Peugeot",
	"citroen":    "Citroën",
	"citroën":    "Citroën",
	"toyota":     "Toyota",
	"ford":       "Ford",
	"seat":       "Seat",
	"nissan":     "Nissan",
	"honda":      "Honda",
	"hyundai":    "Hyundai",
	"kia":        "Kia",
	"mazda":      "Mazda",
	"volvo":      "Volvo",
}

// fuelTokens decodes engine-code suffixes and standalone fuel words.
var fuelTokens = map[string]domain.FuelType{
	"tdi":      domain.FuelDiesel,
	"cdi":      domain.FuelDiesel,
	"hdi":      domain.FuelDiesel,
	"dci":      domain.FuelDiesel,
	"crdi":     domain.FuelDiesel,
	"jtd":      domain.FuelDiesel,
	"d":        domain.FuelDiesel,
	"dizel":    domain.FuelDiesel,
	"diesel":   domain.FuelDiesel,
	"tsi":      domain.FuelPetrol,
	"tfsi":     domain.FuelPetrol,
	"fsi":      domain.FuelPetrol,
	"mpi":      domain.FuelPetrol,
	"i":        domain.FuelPetrol,
	"benzin":   domain.FuelPetrol,
	"benzinac": domain.FuelPetrol,
	"hybrid":   domain.FuelHybrid,
	"hibrid":   domain.FuelHybrid,
	"e":        domain.FuelElectric,
	"elektro":  domain.FuelElectric,
	"electric": domain.FuelElectric,
	"lpg":      domain.FuelGas,
	"cng":      domain.FuelGas,
	"plin":     domain.FuelGas,
}

var (
	// 320d, 118i, 530e and similar BMW series codes.
	bmwSeriesRe = regexp.MustCompile(`^([1-8])(\d{2})(d|i|e|td)?$`)
	// c220d, e200, a180 and similar Mercedes class codes.
	mercedesClassRe = regexp.MustCompile(`^([abceglsv])(\d{2,3})(d|e|cdi)?$`)
)
