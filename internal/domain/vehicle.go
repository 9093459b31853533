package domain

type FuelType string

const (
	FuelDiesel   FuelType = "diesel"
	FuelPetrol   FuelType = "petrol"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
	FuelGas      FuelType = "gas"
)

// Label returns the user-facing fuel label for attribute fields.
func (f FuelType) Label() string {
	switch f {
	case FuelDiesel:
		return "Dizel"
	case FuelPetrol:
		return "Benzin"
	case FuelHybrid:
		return "Hibrid"
	case FuelElectric:
		return "Elektro"
	case FuelGas:
		return "Plin"
	default:
		return ""
	}
}

// VehicleCandidate is one possible resolution of a chassis code or model
// shortcut. Ambiguous codes yield multiple candidates; disambiguation by
// trailing tokens happens in the lookup, not here.
type VehicleCandidate struct {
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Variant    string   `json:"variant,omitempty"`
	Fuel       FuelType `json:"fuel,omitempty"`
	Generation string   `json:"generation,omitempty"`
	Years      string   `json:"years,omitempty"`
}
