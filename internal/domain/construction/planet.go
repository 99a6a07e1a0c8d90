package construction

// Planet holds the environment attributes that change a building's material needs
type Planet struct {
	ID          string
	Rocky       bool
	Pressure    float64
	Temperature float64
	Gravity     float64 // not used by any requirement rule yet
}

const (
	// HighPressureThreshold: pressure strictly above it requires HSE
	HighPressureThreshold = 2.0

	// LowTemperatureThreshold: temperature strictly below it requires INS
	LowTemperatureThreshold = -25.0
)

func (p Planet) HighPressure() bool {
	return p.Pressure > HighPressureThreshold
}

func (p Planet) LowTemperature() bool {
	return p.Temperature < LowTemperatureThreshold
}
