package eos

import (
	"fmt"
)

// StateVar selects the physical quantity returned by a state's Compute
// call.
type StateVar int

const (
	// LogDensity is log10 of the mass density, g/cm^3.
	LogDensity StateVar = iota
	// LogPressure is log10 of the total pressure, erg/cm^3.
	LogPressure
	// LogPgas is log10 of the gas pressure, erg/cm^3.
	LogPgas
	// LogTemperature is log10 of the temperature, K.
	LogTemperature
	// DPresDDensEcst is dP/drho at constant specific internal energy.
	DPresDDensEcst
	// DPresDEnerDcst is dP/de at constant density.
	DPresDEnerDcst
	// DTempDDensEcst is dT/drho at constant specific internal energy.
	DTempDDensEcst
	// DTempDEnerDcst is dT/de at constant density.
	DTempDEnerDcst
	// LogEntropy is log10 of the specific entropy, erg/g/K.
	LogEntropy
	// DTempDPresScst is dT/dP at constant specific entropy.
	DTempDPresScst
	// Gamma1 is the first adiabatic exponent, dlnP/dlnrho at constant
	// entropy.
	Gamma1
	// Gamma is the ratio of specific heats.
	Gamma
	// EndStateVar marks the end of the valid StateVar range.
	EndStateVar
)

func (v StateVar) String() string {
	switch v {
	case LogDensity:
		return "LogDensity"
	case LogPressure:
		return "LogPressure"
	case LogPgas:
		return "LogPgas"
	case LogTemperature:
		return "LogTemperature"
	case DPresDDensEcst:
		return "DPresDDensEcst"
	case DPresDEnerDcst:
		return "DPresDEnerDcst"
	case DTempDDensEcst:
		return "DTempDDensEcst"
	case DTempDEnerDcst:
		return "DTempDEnerDcst"
	case LogEntropy:
		return "LogEntropy"
	case DTempDPresScst:
		return "DTempDPresScst"
	case Gamma1:
		return "Gamma1"
	case Gamma:
		return "Gamma"
	}
	panic(fmt.Sprintf("Value %d out of range for StateVar type.", int(v)))
}

// StateVarFromString parses a StateVar name, as produced by String.
func StateVarFromString(str string) (v StateVar, ok bool) {
	for v = 0; v < EndStateVar; v++ {
		if v.String() == str {
			return v, true
		}
	}
	return 0, false
}
