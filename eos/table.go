package eos

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/mesatables/math/interpolate"
)

// Tabulated column indices within a VolumeEnergyTable. The four slope
// columns are dimensionless log-log derivatives and get converted to
// linear-space derivatives on the fly.
const (
	colLogDensity = iota
	colLogPressure
	colLogPgas
	colLogTemperature
	colLogEntropy
	colDLogPresDLogDens // dlogP/dlogrho at constant e
	colDLogPresDLogEner // dlogP/dloge at constant rho
	colDLogTempDLogDens // dlogT/dlogrho at constant e
	colDLogTempDLogEner // dlogT/dloge at constant rho
	colGamma1
	colGamma
	nCols
)

// Regime tags the family of source tables a grid was stitched together
// from. The tag decides which boundary policy interpolation uses near the
// grid edges.
type Regime int

const (
	// RegimeBlendDE tags the standard MESA density-energy blend, which is
	// already reinterpolated onto one continuous grid. Queries past its
	// edges clamp to the boundary value.
	RegimeBlendDE Regime = 1
)

func (r Regime) String() string {
	switch r {
	case RegimeBlendDE:
		return "DE-blend"
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

func (r Regime) valid() bool { return r == RegimeBlendDE }

// boundaryPolicy returns the stencil policy used for in-table queries.
func (r Regime) boundaryPolicy() interpolate.Policy {
	return interpolate.Clamp
}

// VolumeEnergyTable tabulates the equation of state at a fixed composition
// over a regular (log energy, log volume) grid, where the volume variable
// is logV = 20 + logrho - 0.7*logE. Tables are immutable after
// construction and can be shared between any number of states.
type VolumeEnergyTable struct {
	metallicity float64
	hFrac       float64
	regime      Regime

	logEnergy *interpolate.Grid
	logVolume *interpolate.Grid

	// One slice per column, each len(logEnergy)*len(logVolume), with the
	// volume index minor.
	cols [nCols][]float64
}

// Metallicity returns the table's metal mass fraction.
func (t *VolumeEnergyTable) Metallicity() float64 { return t.metallicity }

// HFrac returns the table's hydrogen mass fraction.
func (t *VolumeEnergyTable) HFrac() float64 { return t.hFrac }

// Regime returns the table's source regime tag.
func (t *VolumeEnergyTable) Regime() Regime { return t.regime }

// LogEnergy returns the log specific internal energy axis.
func (t *VolumeEnergyTable) LogEnergy() *interpolate.Grid { return t.logEnergy }

// LogVolume returns the log volume axis.
func (t *VolumeEnergyTable) LogVolume() *interpolate.Grid { return t.logVolume }

// column maps a directly tabulated StateVar to its column index.
func column(v StateVar) (c int, ok bool) {
	switch v {
	case LogDensity:
		return colLogDensity, true
	case LogPressure:
		return colLogPressure, true
	case LogPgas:
		return colLogPgas, true
	case LogTemperature:
		return colLogTemperature, true
	case LogEntropy:
		return colLogEntropy, true
	case Gamma1:
		return colGamma1, true
	case Gamma:
		return colGamma, true
	}
	return -1, false
}

// stencils builds the two spline stencils for a query point under the
// table's boundary policy. This cannot fail under Clamp.
func (t *VolumeEnergyTable) stencils(
	logE, logV float64,
) (est, vst interpolate.SplineStencil) {
	pol := t.regime.boundaryPolicy()
	est, err := t.logEnergy.SplineStencil(logE, pol)
	if err != nil {
		panic(err.Error())
	}
	vst, err = t.logVolume.SplineStencil(logV, pol)
	if err != nil {
		panic(err.Error())
	}
	return est, vst
}

// value interpolates a single column at prebuilt stencils.
func (t *VolumeEnergyTable) value(
	est, vst interpolate.SplineStencil, c int,
) float64 {
	v, _, _ := interpolate.BiSpline(est, vst, t.cols[c], t.logVolume.N())
	return v
}

// At returns the given state variable at a point inside the table. Points
// past the table edges are clamped to the boundary, so the result is
// always finite for finite input.
func (t *VolumeEnergyTable) At(logE, logV float64, v StateVar) float64 {
	est, vst := t.stencils(logE, logV)
	return atStateVar(func(c int) float64 {
		return t.value(est, vst, c)
	}, logE, v)
}

// atStateVar derives a state variable from interpolated column values. The
// column closure lets the same per-variable formulas run against a single
// table or a composition-blended pair of tables: columns are always
// blended first and chain rules applied second, which keeps derivatives
// consistent with the values they describe.
func atStateVar(value func(c int) float64, logE float64, v StateVar) float64 {
	if c, ok := column(v); ok {
		return value(c)
	}

	energy := math.Pow(10, logE)
	rho := math.Pow(10, value(colLogDensity))

	switch v {
	case DPresDDensEcst:
		pres := math.Pow(10, value(colLogPressure))
		return interpolate.LogLogSlopeToDeriv(
			value(colDLogPresDLogDens), pres, rho)
	case DPresDEnerDcst:
		pres := math.Pow(10, value(colLogPressure))
		return interpolate.LogLogSlopeToDeriv(
			value(colDLogPresDLogEner), pres, energy)
	case DTempDDensEcst:
		temp := math.Pow(10, value(colLogTemperature))
		return interpolate.LogLogSlopeToDeriv(
			value(colDLogTempDLogDens), temp, rho)
	case DTempDEnerDcst:
		temp := math.Pow(10, value(colLogTemperature))
		return interpolate.LogLogSlopeToDeriv(
			value(colDLogTempDLogEner), temp, energy)
	case DTempDPresScst:
		return dTempDPresScst(value, rho, energy)
	}

	panic(fmt.Sprintf("Value %d out of range for StateVar type.", int(v)))
}

// dTempDPresScst combines the four base partials into (dT/dP) at constant
// entropy. Along an adiabat the first law gives de = (P/rho^2) drho, so
//
//	(dT/dP)_S = (T_rho + (P/rho^2) T_e) / (P_rho + (P/rho^2) P_e)
//
// with all four partials taken in (rho, e) space.
func dTempDPresScst(value func(c int) float64, rho, energy float64) float64 {
	pres := math.Pow(10, value(colLogPressure))
	temp := math.Pow(10, value(colLogTemperature))

	tRho := interpolate.LogLogSlopeToDeriv(
		value(colDLogTempDLogDens), temp, rho)
	tEner := interpolate.LogLogSlopeToDeriv(
		value(colDLogTempDLogEner), temp, energy)
	pRho := interpolate.LogLogSlopeToDeriv(
		value(colDLogPresDLogDens), pres, rho)
	pEner := interpolate.LogLogSlopeToDeriv(
		value(colDLogPresDLogEner), pres, energy)

	w := pres / (rho * rho)
	return (tRho + w*tEner) / (pRho + w*pEner)
}

// AtDeriv interpolates a directly tabulated state variable and returns its
// partial derivatives against the two log axes alongside the value.
// AtDeriv panics when given a derived variable, which has no single
// tabulated column.
func (t *VolumeEnergyTable) AtDeriv(
	logE, logV float64, v StateVar,
) (val, dLogE, dLogV float64) {
	c, ok := column(v)
	if !ok {
		panic(fmt.Sprintf("StateVar %v is not a tabulated quantity.", v))
	}
	est, vst := t.stencils(logE, logV)
	return interpolate.BiSpline(est, vst, t.cols[c], t.logVolume.N())
}

// blend linearly combines two tables defined on the same grid, with weight
// w on t. It is the building block for interpolation across composition.
func (t *VolumeEnergyTable) blend(
	other *VolumeEnergyTable, w, metallicity, hFrac float64,
) *VolumeEnergyTable {
	if !interpolate.IsClose(t.logEnergy.First(), other.logEnergy.First()) ||
		!interpolate.IsClose(t.logEnergy.Last(), other.logEnergy.Last()) ||
		!interpolate.IsClose(t.logVolume.First(), other.logVolume.First()) ||
		!interpolate.IsClose(t.logVolume.Last(), other.logVolume.Last()) ||
		t.logEnergy.N() != other.logEnergy.N() ||
		t.logVolume.N() != other.logVolume.N() {
		panic("Tables blended across composition have mismatched grids.")
	}
	if t.regime != other.regime {
		panic("Tables blended across composition have mismatched regimes.")
	}

	out := &VolumeEnergyTable{
		metallicity: metallicity,
		hFrac:       hFrac,
		regime:      t.regime,
		logEnergy:   t.logEnergy,
		logVolume:   t.logVolume,
	}
	for c := 0; c < nCols; c++ {
		vals := make([]float64, len(t.cols[c]))
		for i := range vals {
			vals[i] = w*t.cols[c][i] + (1-w)*other.cols[c][i]
		}
		out.cols[c] = vals
	}
	return out
}
