package eos

import (
	"fmt"
	"math"
)

// NewCstCompoEos resolves the bundled tables at a fixed metallicity and
// helium mass fraction. The returned table is what CstCompoState evaluates
// against and may be shared between any number of states.
func NewCstCompoEos(metallicity, heFrac float64) (*VolumeEnergyTable, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	ts, err := all.AtMetallicity(metallicity)
	if err != nil {
		return nil, err
	}
	return ts.AtHeFrac(heFrac)
}

// NewCstMetalEos resolves the bundled tables at a fixed metallicity,
// leaving the helium fraction free to vary per point.
func NewCstMetalEos(metallicity float64) (*ConstMetalTables, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	return all.AtMetallicity(metallicity)
}

// CstCompoState evaluates the equation of state for a batch of (density,
// specific internal energy) points at fixed composition. The composition
// is resolved into a single table at construction; SetState only replaces
// the point arrays, so one state can be reused across many updates.
//
// A state may be read from many goroutines at once, but SetState must not
// run concurrently with any other call on the same state.
type CstCompoState struct {
	table *VolumeEnergyTable

	logDensity, logVolume, logEnergy []float64
}

// NewCstCompoState creates a state over the given table from density and
// energy arrays of equal length.
func NewCstCompoState(
	table *VolumeEnergyTable, density, energy []float64,
) (*CstCompoState, error) {
	st := &CstCompoState{table: table}
	if err := st.SetState(density, energy); err != nil {
		return nil, err
	}
	return st, nil
}

// SetState replaces the state's density and energy arrays. The resolved
// composition table is kept: it only depends on composition, which is
// fixed for this state.
func (st *CstCompoState) SetState(density, energy []float64) error {
	if err := checkStateArrays(density, energy); err != nil {
		return err
	}
	st.logDensity, st.logVolume, st.logEnergy = logState(density, energy)
	return nil
}

// Len returns the number of points in the state.
func (st *CstCompoState) Len() int { return len(st.logEnergy) }

// Metallicity returns the state's metal mass fraction.
func (st *CstCompoState) Metallicity() float64 { return st.table.Metallicity() }

// HFrac returns the state's hydrogen mass fraction.
func (st *CstCompoState) HFrac() float64 { return st.table.HFrac() }

// LogDensity returns log10 of the state's density array, as derived from
// the construction input. The slice is a copy.
func (st *CstCompoState) LogDensity() []float64 {
	out := make([]float64, len(st.logDensity))
	copy(out, st.logDensity)
	return out
}

// Compute evaluates a state variable at every point of the state and
// returns one value per point. Points outside the tabulated domain clamp
// to the table boundary instead of failing, so a handful of edge points
// cannot abort a batch.
func (st *CstCompoState) Compute(v StateVar) []float64 {
	if v < 0 || v >= EndStateVar {
		panic(fmt.Sprintf("Value %d out of range for StateVar type.", int(v)))
	}

	out := make([]float64, len(st.logEnergy))
	for i := range out {
		out[i] = st.table.At(st.logEnergy[i], st.logVolume[i], v)
	}
	return out
}

// CstMetalState evaluates the equation of state for a batch of points at
// fixed metallicity but per-point helium fraction. Composition resolution
// happens per point inside Compute, against the table collection resolved
// once at construction.
type CstMetalState struct {
	tables *ConstMetalTables

	hFrac                            []float64
	logDensity, logVolume, logEnergy []float64
}

// NewCstMetalState creates a state over the given collection from helium
// fraction, density, and energy arrays of equal length.
func NewCstMetalState(
	tables *ConstMetalTables, heFrac, density, energy []float64,
) (*CstMetalState, error) {
	st := &CstMetalState{tables: tables}
	if err := st.SetState(heFrac, density, energy); err != nil {
		return nil, err
	}
	return st, nil
}

// SetState replaces the state's helium fraction, density, and energy
// arrays. Hydrogen fractions are revalidated against the tabulated
// composition range: that range is a hard limit of the dataset, not a
// clampable boundary.
func (st *CstMetalState) SetState(heFrac, density, energy []float64) error {
	if len(heFrac) != len(density) {
		return fmt.Errorf(
			"helium fraction array has length %d, but density array "+
				"has length %d", len(heFrac), len(density),
		)
	}
	if err := checkStateArrays(density, energy); err != nil {
		return err
	}

	z := st.tables.Metallicity()
	hFracs := st.tables.HFracs()
	hFrac := make([]float64, len(heFrac))
	for i, he := range heFrac {
		h := 1 - he - z
		if !hFracs.Contains(h) {
			return fmt.Errorf(
				"helium fraction %g at point %d gives hydrogen fraction "+
					"%g, outside the tabulated range [%g, %g]",
				he, i, h, hFracs.First(), hFracs.Last(),
			)
		}
		hFrac[i] = h
	}

	st.hFrac = hFrac
	st.logDensity, st.logVolume, st.logEnergy = logState(density, energy)
	return nil
}

// Len returns the number of points in the state.
func (st *CstMetalState) Len() int { return len(st.logEnergy) }

// Metallicity returns the state's metal mass fraction.
func (st *CstMetalState) Metallicity() float64 { return st.tables.Metallicity() }

// HFrac returns the state's per-point hydrogen mass fractions. The slice
// is a copy.
func (st *CstMetalState) HFrac() []float64 {
	out := make([]float64, len(st.hFrac))
	copy(out, st.hFrac)
	return out
}

// LogDensity returns log10 of the state's density array, as derived from
// the construction input. The slice is a copy.
func (st *CstMetalState) LogDensity() []float64 {
	out := make([]float64, len(st.logDensity))
	copy(out, st.logDensity)
	return out
}

// Compute evaluates a state variable at every point of the state and
// returns one value per point.
func (st *CstMetalState) Compute(v StateVar) []float64 {
	if v < 0 || v >= EndStateVar {
		panic(fmt.Sprintf("Value %d out of range for StateVar type.", int(v)))
	}

	out := make([]float64, len(st.logEnergy))
	for i := range out {
		out[i] = st.tables.At(
			st.hFrac[i], st.logEnergy[i], st.logVolume[i], v,
		)
	}
	return out
}

// checkStateArrays validates a density/energy array pair: equal lengths
// and positive, finite values. Violations are reported here, at state
// construction, rather than surfacing as garbage from a later Compute.
func checkStateArrays(density, energy []float64) error {
	if len(density) != len(energy) {
		return fmt.Errorf(
			"density array has length %d, but energy array has length %d",
			len(density), len(energy),
		)
	}
	for i, rho := range density {
		if math.IsNaN(rho) || math.IsInf(rho, 0) || rho <= 0 {
			return fmt.Errorf(
				"density at point %d is %g; densities must be positive "+
					"and finite", i, rho,
			)
		}
	}
	for i, e := range energy {
		if math.IsNaN(e) || math.IsInf(e, 0) || e <= 0 {
			return fmt.Errorf(
				"energy at point %d is %g; energies must be positive "+
					"and finite", i, e,
			)
		}
	}
	return nil
}

// logState converts density and energy to the log-space coordinates the
// tables are indexed by. The volume variable logV = 20 + logrho - 0.7*logE
// follows the dataset's convention.
func logState(density, energy []float64) (logD, logV, logE []float64) {
	logD = make([]float64, len(density))
	logV = make([]float64, len(density))
	logE = make([]float64, len(density))
	for i := range density {
		logD[i] = math.Log10(density[i])
		logE[i] = math.Log10(energy[i])
		logV[i] = 20 + logD[i] - 0.7*logE[i]
	}
	return logD, logV, logE
}
