package eos

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/mesatables/math/interpolate"
)

// ConstMetalTables collects the tables at a single metallicity, indexed by
// hydrogen mass fraction.
type ConstMetalTables struct {
	metallicity float64
	hFracs      *interpolate.Grid
	tables      []*VolumeEnergyTable
}

// Metallicity returns the collection's metal mass fraction.
func (ts *ConstMetalTables) Metallicity() float64 { return ts.metallicity }

// HFracs returns the tabulated hydrogen fraction axis.
func (ts *ConstMetalTables) HFracs() *interpolate.Grid { return ts.hFracs }

// AtHFrac resolves a hydrogen mass fraction into a single table,
// interpolating between the two bracketing tables when needed. Hydrogen
// fractions outside the tabulated range are an error: compositions are
// resolved once per state, and a state built off-table is a caller bug
// worth hearing about.
func (ts *ConstMetalTables) AtHFrac(hFrac float64) (*VolumeEnergyTable, error) {
	st, err := ts.hFracs.LinearStencil(hFrac, interpolate.Strict)
	if err != nil {
		return nil, fmt.Errorf(
			"hydrogen fraction %g out of tabulated range [%g, %g] "+
				"at Z = %g", hFrac, ts.hFracs.First(), ts.hFracs.Last(),
			ts.metallicity,
		)
	}

	if st.WLeft == 1 {
		return ts.tables[st.I], nil
	} else if st.WLeft == 0 {
		return ts.tables[st.J], nil
	}
	return ts.tables[st.I].blend(
		ts.tables[st.J], st.WLeft, ts.metallicity, hFrac,
	), nil
}

// AtHeFrac resolves a helium mass fraction into a single table, using
// X = 1 - Y - Z.
func (ts *ConstMetalTables) AtHeFrac(heFrac float64) (*VolumeEnergyTable, error) {
	return ts.AtHFrac(1 - heFrac - ts.metallicity)
}

// At returns a state variable at a point and per-point hydrogen fraction.
// The hydrogen fraction is clamped to the tabulated range: states validate
// their compositions up front, so anything out of range here is floating
// point noise at an exact table edge.
func (ts *ConstMetalTables) At(hFrac, logE, logV float64, v StateVar) float64 {
	st, err := ts.hFracs.LinearStencil(hFrac, interpolate.Clamp)
	if err != nil {
		panic(err.Error())
	}

	if st.WLeft == 1 {
		return ts.tables[st.I].At(logE, logV, v)
	} else if st.WLeft == 0 {
		return ts.tables[st.J].At(logE, logV, v)
	}

	l, r := ts.tables[st.I], ts.tables[st.J]
	est, vst := l.stencils(logE, logV)
	return atStateVar(func(c int) float64 {
		return st.Blend(l.value(est, vst, c), r.value(est, vst, c))
	}, logE, v)
}

// AllTables is the full collection of bundled tables, indexed by
// metallicity. It is loaded once and shared read-only.
type AllTables struct {
	metallicities *interpolate.Grid
	tables        []*ConstMetalTables
}

// Metallicities returns the tabulated metallicity axis.
func (at *AllTables) Metallicities() *interpolate.Grid { return at.metallicities }

// AtMetallicity resolves a metallicity into a constant-metallicity
// collection, interpolating table-by-table between the two bracketing
// collections when needed. Out-of-range metallicities are an error.
func (at *AllTables) AtMetallicity(z float64) (*ConstMetalTables, error) {
	st, err := at.metallicities.LinearStencil(z, interpolate.Strict)
	if err != nil {
		return nil, fmt.Errorf(
			"metallicity %g out of tabulated range [%g, %g]",
			z, at.metallicities.First(), at.metallicities.Last(),
		)
	}

	if st.WLeft == 1 {
		return at.tables[st.I], nil
	} else if st.WLeft == 0 {
		return at.tables[st.J], nil
	}

	l, r := at.tables[st.I], at.tables[st.J]
	hFracs, err := overlap(l.hFracs, r.hFracs)
	if err != nil {
		return nil, fmt.Errorf(
			"metallicities %g and %g: %v",
			l.metallicity, r.metallicity, err,
		)
	}

	tables := make([]*VolumeEnergyTable, hFracs.N())
	for i := range tables {
		h := hFracs.Val(i)
		lt, err := l.AtHFrac(h)
		if err != nil {
			return nil, err
		}
		rt, err := r.AtHFrac(h)
		if err != nil {
			return nil, err
		}
		tables[i] = lt.blend(rt, st.WLeft, z, h)
	}

	return &ConstMetalTables{z, hFracs, tables}, nil
}

// overlap intersects two uniform axes with the same spacing. The bundled
// hydrogen fraction grids at neighboring metallicities overlap over the
// physically shared composition range.
func overlap(a, b *interpolate.Grid) (*interpolate.Grid, error) {
	if !interpolate.IsClose(a.Dx(), b.Dx()) {
		return nil, fmt.Errorf(
			"hydrogen fraction axes have different spacings %g and %g",
			a.Dx(), b.Dx(),
		)
	}

	first := math.Max(a.First(), b.First())
	last := math.Min(a.Last(), b.Last())
	if last <= first {
		return nil, fmt.Errorf(
			"hydrogen fraction axes [%g, %g] and [%g, %g] do not overlap",
			a.First(), a.Last(), b.First(), b.Last(),
		)
	}

	n := int(math.Round((last-first)/a.Dx())) + 1
	return interpolate.NewGrid(first, a.Dx(), n), nil
}
