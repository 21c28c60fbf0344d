/*Package opacity evaluates Rosseland mean opacities on top of an equation
of state. Opacities are tabulated against temperature rather than internal
energy, so every lookup goes through an eos state first to recover the
temperature, then reads the opacity table at

	logR = logrho + 18 - 3*logT

which is the standard variable opacity tables are rectangular in.
*/
package opacity

import (
	"embed"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/phil-mansfield/mesatables/fortio"
	"github.com/phil-mansfield/mesatables/math/interpolate"
)

//go:embed tables/opacs.bindata
var tableFS embed.FS

var (
	loadOnce   sync.Once
	loadTables *AllTables
	loadErr    error
)

// Load parses the bundled opacity tables. The work happens once: every
// later call returns the same shared, immutable collection.
func Load() (*AllTables, error) {
	loadOnce.Do(func() { loadTables, loadErr = load() })
	return loadTables, loadErr
}

// AllTables is the full bundled opacity dataset: log opacity on a regular
// (log T, log R) grid, tabulated per metallicity and hydrogen fraction.
// The metallicity axis is not uniformly spaced.
type AllTables struct {
	metallicities  *interpolate.CustomGrid
	hFracs         *interpolate.Grid
	logTemperature *interpolate.Grid
	logR           *interpolate.Grid

	// values is indexed [((iz*nx + ix)*nt + it)*nr + ir].
	values []float64
}

// Metallicities returns the tabulated metallicity axis.
func (at *AllTables) Metallicities() *interpolate.CustomGrid {
	return at.metallicities
}

// HFracs returns the tabulated hydrogen fraction axis.
func (at *AllTables) HFracs() *interpolate.Grid { return at.hFracs }

// AtMetallicity resolves a metallicity into a constant-metallicity table
// collection, blending the two bracketing collections when needed.
// Out-of-range metallicities are an error.
func (at *AllTables) AtMetallicity(z float64) (*ConstMetalTables, error) {
	st, err := at.metallicities.LinearStencil(z, interpolate.Strict)
	if err != nil {
		return nil, fmt.Errorf(
			"metallicity %g out of tabulated opacity range [%g, %g]",
			z, at.metallicities.First(), at.metallicities.Last(),
		)
	}

	n := at.hFracs.N() * at.logTemperature.N() * at.logR.N()
	ts := &ConstMetalTables{
		metallicity:    z,
		hFracs:         at.hFracs,
		logTemperature: at.logTemperature,
		logR:           at.logR,
	}

	if st.WLeft == 1 {
		ts.values = at.values[st.I*n : (st.I+1)*n]
	} else if st.WLeft == 0 {
		ts.values = at.values[st.J*n : (st.J+1)*n]
	} else {
		l, r := at.values[st.I*n:(st.I+1)*n], at.values[st.J*n:(st.J+1)*n]
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = st.Blend(l[i], r[i])
		}
		ts.values = vals
	}
	return ts, nil
}

// ConstMetalTables collects the opacity tables at a single metallicity,
// indexed by hydrogen mass fraction.
type ConstMetalTables struct {
	metallicity    float64
	hFracs         *interpolate.Grid
	logTemperature *interpolate.Grid
	logR           *interpolate.Grid

	// values is indexed [(ix*nt + it)*nr + ir].
	values []float64
}

// Metallicity returns the collection's metal mass fraction.
func (ts *ConstMetalTables) Metallicity() float64 { return ts.metallicity }

// HFracs returns the tabulated hydrogen fraction axis.
func (ts *ConstMetalTables) HFracs() *interpolate.Grid { return ts.hFracs }

// AtHFrac resolves a hydrogen mass fraction into a single table. As with
// the equation of state, the composition range is a hard limit.
func (ts *ConstMetalTables) AtHFrac(hFrac float64) (*RTempTable, error) {
	st, err := ts.hFracs.LinearStencil(hFrac, interpolate.Strict)
	if err != nil {
		return nil, fmt.Errorf(
			"hydrogen fraction %g out of tabulated opacity range "+
				"[%g, %g] at Z = %g", hFrac, ts.hFracs.First(),
			ts.hFracs.Last(), ts.metallicity,
		)
	}

	n := ts.logTemperature.N() * ts.logR.N()
	t := &RTempTable{
		metallicity:    ts.metallicity,
		hFrac:          hFrac,
		logTemperature: ts.logTemperature,
		logR:           ts.logR,
	}

	if st.WLeft == 1 {
		t.values = ts.values[st.I*n : (st.I+1)*n]
	} else if st.WLeft == 0 {
		t.values = ts.values[st.J*n : (st.J+1)*n]
	} else {
		l, r := ts.values[st.I*n:(st.I+1)*n], ts.values[st.J*n:(st.J+1)*n]
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = st.Blend(l[i], r[i])
		}
		t.values = vals
	}
	return t, nil
}

// At returns log10 opacity at a point and per-point hydrogen fraction,
// clamping the composition to the tabulated range.
func (ts *ConstMetalTables) At(hFrac, logT, logR float64) float64 {
	st, err := ts.hFracs.LinearStencil(hFrac, interpolate.Clamp)
	if err != nil {
		panic(err.Error())
	}

	n := ts.logTemperature.N() * ts.logR.N()
	l := at(ts.values[st.I*n:(st.I+1)*n], ts.logTemperature, ts.logR, logT, logR)
	if st.WLeft == 1 {
		return l
	}
	r := at(ts.values[st.J*n:(st.J+1)*n], ts.logTemperature, ts.logR, logT, logR)
	return st.Blend(l, r)
}

// RTempTable tabulates log10 opacity at a fixed composition over a regular
// (log T, log R) grid.
type RTempTable struct {
	metallicity, hFrac float64

	logTemperature *interpolate.Grid
	logR           *interpolate.Grid

	// values is indexed [it*nr + ir].
	values []float64
}

// Metallicity returns the table's metal mass fraction.
func (t *RTempTable) Metallicity() float64 { return t.metallicity }

// HFrac returns the table's hydrogen mass fraction.
func (t *RTempTable) HFrac() float64 { return t.hFrac }

// LogTemperature returns the log temperature axis.
func (t *RTempTable) LogTemperature() *interpolate.Grid {
	return t.logTemperature
}

// LogR returns the log R axis.
func (t *RTempTable) LogR() *interpolate.Grid { return t.logR }

// At returns log10 opacity at a point inside the table. Points past the
// table edges are clamped to the boundary.
func (t *RTempTable) At(logT, logR float64) float64 {
	return at(t.values, t.logTemperature, t.logR, logT, logR)
}

// at is the shared clamped bilinear lookup against one (log T, log R)
// slab of values.
func at(values []float64, tAxis, rAxis *interpolate.Grid, logT, logR float64) float64 {
	tst, err := tAxis.LinearStencil(logT, interpolate.Clamp)
	if err != nil {
		panic(err.Error())
	}
	rst, err := rAxis.LinearStencil(logR, interpolate.Clamp)
	if err != nil {
		panic(err.Error())
	}
	return interpolate.BiLinear(tst, rst, values, rAxis.N())
}

func load() (*AllTables, error) {
	f, err := tableFS.Open("tables/opacs.bindata")
	if err != nil {
		return nil, fmt.Errorf("bundled opacity table: %v", err)
	}
	defer f.Close()

	at, err := readTables(f)
	if err != nil {
		return nil, fmt.Errorf("bundled opacity table: %v", err)
	}
	return at, nil
}

// readTables parses the bundled opacity file. The header stores the log R
// axis length before the log T axis length, while the data records are
// ordered with log T major, so the two are swapped relative to each other.
func readTables(r io.Reader) (*AllTables, error) {
	var hdr [4]uint32
	if err := fortio.ReadU32Record(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	nz, nx, nr, nt := int(hdr[0]), int(hdr[1]), int(hdr[2]), int(hdr[3])
	for _, n := range []int{nz, nx, nr, nt} {
		if n < 2 || n > 1<<16 {
			return nil, fmt.Errorf(
				"implausible table shape %d x %d x %d x %d", nz, nx, nt, nr,
			)
		}
	}

	zs := make([]float64, nz)
	if err := fortio.ReadF64Record(r, zs); err != nil {
		return nil, fmt.Errorf("metallicity axis: %v", err)
	}
	metallicities, err := interpolate.NewCustomGrid(zs)
	if err != nil {
		return nil, fmt.Errorf("metallicity axis: %v", err)
	}

	hFracs, err := readAxis(r, nx)
	if err != nil {
		return nil, fmt.Errorf("hydrogen fraction axis: %v", err)
	}
	logTemperature, err := readAxis(r, nt)
	if err != nil {
		return nil, fmt.Errorf("log temperature axis: %v", err)
	}
	logR, err := readAxis(r, nr)
	if err != nil {
		return nil, fmt.Errorf("log R axis: %v", err)
	}

	values := make([]float64, nz*nx*nt*nr)
	for i := 0; i < nz*nx*nt; i++ {
		row := values[i*nr : (i+1)*nr]
		if err := fortio.ReadF64Record(r, row); err != nil {
			return nil, fmt.Errorf("opacity record %d: %v", i, err)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf(
					"opacity record %d: non-finite value at cell %d", i, j,
				)
			}
		}
	}

	return &AllTables{
		metallicities:  metallicities,
		hFracs:         hFracs,
		logTemperature: logTemperature,
		logR:           logR,
		values:         values,
	}, nil
}

func readAxis(r io.Reader, n int) (*interpolate.Grid, error) {
	vals := make([]float64, n)
	if err := fortio.ReadF64Record(r, vals); err != nil {
		return nil, err
	}
	return interpolate.GridFromSlice(vals)
}
