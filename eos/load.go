package eos

import (
	"embed"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/phil-mansfield/mesatables/fortio"
	"github.com/phil-mansfield/mesatables/math/interpolate"
)

//go:embed tables/*.bindata
var tableFS embed.FS

//go:embed tables/VERSION
var rawVersion string

// Version returns the version string of the bundled table dataset, for
// provenance logging.
func Version() string {
	return strings.TrimSpace(rawVersion)
}

// rawSet describes the hydrogen fraction grid of the bundled files at one
// metallicity. The layout is fixed by the dataset, not discovered from the
// filesystem, so a missing file is a hard load error instead of a silently
// smaller table set.
type rawSet struct {
	metallicity     float64
	hFrac0, hFracDx float64
	nHFrac          int
}

var rawSets = []rawSet{
	{0.00, 0.0, 0.2, 6},
	{0.02, 0.0, 0.2, 5},
	{0.04, 0.0, 0.2, 5},
}

const (
	rawMetal0  = 0.0
	rawMetalDx = 0.02
)

var (
	loadOnce   sync.Once
	loadTables *AllTables
	loadErr    error
)

// Load parses the bundled tables. The work happens once: every later call
// returns the same shared, immutable collection.
func Load() (*AllTables, error) {
	loadOnce.Do(func() { loadTables, loadErr = load() })
	return loadTables, loadErr
}

func load() (*AllTables, error) {
	all := &AllTables{
		metallicities: interpolate.NewGrid(
			rawMetal0, rawMetalDx, len(rawSets),
		),
		tables: make([]*ConstMetalTables, len(rawSets)),
	}

	for i, set := range rawSets {
		if !interpolate.IsClose(all.metallicities.Val(i), set.metallicity) {
			panic("Bundled table layout out of sync with metallicity axis.")
		}

		ts := &ConstMetalTables{
			metallicity: set.metallicity,
			hFracs: interpolate.NewGrid(
				set.hFrac0, set.hFracDx, set.nHFrac,
			),
			tables: make([]*VolumeEnergyTable, set.nHFrac),
		}

		for j := 0; j < set.nHFrac; j++ {
			hFrac := ts.hFracs.Val(j)
			name := fmt.Sprintf(
				"tables/output_DE_z%.2fx%.2f.bindata",
				set.metallicity, hFrac,
			)

			f, err := tableFS.Open(name)
			if err != nil {
				return nil, fmt.Errorf("bundled table %s: %v", name, err)
			}
			table, err := readTable(f, set.metallicity, hFrac)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("bundled table %s: %v", name, err)
			}

			ts.tables[j] = table
		}

		if err := checkSharedGrid(ts.tables); err != nil {
			return nil, fmt.Errorf(
				"bundled tables at Z = %g: %v", set.metallicity, err,
			)
		}
		all.tables[i] = ts
	}

	return all, nil
}

// readTable parses one bundled table file. See fortio for the record
// framing; the payload is a header record, the two axis records, and one
// record per tabulated column.
func readTable(r io.Reader, z, hFrac float64) (*VolumeEnergyTable, error) {
	var hdr [3]uint32
	if err := fortio.ReadU32Record(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}

	regime, nE, nV := Regime(hdr[0]), int(hdr[1]), int(hdr[2])
	if !regime.valid() {
		return nil, fmt.Errorf("unrecognized regime tag %d", hdr[0])
	}
	if nE < 2 || nV < 2 || nE > 1<<16 || nV > 1<<16 {
		return nil, fmt.Errorf("implausible grid shape %d x %d", nE, nV)
	}

	logEnergy, err := readAxis(r, nE)
	if err != nil {
		return nil, fmt.Errorf("log energy axis: %v", err)
	}
	logVolume, err := readAxis(r, nV)
	if err != nil {
		return nil, fmt.Errorf("log volume axis: %v", err)
	}

	t := &VolumeEnergyTable{
		metallicity: z,
		hFrac:       hFrac,
		regime:      regime,
		logEnergy:   logEnergy,
		logVolume:   logVolume,
	}
	for c := 0; c < nCols; c++ {
		vals := make([]float64, nE*nV)
		if err := fortio.ReadF64Record(r, vals); err != nil {
			return nil, fmt.Errorf("column %d: %v", c, err)
		}
		for i, x := range vals {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf(
					"column %d: non-finite value at cell %d", c, i,
				)
			}
		}
		t.cols[c] = vals
	}

	return t, nil
}

func readAxis(r io.Reader, n int) (*interpolate.Grid, error) {
	vals := make([]float64, n)
	if err := fortio.ReadF64Record(r, vals); err != nil {
		return nil, err
	}
	return interpolate.GridFromSlice(vals)
}

// checkSharedGrid verifies that every table in a set is defined on the
// same axes, which composition blending relies on.
func checkSharedGrid(tables []*VolumeEnergyTable) error {
	first := tables[0]
	for _, t := range tables[1:] {
		if t.logEnergy.N() != first.logEnergy.N() ||
			t.logVolume.N() != first.logVolume.N() ||
			!interpolate.IsClose(t.logEnergy.First(), first.logEnergy.First()) ||
			!interpolate.IsClose(t.logEnergy.Last(), first.logEnergy.Last()) ||
			!interpolate.IsClose(t.logVolume.First(), first.logVolume.First()) ||
			!interpolate.IsClose(t.logVolume.Last(), first.logVolume.Last()) {
			return fmt.Errorf(
				"table at X = %g has a different grid than X = %g",
				t.hFrac, first.hFrac,
			)
		}
	}
	return nil
}
