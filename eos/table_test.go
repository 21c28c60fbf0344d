package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func loadTable(t *testing.T, z, hFrac float64) *VolumeEnergyTable {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ts, err := all.AtMetallicity(z)
	if err != nil {
		t.Fatalf("AtMetallicity(%g): %v", z, err)
	}
	tbl, err := ts.AtHFrac(hFrac)
	if err != nil {
		t.Fatalf("AtHFrac(%g): %v", hFrac, err)
	}
	return tbl
}

func TestStateVarStrings(t *testing.T) {
	for v := StateVar(0); v < EndStateVar; v++ {
		parsed, ok := StateVarFromString(v.String())
		if !ok || parsed != v {
			t.Errorf("StateVarFromString(%q) = %v, %v", v.String(), parsed, ok)
		}
	}
	_, ok := StateVarFromString("LogWombat")
	assert.False(t, ok)
	assert.Panics(t, func() { _ = EndStateVar.String() })
}

func TestDensityColumnMatchesVolumeDefinition(t *testing.T) {
	tbl := loadTable(t, 0.02, 0.6)

	// The tabulated density column is pinned to the volume variable
	// definition logV = 20 + logrho - 0.7*logE.
	pts := [][2]float64{
		{12.03, 11.62}, {15.3, 10.71}, {10.5, 0}, {17.5, 14}, {13.77, 7.12},
	}
	for _, pt := range pts {
		logE, logV := pt[0], pt[1]
		want := logV + 0.7*logE - 20
		got := tbl.At(logE, logV, LogDensity)
		assert.InDelta(t, want, got, 1e-8, "point (%g, %g)", logE, logV)
	}
}

func TestAtDerivDensityColumn(t *testing.T) {
	tbl := loadTable(t, 0.02, 0.6)

	val, dLogE, dLogV := tbl.AtDeriv(13.77, 7.12, LogDensity)
	assert.InDelta(t, 7.12+0.7*13.77-20, val, 1e-8)
	assert.InDelta(t, 0.7, dLogE, 1e-8)
	assert.InDelta(t, 1.0, dLogV, 1e-8)
}

func TestAtDerivPanicsOnDerivedVars(t *testing.T) {
	tbl := loadTable(t, 0.02, 0.6)

	for _, v := range []StateVar{
		DPresDDensEcst, DPresDEnerDcst,
		DTempDDensEcst, DTempDEnerDcst, DTempDPresScst,
	} {
		assert.Panics(t, func() { tbl.AtDeriv(13, 7, v) }, v.String())
	}
}

func TestCompositionBlendConsistency(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ts, err := all.AtMetallicity(0.02)
	if err != nil {
		t.Fatalf("AtMetallicity: %v", err)
	}

	// A prebuilt blended table and the per-point composition path must
	// agree exactly: both interpolate the raw columns first.
	h := 0.5
	tbl, err := ts.AtHFrac(h)
	assert.NoError(t, err)

	logE, logV := 13.77, 7.12
	for v := StateVar(0); v < EndStateVar; v++ {
		direct := ts.At(h, logE, logV, v)
		resolved := tbl.At(logE, logV, v)
		assert.InEpsilon(t, resolved, direct, 1e-9, v.String())
	}
}

func TestAtClampsToBoundary(t *testing.T) {
	tbl := loadTable(t, 0.02, 0.6)

	// Far outside the grid the lookup pins to the nearest edge.
	inside := tbl.At(17.5, 7.0, LogTemperature)
	outside := tbl.At(30.0, 7.0, LogTemperature)
	assert.InDelta(t, inside, outside, 1e-10)

	for v := StateVar(0); v < EndStateVar; v++ {
		x := tbl.At(9.0, 20.0, v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("%v is %g outside the grid", v, x)
		}
	}
}
