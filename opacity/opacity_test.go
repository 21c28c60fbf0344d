package opacity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/mesatables/eos"
)

// Points chosen so the derived (logT, logR) pairs land inside the opacity
// grid.
var (
	testDensity = []float64{1e-7, 3e-8, 1e-6}
	testEnergy  = []float64{1e13, 5e12, 2e13}
)

func compoState(t *testing.T, density, energy []float64) *eos.CstCompoState {
	tbl, err := eos.NewCstCompoEos(0.02, 0.28)
	if err != nil {
		t.Fatalf("NewCstCompoEos: %v", err)
	}
	state, err := eos.NewCstCompoState(tbl, density, energy)
	if err != nil {
		t.Fatalf("NewCstCompoState: %v", err)
	}
	return state
}

func TestCstCompoOpacity(t *testing.T) {
	state := compoState(t, testDensity, testEnergy)
	op, err := NewCstCompoOpacity(state)
	if err != nil {
		t.Fatalf("NewCstCompoOpacity: %v", err)
	}

	logKappa := op.LogOpacity()
	assert.Equal(t, state.Len(), len(logKappa))

	// The evaluator must agree with a hand-resolved table lookup at
	// logR = logrho + 18 - 3*logT.
	all, err := Load()
	assert.NoError(t, err)
	ts, err := all.AtMetallicity(state.Metallicity())
	assert.NoError(t, err)
	tbl, err := ts.AtHFrac(state.HFrac())
	assert.NoError(t, err)

	logT := state.Compute(eos.LogTemperature)
	logD := state.LogDensity()
	for i := range logKappa {
		logR := logD[i] + 18 - 3*logT[i]
		assert.True(t, tbl.LogTemperature().Contains(logT[i]),
			"point %d off the temperature axis", i)
		assert.True(t, tbl.LogR().Contains(logR),
			"point %d off the logR axis", i)
		assert.InDelta(t, tbl.At(logT[i], logR), logKappa[i], 1e-12,
			"point %d", i)
	}
}

func TestCstCompoOpacitySetState(t *testing.T) {
	state := compoState(t, testDensity, testEnergy)
	op, err := NewCstCompoOpacity(state)
	if err != nil {
		t.Fatalf("NewCstCompoOpacity: %v", err)
	}
	want := op.LogOpacity()

	// Same composition: the evaluator swaps states without reloading.
	next := compoState(t, testDensity[:1], testEnergy[:1])
	assert.NoError(t, op.SetState(next))
	assert.True(t, op.State() == next)
	got := op.LogOpacity()
	assert.Equal(t, 1, len(got))
	assert.InDelta(t, want[0], got[0], 1e-12)

	// New composition: the table is re-resolved.
	zeroTbl, err := eos.NewCstCompoEos(0, 0.3)
	assert.NoError(t, err)
	zeroState, err := eos.NewCstCompoState(
		zeroTbl, testDensity[:1], testEnergy[:1],
	)
	assert.NoError(t, err)
	assert.NoError(t, op.SetState(zeroState))

	swapped, err := NewCstCompoOpacity(zeroState)
	assert.NoError(t, err)
	assert.InDelta(t, swapped.LogOpacity()[0], op.LogOpacity()[0], 1e-12)
}

func TestCstMetalOpacityMatchesCompo(t *testing.T) {
	compo := compoState(t, testDensity, testEnergy)
	compoOp, err := NewCstCompoOpacity(compo)
	if err != nil {
		t.Fatalf("NewCstCompoOpacity: %v", err)
	}

	ts, err := eos.NewCstMetalEos(0.02)
	if err != nil {
		t.Fatalf("NewCstMetalEos: %v", err)
	}
	he := []float64{0.28, 0.28, 0.28}
	metal, err := eos.NewCstMetalState(ts, he, testDensity, testEnergy)
	if err != nil {
		t.Fatalf("NewCstMetalState: %v", err)
	}
	metalOp, err := NewCstMetalOpacity(metal)
	if err != nil {
		t.Fatalf("NewCstMetalOpacity: %v", err)
	}

	want, got := compoOp.LogOpacity(), metalOp.LogOpacity()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-8, "point %d", i)
	}
}

func TestLogOpacityFinite(t *testing.T) {
	// Points well off both grids still clamp to a finite value.
	state := compoState(t, []float64{1e8, 1e-30}, []float64{1e20, 1e8})
	op, err := NewCstCompoOpacity(state)
	if err != nil {
		t.Fatalf("NewCstCompoOpacity: %v", err)
	}

	for i, x := range op.LogOpacity() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("log opacity is %g at clamped point %d", x, i)
		}
	}
}
