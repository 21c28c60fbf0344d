package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	refDensity = []float64{1.05, 15.7, 134.9}
	refEnergy  = []float64{1e12, 1e15, 3e15}
)

func solarState(t *testing.T) *CstCompoState {
	tbl, err := NewCstCompoEos(0.02, 0.28)
	if err != nil {
		t.Fatalf("NewCstCompoEos: %v", err)
	}
	state, err := NewCstCompoState(tbl, refDensity, refEnergy)
	if err != nil {
		t.Fatalf("NewCstCompoState: %v", err)
	}
	return state
}

func TestReferenceTemperatures(t *testing.T) {
	state := solarState(t)

	want := []float64{2.21745558e3, 5.00852231e6, 1.48317986e7}
	logT := state.Compute(LogTemperature)
	for i := range want {
		assert.InEpsilon(t, want[i], math.Pow(10, logT[i]), 1e-7,
			"point %d", i)
	}
}

func TestLogDensityRoundTrip(t *testing.T) {
	state := solarState(t)

	logD := state.Compute(LogDensity)
	for i, rho := range refDensity {
		assert.InDelta(t, math.Log10(rho), logD[i], 1e-8, "point %d", i)
	}

	// The accessor reports the input densities directly, without a trip
	// through the table.
	for i, x := range state.LogDensity() {
		assert.InDelta(t, math.Log10(refDensity[i]), x, 1e-14, "point %d", i)
	}
}

func TestComputeIdempotent(t *testing.T) {
	state := solarState(t)

	first := state.Compute(LogPressure)
	second := state.Compute(LogPressure)
	assert.Equal(t, first, second)
}

func TestSetStateReplacesPoints(t *testing.T) {
	state := solarState(t)
	before := state.Compute(LogTemperature)

	err := state.SetState([]float64{15.7}, []float64{1e15})
	assert.NoError(t, err)
	assert.Equal(t, 1, state.Len())

	after := state.Compute(LogTemperature)
	assert.InDelta(t, before[1], after[0], 1e-12)

	// A failed SetState leaves the state untouched.
	err = state.SetState([]float64{-1}, []float64{1e15})
	assert.Error(t, err)
	assert.Equal(t, 1, state.Len())
	assert.InDelta(t, before[1], state.Compute(LogTemperature)[0], 1e-12)
}

func TestStateValidation(t *testing.T) {
	tbl, err := NewCstCompoEos(0.02, 0.28)
	if err != nil {
		t.Fatalf("NewCstCompoEos: %v", err)
	}

	table := []struct {
		density, energy []float64
	}{
		{[]float64{1, 2}, []float64{1e12}},
		{[]float64{0}, []float64{1e12}},
		{[]float64{-1}, []float64{1e12}},
		{[]float64{math.NaN()}, []float64{1e12}},
		{[]float64{math.Inf(1)}, []float64{1e12}},
		{[]float64{1}, []float64{0}},
		{[]float64{1}, []float64{-1e12}},
		{[]float64{1}, []float64{math.NaN()}},
	}
	for i, test := range table {
		_, err := NewCstCompoState(tbl, test.density, test.energy)
		if err == nil {
			t.Errorf("%d) expected error for density = %v, energy = %v",
				i, test.density, test.energy)
		}
	}
}

func TestDerivativesMatchFiniteDifferences(t *testing.T) {
	tbl, err := NewCstCompoEos(0.02, 0.28)
	if err != nil {
		t.Fatalf("NewCstCompoEos: %v", err)
	}

	rho, e := 15.7, 1e15
	eval := func(rho, e float64, v StateVar) float64 {
		state, err := NewCstCompoState(tbl, []float64{rho}, []float64{e})
		if err != nil {
			t.Fatalf("NewCstCompoState: %v", err)
		}
		return state.Compute(v)[0]
	}
	pow := func(rho, e float64, v StateVar) float64 {
		return math.Pow(10, eval(rho, e, v))
	}

	h := 1e-4
	table := []struct {
		v    StateVar
		want float64
	}{
		{DPresDDensEcst,
			(pow(rho*(1+h), e, LogPressure) -
				pow(rho*(1-h), e, LogPressure)) / (2 * h * rho)},
		{DPresDEnerDcst,
			(pow(rho, e*(1+h), LogPressure) -
				pow(rho, e*(1-h), LogPressure)) / (2 * h * e)},
		{DTempDDensEcst,
			(pow(rho*(1+h), e, LogTemperature) -
				pow(rho*(1-h), e, LogTemperature)) / (2 * h * rho)},
		{DTempDEnerDcst,
			(pow(rho, e*(1+h), LogTemperature) -
				pow(rho, e*(1-h), LogTemperature)) / (2 * h * e)},
	}

	for _, test := range table {
		got := eval(rho, e, test.v)
		assert.InEpsilon(t, test.want, got, 1e-4, test.v.String())
	}
}

func TestDTempDPresScstIdentity(t *testing.T) {
	state := solarState(t)

	pres := state.Compute(LogPressure)
	dens := state.Compute(LogDensity)
	tRho := state.Compute(DTempDDensEcst)
	tEner := state.Compute(DTempDEnerDcst)
	pRho := state.Compute(DPresDDensEcst)
	pEner := state.Compute(DPresDEnerDcst)
	got := state.Compute(DTempDPresScst)

	// Along an adiabat de = (P/rho^2) drho, which ties dT/dP at constant
	// entropy to the four tabulated partials.
	for i := range got {
		p := math.Pow(10, pres[i])
		rho := math.Pow(10, dens[i])
		w := p / (rho * rho)
		want := (tRho[i] + w*tEner[i]) / (pRho[i] + w*pEner[i])
		assert.InEpsilon(t, want, got[i], 1e-10, "point %d", i)
	}
}

func TestMetalStateMatchesCompoState(t *testing.T) {
	compo := solarState(t)

	ts, err := NewCstMetalEos(0.02)
	if err != nil {
		t.Fatalf("NewCstMetalEos: %v", err)
	}
	he := []float64{0.28, 0.28, 0.28}
	metal, err := NewCstMetalState(ts, he, refDensity, refEnergy)
	if err != nil {
		t.Fatalf("NewCstMetalState: %v", err)
	}

	for _, v := range []StateVar{
		LogTemperature, LogPressure, LogEntropy, DPresDDensEcst, Gamma1,
	} {
		cs, ms := compo.Compute(v), metal.Compute(v)
		for i := range cs {
			assert.InEpsilon(t, cs[i], ms[i], 1e-9, "%v point %d", v, i)
		}
	}

	hs := metal.HFrac()
	for i := range hs {
		assert.InDelta(t, 0.70, hs[i], 1e-12, "point %d", i)
	}
}

func TestMetalStateCompositionRange(t *testing.T) {
	ts, err := NewCstMetalEos(0.02)
	if err != nil {
		t.Fatalf("NewCstMetalEos: %v", err)
	}

	// X = 1 - Y - Z must stay inside [0, 0.8] at Z = 0.02.
	_, err = NewCstMetalState(
		ts, []float64{-0.5}, []float64{15.7}, []float64{1e15},
	)
	assert.Error(t, err, "hydrogen fraction above the table range")

	_, err = NewCstMetalState(
		ts, []float64{1.05}, []float64{15.7}, []float64{1e15},
	)
	assert.Error(t, err, "hydrogen fraction below zero")

	_, err = NewCstMetalState(
		ts, []float64{0.28, 0.28}, []float64{15.7}, []float64{1e15},
	)
	assert.Error(t, err, "mismatched array lengths")

	state, err := NewCstMetalState(
		ts, []float64{0.98}, []float64{15.7}, []float64{1e15},
	)
	assert.NoError(t, err, "X = 0 sits on the table edge")
	assert.Equal(t, 1, state.Len())
}

func TestComputeClampsOutOfRangePoints(t *testing.T) {
	tbl, err := NewCstCompoEos(0.02, 0.28)
	if err != nil {
		t.Fatalf("NewCstCompoEos: %v", err)
	}

	// Both points sit far off the grid. Construction accepts them and
	// Compute pins them to the table boundary.
	state, err := NewCstCompoState(
		tbl, []float64{1e8, 1e-30}, []float64{1e20, 1e8},
	)
	assert.NoError(t, err)

	for v := StateVar(0); v < EndStateVar; v++ {
		for i, x := range state.Compute(v) {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Errorf("%v is %g at clamped point %d", v, x, i)
			}
		}
	}
}
