package opacity

import (
	"github.com/phil-mansfield/mesatables/eos"
	"github.com/phil-mansfield/mesatables/math/interpolate"
)

// CstCompoOpacity evaluates opacities for a fixed-composition state. The
// opacity table is resolved from the state's composition at construction
// and temperatures are recomputed from the state on every LogOpacity call,
// so the evaluator always tracks the state's current points.
type CstCompoOpacity struct {
	state *eos.CstCompoState
	table *RTempTable
}

// NewCstCompoOpacity creates an opacity evaluator over the given state.
func NewCstCompoOpacity(state *eos.CstCompoState) (*CstCompoOpacity, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	ts, err := all.AtMetallicity(state.Metallicity())
	if err != nil {
		return nil, err
	}
	table, err := ts.AtHFrac(state.HFrac())
	if err != nil {
		return nil, err
	}
	return &CstCompoOpacity{state, table}, nil
}

// State returns the wrapped state.
func (op *CstCompoOpacity) State() *eos.CstCompoState { return op.state }

// SetState replaces the wrapped state. The resolved table is reused when
// the new state's composition matches the old one, which is the common
// case when stepping a simulation forward in time.
func (op *CstCompoOpacity) SetState(state *eos.CstCompoState) error {
	if interpolate.IsClose(state.Metallicity(), op.state.Metallicity()) &&
		interpolate.IsClose(state.HFrac(), op.state.HFrac()) {
		op.state = state
		return nil
	}

	next, err := NewCstCompoOpacity(state)
	if err != nil {
		return err
	}
	*op = *next
	return nil
}

// LogOpacity returns log10 of the Rosseland mean opacity at every point of
// the wrapped state.
func (op *CstCompoOpacity) LogOpacity() []float64 {
	logT := op.state.Compute(eos.LogTemperature)
	logD := op.state.LogDensity()

	out := make([]float64, len(logT))
	for i := range out {
		logR := logD[i] + 18 - 3*logT[i]
		out[i] = op.table.At(logT[i], logR)
	}
	return out
}

// CstMetalOpacity evaluates opacities for a fixed-metallicity state with
// per-point helium fractions. The composition lookup happens per point
// inside LogOpacity.
type CstMetalOpacity struct {
	state  *eos.CstMetalState
	tables *ConstMetalTables
}

// NewCstMetalOpacity creates an opacity evaluator over the given state.
func NewCstMetalOpacity(state *eos.CstMetalState) (*CstMetalOpacity, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	tables, err := all.AtMetallicity(state.Metallicity())
	if err != nil {
		return nil, err
	}
	return &CstMetalOpacity{state, tables}, nil
}

// State returns the wrapped state.
func (op *CstMetalOpacity) State() *eos.CstMetalState { return op.state }

// SetState replaces the wrapped state, reusing the resolved tables when
// the new state's metallicity matches the old one.
func (op *CstMetalOpacity) SetState(state *eos.CstMetalState) error {
	if interpolate.IsClose(state.Metallicity(), op.state.Metallicity()) {
		op.state = state
		return nil
	}

	next, err := NewCstMetalOpacity(state)
	if err != nil {
		return err
	}
	*op = *next
	return nil
}

// LogOpacity returns log10 of the Rosseland mean opacity at every point of
// the wrapped state.
func (op *CstMetalOpacity) LogOpacity() []float64 {
	logT := op.state.Compute(eos.LogTemperature)
	logD := op.state.LogDensity()
	hFrac := op.state.HFrac()

	out := make([]float64, len(logT))
	for i := range out {
		logR := logD[i] + 18 - 3*logT[i]
		out[i] = op.tables.At(hFrac[i], logT[i], logR)
	}
	return out
}
