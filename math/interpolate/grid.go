package interpolate

import (
	"fmt"
	"math"
)

// IsClose returns true if x and y are equal up to floating point noise.
// The tolerance is absolute, which is the right convention for the log-space
// axis values and mass fractions this package works with.
func IsClose(x, y float64) bool {
	return math.Abs(x-y) <= 1e-12
}

// Policy controls what happens when a point handed to a stencil constructor
// falls outside the grid.
type Policy int

const (
	// Clamp moves out-of-range points to the nearest grid edge. Evaluation
	// then returns the edge value, which keeps batched calls free of NaNs.
	Clamp Policy = iota
	// Strict reports out-of-range points as errors.
	Strict
)

// Grid represents a uniformly spaced, strictly increasing sequence of axis
// values. Cell lookups are O(1) index arithmetic, no searching.
type Grid struct {
	x0, dx float64
	n      int
}

// NewGrid creates a Grid starting at x0 with point separation dx.
func NewGrid(x0, dx float64, n int) *Grid {
	if n < 2 {
		panic(fmt.Sprintf("Grid given %d points. At least 2 are needed.", n))
	} else if dx <= 0 {
		panic(fmt.Sprintf("Grid given non-positive spacing %g.", dx))
	}
	return &Grid{x0, dx, n}
}

// GridFromSlice creates a Grid from an explicit sequence of axis values. The
// sequence must be strictly increasing and uniformly spaced up to floating
// point noise, otherwise an error is returned.
func GridFromSlice(xs []float64) (*Grid, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf(
			"axis needs at least 2 values, got %d", len(xs),
		)
	}

	x0 := xs[0]
	dx := (xs[len(xs)-1] - x0) / float64(len(xs)-1)
	if dx <= 0 {
		return nil, fmt.Errorf(
			"axis values must be strictly increasing: "+
				"first = %g, last = %g", x0, xs[len(xs)-1],
		)
	}

	g := &Grid{x0, dx, len(xs)}
	for i, x := range xs {
		if !IsClose(x, g.Val(i)) {
			return nil, fmt.Errorf(
				"axis is not uniformly spaced: value %d is %g, "+
					"but a linear space would put it at %g", i, x, g.Val(i),
			)
		}
	}
	return g, nil
}

// N returns the number of points in the Grid.
func (g *Grid) N() int { return g.n }

// Val returns the i-th axis value.
func (g *Grid) Val(i int) float64 {
	if i < 0 || i >= g.n {
		panic(fmt.Sprintf("Index %d out of range for Grid of size %d.", i, g.n))
	}
	return g.x0 + float64(i)*g.dx
}

// First returns the lowest axis value.
func (g *Grid) First() float64 { return g.x0 }

// Last returns the highest axis value.
func (g *Grid) Last() float64 { return g.x0 + float64(g.n-1)*g.dx }

// Dx returns the point separation.
func (g *Grid) Dx() float64 { return g.dx }

// Contains returns true if x is inside the grid range, with an is-close
// tolerance at both edges.
func (g *Grid) Contains(x float64) bool {
	return (x >= g.First() || IsClose(x, g.First())) &&
		(x <= g.Last() || IsClose(x, g.Last()))
}

// cell returns the index of the cell containing x, clamped to [0, n-2].
func (g *Grid) cell(x float64) int {
	i := int(math.Floor((x - g.x0) / g.dx))
	if i < 0 {
		return 0
	} else if i > g.n-2 {
		return g.n - 2
	}
	return i
}

// clamp resolves an out-of-range x according to pol. The returned value is
// in-range on success.
func (g *Grid) clamp(x float64, pol Policy) (float64, error) {
	if g.Contains(x) {
		if x < g.First() {
			return g.First(), nil
		} else if x > g.Last() {
			return g.Last(), nil
		}
		return x, nil
	}
	if pol == Strict {
		return 0, fmt.Errorf(
			"point %g out of axis range [%g, %g]", x, g.First(), g.Last(),
		)
	}
	return math.Min(math.Max(x, g.First()), g.Last()), nil
}

// CustomGrid represents a strictly increasing sequence of axis values with
// no spacing requirement. Lookups are a binary search seeded by a uniform
// spacing guess.
type CustomGrid struct {
	xs []float64
	dx float64
}

// NewCustomGrid creates a CustomGrid from a strictly increasing sequence of
// axis values. The slice is not copied and must not be modified afterwards.
func NewCustomGrid(xs []float64) (*CustomGrid, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf(
			"axis needs at least 2 values, got %d", len(xs),
		)
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			return nil, fmt.Errorf(
				"axis values must be strictly increasing: "+
					"value %d is %g, value %d is %g", i, xs[i], i+1, xs[i+1],
			)
		}
	}
	dx := (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	return &CustomGrid{xs, dx}, nil
}

// N returns the number of points in the CustomGrid.
func (g *CustomGrid) N() int { return len(g.xs) }

// Val returns the i-th axis value.
func (g *CustomGrid) Val(i int) float64 { return g.xs[i] }

// First returns the lowest axis value.
func (g *CustomGrid) First() float64 { return g.xs[0] }

// Last returns the highest axis value.
func (g *CustomGrid) Last() float64 { return g.xs[len(g.xs)-1] }

// cell returns the index of the cell containing x, clamped to [0, n-2].
func (g *CustomGrid) cell(x float64) int {
	// Guess under the assumption of uniform spacing.
	guess := int((x - g.xs[0]) / g.dx)
	if guess >= 0 && guess < len(g.xs)-1 &&
		g.xs[guess] <= x && x <= g.xs[guess+1] {
		return guess
	}

	lo, hi := 0, len(g.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= g.xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
