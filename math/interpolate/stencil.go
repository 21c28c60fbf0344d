package interpolate

import (
	"fmt"
	"math"
)

// LinearStencil selects the two grid points bracketing a query point along
// one axis, along with the weight of the left point. Exact hits and clamped
// edge points degenerate to a weight of exactly 0 or 1, so callers never
// need to special-case them.
type LinearStencil struct {
	I, J  int
	WLeft float64
}

// LinearStencil locates x on the grid according to pol.
func (g *Grid) LinearStencil(x float64, pol Policy) (LinearStencil, error) {
	x, err := g.clamp(x, pol)
	if err != nil {
		return LinearStencil{}, err
	}
	i := g.cell(x)
	w := (g.Val(i+1) - x) / g.dx
	return LinearStencil{i, i + 1, w}, nil
}

// LinearStencil locates x on the grid according to pol.
func (g *CustomGrid) LinearStencil(x float64, pol Policy) (LinearStencil, error) {
	switch {
	case g.Contains(x):
		// Pull is-close edge hits into range.
		x = math.Min(math.Max(x, g.First()), g.Last())
	case pol == Strict:
		return LinearStencil{}, fmt.Errorf(
			"point %g out of axis range [%g, %g]", x, g.First(), g.Last(),
		)
	default:
		x = math.Min(math.Max(x, g.First()), g.Last())
	}
	i := g.cell(x)
	w := (g.xs[i+1] - x) / (g.xs[i+1] - g.xs[i])
	return LinearStencil{i, i + 1, w}, nil
}

// Contains returns true if x is inside the grid range, with an is-close
// tolerance at both edges.
func (g *CustomGrid) Contains(x float64) bool {
	return (x >= g.First() || IsClose(x, g.First())) &&
		(x <= g.Last() || IsClose(x, g.Last()))
}

// Blend combines the values at the stencil's two points.
func (st LinearStencil) Blend(yI, yJ float64) float64 {
	return st.WLeft*yI + (1-st.WLeft)*yJ
}

// Apply evaluates the stencil against a full row of axis values.
func (st LinearStencil) Apply(ys []float64) float64 {
	return st.Blend(ys[st.I], ys[st.J])
}

// SplineStencil is a centered 4-point cubic stencil giving value and first
// derivative estimates which are continuous across cell boundaries. At a
// table edge the stencil loses the outer point and the polynomial degree
// drops, instead of failing: the one-sided slope estimate turns the cubic
// into a quadratic (or a straight line on a 2-point grid).
type SplineStencil struct {
	i0, k int // first grid index and number of stencil points
	c     int // offset of the cell's left point within the stencil
	xs    [4]float64
	at    float64
}

// SplineStencil builds the stencil for x according to pol.
func (g *Grid) SplineStencil(x float64, pol Policy) (SplineStencil, error) {
	x, err := g.clamp(x, pol)
	if err != nil {
		return SplineStencil{}, err
	}

	cell := g.cell(x)
	i0, i1 := cell-1, cell+2
	if i0 < 0 {
		i0 = 0
	}
	if i1 > g.n-1 {
		i1 = g.n - 1
	}

	st := SplineStencil{i0: i0, k: i1 - i0 + 1, c: cell - i0, at: x}
	for a := 0; a < st.k; a++ {
		st.xs[a] = g.Val(i0 + a)
	}
	return st, nil
}

// Range returns the first grid index covered by the stencil and the number
// of covered points, for callers that need to gather sample values.
func (st SplineStencil) Range() (i0, n int) { return st.i0, st.k }

// Eval computes the interpolated value and its derivative along the axis.
// ys holds the stencil's sample values, starting at the index returned by
// Range.
func (st SplineStencil) Eval(ys []float64) (val, deriv float64) {
	c := st.c
	x1, x2 := st.xs[c], st.xs[c+1]
	y1, y2 := ys[c], ys[c+1]
	h := x2 - x1

	var sLeft, sRight float64
	if c > 0 {
		sLeft = (ys[c+1] - ys[c-1]) / (st.xs[c+1] - st.xs[c-1])
	} else {
		sLeft = (y2 - y1) / h
	}
	if c+2 < st.k {
		sRight = (ys[c+2] - ys[c]) / (st.xs[c+2] - st.xs[c])
	} else {
		sRight = (y2 - y1) / h
	}

	a := sLeft*h - (y2 - y1)
	b := -sRight*h + (y2 - y1)
	t := (st.at - x1) / h

	val = (1-t)*y1 + t*y2 + t*(1-t)*(a*(1-t)+b*t)
	dvdt := (y2 - y1) +
		a*((1-t)*(1-t)-2*t*(1-t)) +
		b*(2*t*(1-t)-t*t)
	return val, dvdt / h
}

// BiSpline evaluates a 2-D field tabulated on vals at the point selected by
// the two stencils. vals is indexed vals[i*stride+j], with i on xst's axis
// and j on yst's. It returns the interpolated value and both first partial
// derivatives.
func BiSpline(
	xst, yst SplineStencil, vals []float64, stride int,
) (v, dvdx, dvdy float64) {
	var vs, ds [4]float64
	xi0, xk := xst.Range()
	yi0, _ := yst.Range()

	for a := 0; a < xk; a++ {
		row := vals[(xi0+a)*stride+yi0:]
		vs[a], ds[a] = yst.Eval(row)
	}

	v, dvdx = xst.Eval(vs[:xk])
	dvdy, _ = xst.Eval(ds[:xk])
	return v, dvdx, dvdy
}

// BiLinear evaluates a 2-D field tabulated on vals at the point selected by
// the two linear stencils, with the same layout convention as BiSpline.
func BiLinear(xst, yst LinearStencil, vals []float64, stride int) float64 {
	vI := yst.Apply(vals[xst.I*stride:])
	vJ := yst.Apply(vals[xst.J*stride:])
	return xst.Blend(vI, vJ)
}

// DLog10 converts a derivative taken against log10(x) into a derivative
// against x itself. Every derived state variable goes through this one
// conversion so that log-axis scaling stays consistent across outputs.
func DLog10(dvdlogx, x float64) float64 {
	return dvdlogx / (x * math.Ln10)
}

// LogLogSlopeToDeriv converts a tabulated log-log slope
// d(log10 f)/d(log10 x) into the linear-space derivative df/dx.
func LogLogSlopeToDeriv(slope, f, x float64) float64 {
	return DLog10(slope*f*math.Ln10, x)
}
