/*plotstate plots one state variable against density at fixed specific
internal energy and composition. Debugging aid for eyeballing table columns.

Usage:

	plotstate <metallicity> <helium fraction> <variable> <energy>
*/
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/mesatables/eos"
)

const points = 200

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(
			os.Stderr,
			"Usage: plotstate <metallicity> <helium fraction> "+
				"<variable> <energy>",
		)
		os.Exit(1)
	}

	z, err := strconv.ParseFloat(os.Args[1], 64)
	if err != nil {
		panic(err)
	}
	he, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		panic(err)
	}
	v, ok := eos.StateVarFromString(os.Args[3])
	if !ok {
		panic(fmt.Sprintf("Unrecognized state variable '%s'.", os.Args[3]))
	}
	energy, err := strconv.ParseFloat(os.Args[4], 64)
	if err != nil {
		panic(err)
	}

	t, err := eos.NewCstCompoEos(z, he)
	if err != nil {
		panic(err)
	}

	// Sweep the table's volume axis at fixed energy and convert back to
	// density, so the whole tabulated density range is covered.
	logE := math.Log10(energy)
	logV0, logV1 := t.LogVolume().First(), t.LogVolume().Last()

	rho := make([]float64, points)
	es := make([]float64, points)
	for i := range rho {
		logV := logV0 + (logV1-logV0)*float64(i)/float64(points-1)
		rho[i] = math.Pow(10, logV+0.7*logE-20)
		es[i] = energy
	}

	state, err := eos.NewCstCompoState(t, rho, es)
	if err != nil {
		panic(err)
	}
	ys := state.Compute(v)

	plt.Reset()
	plt.Figure()
	plt.Plot(rho, ys, "b", plt.LW(2))
	plt.XLabel(`$\rho$ $[{\rm g}/{\rm cm}^3]$`, plt.FontSize(16))
	plt.YLabel(os.Args[3], plt.FontSize(16))
	plt.XScale("log")
	plt.Title(fmt.Sprintf(
		"$Z$ = %g, $Y$ = %g, $e$ = %g erg/g", z, he, energy,
	))
	plt.Show()
	plt.Execute()
}
