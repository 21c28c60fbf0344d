package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/mesatables/eos"
	"github.com/phil-mansfield/mesatables/opacity"
)

type FileGroup struct {
	log *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func main() {
	var (
		eosConfig, opacityConfig string
		exampleConfig            string
	)
	vars := map[string]*string{
		"Eos":           &eosConfig,
		"Opacity":       &opacityConfig,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&eosConfig, "Eos", "",
		"Configuration file for [Eos] mode.",
	)
	flag.StringVar(
		&opacityConfig, "Opacity", "",
		"Configuration file for [Opacity] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Eos' and "+
			"'Opacity'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Eos":
		wrap := DefaultEosWrapper()
		err := gcfg.ReadFileInto(wrap, eosConfig)
		if err != nil { log.Fatal(err.Error()) }
		con := &wrap.Eos

		if !con.ValidInput() {
			log.Fatal("Invalid/non-existent 'Input' value.")
		} else if !con.ValidMetallicity() {
			log.Fatal("Invalid/non-existent 'Metallicity' value.")
		} else if !con.ValidVariables() {
			log.Fatal("Invalid/non-existent 'Variables' value.")
		}

		if con.HeliumColumn == con.ValidHeliumFraction() {
			log.Fatal(
				"You must set exactly one of 'HeliumFraction' and " +
					"'HeliumColumn'.",
			)
		}

		eosMain(con)

	case "Opacity":
		wrap := DefaultOpacityWrapper()
		err := gcfg.ReadFileInto(wrap, opacityConfig)
		if err != nil { log.Fatal(err.Error()) }
		con := &wrap.Opacity

		if !con.ValidInput() {
			log.Fatal("Invalid/non-existent 'Input' value.")
		} else if !con.ValidMetallicity() {
			log.Fatal("Invalid/non-existent 'Metallicity' value.")
		}

		if con.HeliumColumn == con.ValidHeliumFraction() {
			log.Fatal(
				"You must set exactly one of 'HeliumFraction' and " +
					"'HeliumColumn'.",
			)
		}

		opacityMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Eos":
			fmt.Println(ExampleEosFile)
		case "Opacity":
			fmt.Println(ExampleOpacityFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Eos' and 'Opacity'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but mesatables_cmd "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupLog(logFile string) *FileGroup {
	fg := &FileGroup{}
	if logFile == "" { return fg }

	var err error
	fg.log, err = os.Create(logFile)
	if err != nil { log.Fatal(err.Error()) }
	log.SetOutput(fg.log)
	return fg
}

// readPoints reads the density and energy columns of the input file, plus
// the helium fraction column when the config asks for one.
func readPoints(input string, heliumColumn bool) (rho, e, he []float64) {
	colIdxs := []int{0, 1}
	if heliumColumn { colIdxs = append(colIdxs, 2) }

	cols, err := table.ReadTable(input, colIdxs, nil)
	if err != nil { log.Fatal(err.Error()) }

	rho, e = cols[0], cols[1]
	if heliumColumn { he = cols[2] }
	return rho, e, he
}

func eosMain(con *EosConfig) {
	fg := setupLog(con.LogFile)
	defer fg.Close()

	log.Println("Running Eos main.")
	log.Printf("Table dataset version %s.", eos.Version())

	names := con.VariableNames()
	svs := make([]eos.StateVar, len(names))
	for i, name := range names {
		v, ok := eos.StateVarFromString(name)
		if !ok {
			valid := []string{}
			for v := eos.StateVar(0); v < eos.EndStateVar; v++ {
				valid = append(valid, v.String())
			}
			log.Fatalf(
				"Unrecognized state variable '%s'. The only accepted "+
					"variables are: %s.", name, strings.Join(valid, ", "),
			)
		}
		svs[i] = v
	}

	rho, e, he := readPoints(con.Input, con.HeliumColumn)

	outCols := make([][]float64, len(svs))
	if con.HeliumColumn {
		ts, err := eos.NewCstMetalEos(con.Metallicity)
		if err != nil { log.Fatal(err.Error()) }
		state, err := eos.NewCstMetalState(ts, he, rho, e)
		if err != nil { log.Fatal(err.Error()) }
		for i, v := range svs { outCols[i] = state.Compute(v) }
	} else {
		t, err := eos.NewCstCompoEos(con.Metallicity, con.HeliumFraction)
		if err != nil { log.Fatal(err.Error()) }
		state, err := eos.NewCstCompoState(t, rho, e)
		if err != nil { log.Fatal(err.Error()) }
		for i, v := range svs { outCols[i] = state.Compute(v) }
	}

	header := append([]string{"Density", "Energy"}, names...)
	cols := append([][]float64{rho, e}, outCols...)
	writeTable(con.Output, header, cols)
}

func opacityMain(con *OpacityConfig) {
	fg := setupLog(con.LogFile)
	defer fg.Close()

	log.Println("Running Opacity main.")
	log.Printf("Table dataset version %s.", eos.Version())

	rho, e, he := readPoints(con.Input, con.HeliumColumn)

	var logKappa []float64
	if con.HeliumColumn {
		ts, err := eos.NewCstMetalEos(con.Metallicity)
		if err != nil { log.Fatal(err.Error()) }
		state, err := eos.NewCstMetalState(ts, he, rho, e)
		if err != nil { log.Fatal(err.Error()) }
		op, err := opacity.NewCstMetalOpacity(state)
		if err != nil { log.Fatal(err.Error()) }
		logKappa = op.LogOpacity()
	} else {
		t, err := eos.NewCstCompoEos(con.Metallicity, con.HeliumFraction)
		if err != nil { log.Fatal(err.Error()) }
		state, err := eos.NewCstCompoState(t, rho, e)
		if err != nil { log.Fatal(err.Error()) }
		op, err := opacity.NewCstCompoOpacity(state)
		if err != nil { log.Fatal(err.Error()) }
		logKappa = op.LogOpacity()
	}

	writeTable(
		con.Output, []string{"Density", "Energy", "LogOpacity"},
		[][]float64{rho, e, logKappa},
	)
}

func writeTable(output string, names []string, cols [][]float64) {
	f := os.Stdout
	if output != "" {
		var err error
		f, err = os.Create(output)
		if err != nil { log.Fatalf("Could not create %s.", output) }
		defer f.Close()
	}

	fmt.Fprintf(f, "# %s\n", strings.Join(names, " "))
	for i := range cols[0] {
		for j := range cols {
			if j > 0 { fmt.Fprint(f, " ") }
			fmt.Fprintf(f, "%.10g", cols[j][i])
		}
		fmt.Fprintln(f)
	}
}
