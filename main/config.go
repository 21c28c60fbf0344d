package main

import (
	"os"
	"strings"
)

type EosWrapper struct {
	Eos EosConfig
}

type EosConfig struct {
	// Required
	Input, Variables string
	Metallicity      float64

	// Exactly one of these two selects the composition model.
	HeliumFraction float64
	HeliumColumn   bool

	// Optional
	Output  string
	LogFile string
}

func DefaultEosWrapper() *EosWrapper {
	return &EosWrapper{EosConfig{HeliumFraction: -1}}
}

func (con *EosConfig) ValidInput() bool {
	if con.Input == "" {
		return false
	}
	_, err := os.Stat(con.Input)
	return err == nil
}

func (con *EosConfig) ValidMetallicity() bool {
	return con.Metallicity >= 0 && con.Metallicity < 1
}

func (con *EosConfig) ValidHeliumFraction() bool {
	return con.HeliumFraction >= 0 && con.HeliumFraction < 1
}

func (con *EosConfig) ValidVariables() bool {
	return len(con.VariableNames()) > 0
}

func (con *EosConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

// VariableNames splits the comma-separated Variables value.
func (con *EosConfig) VariableNames() []string {
	names := []string{}
	for _, name := range strings.Split(con.Variables, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

type OpacityWrapper struct {
	Opacity OpacityConfig
}

type OpacityConfig struct {
	// Required
	Input       string
	Metallicity float64

	// Exactly one of these two selects the composition model.
	HeliumFraction float64
	HeliumColumn   bool

	// Optional
	Output  string
	LogFile string
}

func DefaultOpacityWrapper() *OpacityWrapper {
	return &OpacityWrapper{OpacityConfig{HeliumFraction: -1}}
}

func (con *OpacityConfig) ValidInput() bool {
	if con.Input == "" {
		return false
	}
	_, err := os.Stat(con.Input)
	return err == nil
}

func (con *OpacityConfig) ValidMetallicity() bool {
	return con.Metallicity >= 0 && con.Metallicity < 1
}

func (con *OpacityConfig) ValidHeliumFraction() bool {
	return con.HeliumFraction >= 0 && con.HeliumFraction < 1
}

func (con *OpacityConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

const ExampleEosFile = `[Eos]

# Input is a whitespace-separated text file with density in column 0 and
# specific internal energy in column 1, both in cgs units. If HeliumColumn
# is set, column 2 holds a per-point helium mass fraction.
Input = points.txt

# Output defaults to stdout when unset.
# Output = state.txt

Metallicity = 0.02

# Set either a single HeliumFraction for every point, or HeliumColumn to
# read per-point fractions from the input file. Not both.
HeliumFraction = 0.28
# HeliumColumn = true

# Comma-separated output columns. Run with no flags for the full list.
Variables = LogTemperature, LogPressure, Gamma1

# LogFile = eos.log`

const ExampleOpacityFile = `[Opacity]

# Input is a whitespace-separated text file with density in column 0 and
# specific internal energy in column 1, both in cgs units. If HeliumColumn
# is set, column 2 holds a per-point helium mass fraction.
Input = points.txt

# Output defaults to stdout when unset.
# Output = opacity.txt

Metallicity = 0.02

# Set either a single HeliumFraction for every point, or HeliumColumn to
# read per-point fractions from the input file. Not both.
HeliumFraction = 0.28
# HeliumColumn = true

# LogFile = opacity.log`
