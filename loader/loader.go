// Package loader maps structured configuration documents onto validated
// exchanger inputs. Exchanger specifications are YAML files with the same
// field layout the library has always written back out; unknown keys are
// ignored, missing required keys aggregate into one validation error.
package loader

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"hexcalc/exchanger"
)

// Load reads one exchanger document from a YAML file, applies defaults and
// validates it.
func Load(path string) (*exchanger.STHeatExchangerInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates an exchanger document.
func Parse(data []byte) (*exchanger.STHeatExchangerInput, error) {
	var in exchanger.STHeatExchangerInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("loader: malformed document: %w", err)
	}
	applyDefaults(&in)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"name":   in.Name,
		"hot":    in.Hot.Fluid,
		"cold":   in.Cold.Fluid,
		"tubes":  in.Geometry.Tubes,
		"length": in.Geometry.Length,
	}).Info("exchanger input loaded")
	return &in, nil
}

// Write stores an input bundle back to YAML, the counterpart of Load.
func Write(path string, in *exchanger.STHeatExchangerInput) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	return nil
}

func applyDefaults(in *exchanger.STHeatExchangerInput) {
	d := CurrentDefaults()
	if in.Solver.Tolerance == 0 {
		in.Solver.Tolerance = d.Solver.Tolerance
	}
	if in.Solver.MaxNodes == 0 {
		in.Solver.MaxNodes = d.Solver.MaxNodes
	}
	if in.Solver.MaxNewtonIter == 0 {
		in.Solver.MaxNewtonIter = d.Solver.MaxNewtonIter
	}
	if in.Solver.MinMassFlow == 0 {
		in.Solver.MinMassFlow = d.Solver.MinMassFlow
	}
	if in.Solver.Points == 0 {
		in.Solver.Points = d.Solver.Points
	}
	if in.Effect == 0 {
		in.Effect = d.Effectiveness
	}
	if in.CalcType == "" {
		in.CalcType = exchanger.CalcLocal
	}
}
