package loader

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"hexcalc/model"
)

// Defaults are the solver and exchanger fallbacks applied to every input
// document that leaves the corresponding fields empty.
type Defaults struct {
	Solver        model.SolverSettings
	Effectiveness float64
	ServerAddr    string
}

var defaults = builtinDefaults()

func builtinDefaults() Defaults {
	return Defaults{
		Solver: model.SolverSettings{
			Tolerance:     5e-3,
			MaxNodes:      1000,
			MaxNewtonIter: 25,
			MinMassFlow:   1e-9,
			Points:        100,
		},
		Effectiveness: 0.9,
		ServerAddr:    ":9000",
	}
}

// LoadDefaults reads conf/config.ini style overrides. A missing file keeps
// the built-in values.
func LoadDefaults(path string) Defaults {
	d := builtinDefaults()
	file, err := ini.Load(path)
	if err != nil {
		log.Warn("defaults file not read, using built-ins: ", err)
		return d
	}
	solver := file.Section("solver")
	d.Solver.Tolerance = solver.Key("Tolerance").MustFloat64(d.Solver.Tolerance)
	d.Solver.MaxNodes = solver.Key("MaxNodes").MustInt(d.Solver.MaxNodes)
	d.Solver.MaxNewtonIter = solver.Key("MaxNewtonIter").MustInt(d.Solver.MaxNewtonIter)
	d.Solver.MinMassFlow = solver.Key("MinMassFlow").MustFloat64(d.Solver.MinMassFlow)
	d.Solver.Points = solver.Key("Points").MustInt(d.Solver.Points)
	d.Effectiveness = file.Section("exchanger").Key("Effectiveness").MustFloat64(d.Effectiveness)
	d.ServerAddr = file.Section("server").Key("Addr").MustString(d.ServerAddr)
	defaults = d
	return d
}

// CurrentDefaults returns the active defaults.
func CurrentDefaults() Defaults { return defaults }
