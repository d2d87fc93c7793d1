package exchanger

import (
	"errors"
	"math"

	log "github.com/sirupsen/logrus"

	"hexcalc/model"
	"hexcalc/props"
)

// SimpleModel is the lumped exchanger: no axial resolution, duty from an
// effectiveness applied to the maximum exchangeable enthalpy flow of an
// isobaric, adiabatic exchanger.
type SimpleModel struct {
	name    string
	hot     model.Stream
	cold    model.Stream
	backend props.MixtureBackend
	eff     float64
	minFlow float64
	length  float64

	hotIn      props.PropertyVector
	coldIn     props.PropertyVector
	configured bool
}

func NewSimpleModel(in *STHeatExchangerInput, backend props.MixtureBackend) *SimpleModel {
	eff := in.Effect
	if eff == 0 {
		eff = 1
	}
	minFlow := in.Solver.MinMassFlow
	if minFlow <= 0 {
		minFlow = 1e-9
	}
	return &SimpleModel{
		name:    in.Name,
		hot:     in.Hot,
		cold:    in.Cold,
		backend: backend,
		eff:     eff,
		minFlow: minFlow,
		length:  in.Geometry.Length,
	}
}

// Configure validates mass flows and resolves both inlet states. It must
// succeed before any duty evaluation.
func (m *SimpleModel) Configure() error {
	if m.hot.MassFlow < m.minFlow || m.cold.MassFlow < m.minFlow {
		return &ConfigurationError{Model: m.name, Reason: "mass flow below guarded minimum"}
	}
	var err error
	if m.hotIn, err = resolveInlet(m.backend, &m.hot); err != nil {
		return &ConfigurationError{Model: m.name, Reason: "hot inlet state not resolvable", Err: err}
	}
	if m.coldIn, err = resolveInlet(m.backend, &m.cold); err != nil {
		return &ConfigurationError{Model: m.name, Reason: "cold inlet state not resolvable", Err: err}
	}
	if m.hotIn.T <= m.coldIn.T {
		return &ConfigurationError{Model: m.name, Reason: "hot inlet not warmer than cold inlet"}
	}
	m.configured = true
	log.WithFields(log.Fields{
		"name": m.name,
		"THot": m.hotIn.T,
		"TCold": m.coldIn.T,
	}).Debug("simple model configured")
	return nil
}

func (m *SimpleModel) Validate() error {
	if m.configured {
		return nil
	}
	return m.Configure()
}

// QMax is the maximum possible heat flow of an isobaric, adiabatic
// exchanger: each stream brought to the other's inlet temperature, the
// smaller magnitude wins. The limiting outlet states are returned in
// hot/cold order.
func (m *SimpleModel) QMax() (float64, [2]props.PropertyVector, error) {
	var final [2]props.PropertyVector
	if err := m.Validate(); err != nil {
		return 0, final, err
	}

	hotOut, err := m.targetState(&m.hot, m.coldIn.T, m.hotIn.T)
	if err != nil {
		return 0, final, &ConfigurationError{Model: m.name, Reason: "hot outlet limit not resolvable", Err: err}
	}
	coldOut, err := m.targetState(&m.cold, m.hotIn.T, m.coldIn.T)
	if err != nil {
		return 0, final, &ConfigurationError{Model: m.name, Reason: "cold outlet limit not resolvable", Err: err}
	}
	final[model.Hot] = hotOut
	final[model.Cold] = coldOut

	qHot := m.hot.MassFlow * (m.hotIn.H - hotOut.H)    // heat the hot side can give
	qCold := m.cold.MassFlow * (coldOut.H - m.coldIn.H) // heat the cold side can take
	qMax := math.Min(qHot, qCold)
	if qMax < 0 {
		qMax = 0
	}
	return qMax, final, nil
}

// targetState resolves a stream at its inlet pressure and a target
// temperature, stepping the target back toward the stream's own inlet when
// the backend reports an unresolvable (e.g. saturated) state. Saturated
// final states are not considered.
func (m *SimpleModel) targetState(st *model.Stream, target, own float64) (props.PropertyVector, error) {
	var lastErr error
	for i := 0; i < 6; i++ {
		pv, err := m.backend.PropertiesX(st.Fluid, st.Composition, props.PT(st.PIn, target))
		if err == nil {
			return pv, nil
		}
		var le *props.LookupError
		if !errors.As(err, &le) {
			return pv, err
		}
		lastErr = err
		target += 0.01 * (own - target)
	}
	return props.PropertyVector{}, lastErr
}

// Duty implements the Model interface.
func (m *SimpleModel) Duty() (float64, error) {
	q, _, _, err := m.DutyStates()
	return q, err
}

// DutyStates returns the effectiveness-constrained duty together with both
// outlet states.
func (m *SimpleModel) DutyStates() (float64, props.PropertyVector, props.PropertyVector, error) {
	var zero props.PropertyVector
	qMax, _, err := m.QMax()
	if err != nil {
		return 0, zero, zero, err
	}
	q := m.eff * qMax
	hotOut, err := m.backend.PropertiesX(m.hot.Fluid, m.hot.Composition,
		props.PH(m.hot.PIn, m.hotIn.H-q/m.hot.MassFlow))
	if err != nil {
		return 0, zero, zero, &ConfigurationError{Model: m.name, Reason: "hot outlet state not resolvable", Err: err}
	}
	coldOut, err := m.backend.PropertiesX(m.cold.Fluid, m.cold.Composition,
		props.PH(m.cold.PIn, m.coldIn.H+q/m.cold.MassFlow))
	if err != nil {
		return 0, zero, zero, &ConfigurationError{Model: m.name, Reason: "cold outlet state not resolvable", Err: err}
	}
	return q, hotOut, coldOut, nil
}

// LMTD is the log-mean of the terminal temperature differences in
// counter-flow orientation. Equal differences fall back to the arithmetic
// mean; a sign change means a crossing profile and is an error.
func (m *SimpleModel) LMTD() (float64, error) {
	_, hotOut, coldOut, err := m.DutyStates()
	if err != nil {
		return 0, err
	}
	dT0 := m.hotIn.T - coldOut.T // x = 0: hot inlet meets cold outlet
	dTL := hotOut.T - m.coldIn.T // x = L: hot outlet meets cold inlet
	small := 1e-9 * math.Max(math.Abs(dT0), math.Abs(dTL))
	if dT0*dTL <= 0 || math.Min(math.Abs(dT0), math.Abs(dTL)) < small {
		return 0, &DegenerateLMTDError{DT0: dT0, DTL: dTL}
	}
	if math.Abs(dT0-dTL) < 1e-9*math.Max(math.Abs(dT0), math.Abs(dTL)) {
		return 0.5 * (dT0 + dTL), nil
	}
	return (dT0 - dTL) / math.Log(dT0/dTL), nil
}

// Profile of the lumped model: the two terminal states only.
func (m *SimpleModel) Profile() (*SpatialProfile, error) {
	q, hotOut, coldOut, err := m.DutyStates()
	if err != nil {
		return nil, err
	}
	return &SpatialProfile{
		Name: m.name,
		Duty: q,
		Samples: []Sample{
			{X: 0, THot: m.hotIn.T, TCold: coldOut.T, PHot: m.hotIn.P, PCold: coldOut.P,
				HHot: m.hotIn.H, HCold: coldOut.H, SHot: m.hotIn.S, SCold: coldOut.S},
			{X: m.length, THot: hotOut.T, TCold: m.coldIn.T, PHot: hotOut.P, PCold: m.coldIn.P,
				HHot: hotOut.H, HCold: m.coldIn.H, SHot: hotOut.S, SCold: m.coldIn.S},
		},
	}, nil
}
