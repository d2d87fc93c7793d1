package exchanger

import (
	"math"

	log "github.com/sirupsen/logrus"

	"hexcalc/bvp"
	"hexcalc/model"
	"hexcalc/props"
)

// CounterflowModel solves the spatially resolved counter-flow problem for
// one shell with N parallel inner tubes. The hot stream runs through the
// tubes in +x and enters at x=0; the cold stream runs through the shell in
// -x and enters at x=L. The state vector along x is
//
//	y = [h_hot, p_hot, h_cold, p_cold]
//
// which couples a boundary condition at x=0 to one at x=L and makes the
// problem a two-point BVP.
type CounterflowModel struct {
	name    string
	hot     model.Stream
	cold    model.Stream
	geo     model.Geometry
	backend props.MixtureBackend
	corr    Correlation
	constU  float64 // > 0 selects the fixed-coefficient mode
	set     model.SolverSettings
	minFlow float64

	// derived geometry
	perimeter float64 // heat-transfer perimeter, m
	tubeArea  float64 // flow cross-section of one tube, m2
	shellArea float64 // shell-side flow cross-section, m2
	shellDh   float64 // shell-side hydraulic diameter, m

	hotIn      props.PropertyVector
	coldIn     props.PropertyVector
	configured bool
	profile    *SpatialProfile
}

// NewCounterflowModel builds a model from a validated input bundle.
func NewCounterflowModel(in *STHeatExchangerInput, backend props.MixtureBackend) *CounterflowModel {
	m := &CounterflowModel{
		name:    in.Name,
		hot:     in.Hot,
		cold:    in.Cold,
		geo:     in.Geometry,
		backend: backend,
		corr:    Gnielinski{},
		set:     in.Solver,
	}
	if in.CalcType == CalcConst {
		m.constU = in.U
	}
	m.minFlow = in.Solver.MinMassFlow
	if m.minFlow <= 0 {
		m.minFlow = 1e-9
	}

	n := float64(in.Geometry.Tubes)
	d := in.Geometry.TubeDiameter
	ds := in.Geometry.ShellDiameter
	m.perimeter = math.Pi * d * n
	m.tubeArea = math.Pi / 4 * d * d
	m.shellArea = math.Pi / 4 * (ds*ds - n*d*d)
	wetted := math.Pi * (ds + n*d)
	m.shellDh = 4 * m.shellArea / wetted
	return m
}

// SetCorrelation swaps the heat-transfer strategy; the default is
// Gnielinski.
func (m *CounterflowModel) SetCorrelation(c Correlation) { m.corr = c }

// Configure validates flows and geometry and resolves both inlets.
func (m *CounterflowModel) Configure() error {
	if m.hot.MassFlow < m.minFlow || m.cold.MassFlow < m.minFlow {
		return &ConfigurationError{Model: m.name, Reason: "mass flow below guarded minimum"}
	}
	if m.geo.Length <= 0 || m.geo.Tubes < 1 || m.shellArea <= 0 {
		return &ConfigurationError{Model: m.name, Reason: "inconsistent geometry"}
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
	return nil
}

func (m *CounterflowModel) Validate() error {
	if m.configured {
		return nil
	}
	return m.Configure()
}

// localU evaluates the overall heat-transfer coefficient from the two film
// coefficients in series, the tube-side one referenced to the tube area
// split over N parallel tubes.
func (m *CounterflowModel) localU(hotPV, coldPV *props.PropertyVector) float64 {
	if m.constU > 0 {
		return m.constU
	}
	n := float64(m.geo.Tubes)
	d := m.geo.TubeDiameter

	gHot := m.hot.MassFlow / (n * m.tubeArea)
	reHot := gHot * d / hotPV.Mu
	nuHot := m.corr.Nusselt(reHot, hotPV.Prandtl)
	alphaHot := nuHot * hotPV.Lambda / d

	gCold := m.cold.MassFlow / m.shellArea
	reCold := gCold * m.shellDh / coldPV.Mu
	nuCold := m.corr.Nusselt(reCold, coldPV.Prandtl)
	alphaCold := nuCold * coldPV.Lambda / m.shellDh

	return 1 / (1/alphaHot + 1/alphaCold)
}

// rhs is the derivative function of the BVP. Property failures at a trial
// state are reported upward; the solver treats them as a recoverable
// rejected step.
func (m *CounterflowModel) rhs(cache props.MixtureBackend) bvp.Func {
	return func(x float64, y []float64, dy []float64) error {
		hotPV, err := cache.PropertiesX(m.hot.Fluid, m.hot.Composition, props.PH(y[1], y[0]))
		if err != nil {
			return err
		}
		coldPV, err := cache.PropertiesX(m.cold.Fluid, m.cold.Composition, props.PH(y[3], y[2]))
		if err != nil {
			return err
		}

		u := m.localU(&hotPV, &coldPV)
		q := u * m.perimeter * (hotPV.T - coldPV.T) // W/m, positive hot -> cold

		// counter-flow sign convention: the hot stream loses enthalpy in its
		// +x flow direction, the cold stream (flowing in -x) likewise loses
		// enthalpy along +x
		dy[0] = -q / m.hot.MassFlow
		dy[2] = -q / m.cold.MassFlow

		// Darcy pressure gradients, each along the stream's own direction
		n := float64(m.geo.Tubes)
		gHot := m.hot.MassFlow / (n * m.tubeArea)
		reHot := gHot * m.geo.TubeDiameter / hotPV.Mu
		dy[1] = -m.corr.Friction(reHot) / m.geo.TubeDiameter * gHot * gHot / (2 * hotPV.Rho)

		gCold := m.cold.MassFlow / m.shellArea
		reCold := gCold * m.shellDh / coldPV.Mu
		dy[3] = m.corr.Friction(reCold) / m.shellDh * gCold * gCold / (2 * coldPV.Rho)
		return nil
	}
}

// bc pins the hot inlet at x=0 and the cold inlet at x=L.
func (m *CounterflowModel) bc(ya, yb, res []float64) error {
	res[0] = ya[0] - m.hotIn.H
	res[1] = ya[1] - m.hotIn.P
	res[2] = yb[2] - m.coldIn.H
	res[3] = yb[3] - m.coldIn.P
	return nil
}

// seed builds the initial mesh and guess: linear enthalpy profiles between
// the inlets and the q_max-limited outlet estimates from the lumped model,
// kept inside the feasible band by a safety factor.
func (m *CounterflowModel) seed(qMax float64, points int) ([]float64, [][]float64) {
	n := points
	if n < 5 {
		n = 5
	}
	q := 0.7 * qMax
	hHotOut := m.hotIn.H - q/m.hot.MassFlow   // at x = L
	hColdOut := m.coldIn.H + q/m.cold.MassFlow // at x = 0

	x := make([]float64, n)
	y := make([][]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		x[i] = t * m.geo.Length
		y[i] = []float64{
			m.hotIn.H + t*(hHotOut-m.hotIn.H),
			m.hotIn.P,
			hColdOut + t*(m.coldIn.H-hColdOut),
			m.coldIn.P,
		}
	}
	return x, y
}

// Solve runs the BVP and assembles the spatial profile. On success the
// profile is retained and returned by Profile.
func (m *CounterflowModel) Solve() (*SpatialProfile, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	simple := &SimpleModel{
		name: m.name, hot: m.hot, cold: m.cold,
		backend: m.backend, eff: 1, minFlow: m.minFlow, length: m.geo.Length,
		hotIn: m.hotIn, coldIn: m.coldIn, configured: true,
	}
	qMax, _, err := simple.QMax()
	if err != nil {
		return nil, err
	}

	cache := props.NewCache(m.backend)
	settings := bvp.Settings{
		Tol:           m.set.Tolerance,
		MaxNodes:      m.set.MaxNodes,
		MaxNewtonIter: m.set.MaxNewtonIter,
	}
	x0, y0 := m.seed(qMax, m.set.Points)

	problem := bvp.Problem{M: 4, RHS: m.rhs(cache), BC: m.bc}
	res, err := bvp.Solve(problem, x0, y0, settings)
	if err != nil {
		if ce, ok := err.(*bvp.ConvergenceError); ok {
			return nil, &BVPConvergenceError{Model: m.name, Inner: ce}
		}
		return nil, err
	}

	profile, err := m.assemble(cache, res)
	if err != nil {
		return nil, err
	}
	hits, misses := cache.Stats()
	log.WithFields(log.Fields{
		"name":        m.name,
		"nodes":       len(res.X),
		"newtonIters": res.NewtonIters,
		"refinements": res.Refinements,
		"duty":        profile.Duty,
		"cacheHits":   hits,
		"cacheMisses": misses,
	}).Info("counterflow solve converged")
	m.profile = profile
	return profile, nil
}

// assemble turns the converged mesh into a profile and enforces the
// second-law check at every node.
func (m *CounterflowModel) assemble(cache props.MixtureBackend, res *bvp.Result) (*SpatialProfile, error) {
	samples := make([]Sample, len(res.X))
	for i, x := range res.X {
		y := res.Y[i]
		hotPV, err := cache.PropertiesX(m.hot.Fluid, m.hot.Composition, props.PH(y[1], y[0]))
		if err != nil {
			return nil, &ConfigurationError{Model: m.name, Reason: "converged state not resolvable", Err: err}
		}
		coldPV, err := cache.PropertiesX(m.cold.Fluid, m.cold.Composition, props.PH(y[3], y[2]))
		if err != nil {
			return nil, &ConfigurationError{Model: m.name, Reason: "converged state not resolvable", Err: err}
		}
		u := m.localU(&hotPV, &coldPV)
		samples[i] = Sample{
			X: x,
			THot: hotPV.T, TCold: coldPV.T,
			PHot: hotPV.P, PCold: coldPV.P,
			HHot: hotPV.H, HCold: coldPV.H,
			SHot: hotPV.S, SCold: coldPV.S,
			QFlux: u * m.perimeter * (hotPV.T - coldPV.T),
			U:     u,
		}
	}

	const crossTol = 1e-3 // K, numerical slack at pinch points
	for _, s := range samples {
		if s.THot < s.TCold-crossTol {
			return nil, &ThermodynamicViolationError{
				Model: m.name, X: s.X, THot: s.THot, TCold: s.TCold,
			}
		}
	}

	first, last := samples[0], samples[len(samples)-1]
	return &SpatialProfile{
		Name:    m.name,
		Samples: samples,
		Duty:    m.hot.MassFlow * (first.HHot - last.HHot),
	}, nil
}

// Duty implements the Model interface; it solves on first use.
func (m *CounterflowModel) Duty() (float64, error) {
	p, err := m.Profile()
	if err != nil {
		return 0, err
	}
	return p.Duty, nil
}

// Profile returns the solved profile, running the solve if necessary.
func (m *CounterflowModel) Profile() (*SpatialProfile, error) {
	if m.profile != nil {
		return m.profile, nil
	}
	return m.Solve()
}

// EntropyProduction integrates the entropy flow change of both streams over
// a converged profile, in W/K.
func (m *CounterflowModel) EntropyProduction() (float64, error) {
	p, err := m.Profile()
	if err != nil {
		return 0, err
	}
	first := p.Samples[0]
	last := p.Samples[len(p.Samples)-1]
	// hot flows 0 -> L, cold flows L -> 0
	return m.hot.MassFlow*(last.SHot-first.SHot) +
		m.cold.MassFlow*(first.SCold-last.SCold), nil
}

// ExergyEntering is the exergy flow rate carried in by both streams with
// respect to the ambient temperature t0, in W.
func (m *CounterflowModel) ExergyEntering(t0 float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	exHot := m.hot.MassFlow * (m.hotIn.H - t0*m.hotIn.S)
	exCold := m.cold.MassFlow * (m.coldIn.H - t0*m.coldIn.S)
	return exHot + exCold, nil
}
