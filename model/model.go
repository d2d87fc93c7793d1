package model

// Shared value types. Everything is SI: K, Pa, J/kg, kg/s, m, W.

// 流体流向
type Direction int

const (
	// counter-current is the only supported orientation and the zero value,
	// so documents that leave the field out validate
	CounterCurrent Direction = iota
	CoCurrent
)

// Stream describes one side of the exchanger at its inlet.
type Stream struct {
	Fluid       string    `json:"fluid" yaml:"fluid"`
	Composition []float64 `json:"composition" yaml:"composition"`
	MassFlow    float64   `json:"mass_flow" yaml:"mass_flow"`
	PIn         float64   `json:"p_in" yaml:"p_in"`
	TIn         float64   `json:"t_in" yaml:"t_in"`
	HIn         float64   `json:"h_in,omitempty" yaml:"h_in,omitempty"` // optional, derived from TIn when zero
	Direction   Direction `json:"direction" yaml:"direction"`
}

// Geometry of a single-shell exchanger with Tubes parallel inner tubes.
type Geometry struct {
	Length        float64 `json:"length" yaml:"length"`
	TubeDiameter  float64 `json:"d_tube" yaml:"d_tube"`   // inner diameter of one tube
	ShellDiameter float64 `json:"d_shell" yaml:"d_shell"` // inner diameter of the shell
	Tubes         int     `json:"tubes" yaml:"tubes"`
}

// SolverSettings bound the BVP solve. Zero values are replaced by the
// package defaults from conf/config.ini.
type SolverSettings struct {
	Tolerance     float64 `json:"tolerance" yaml:"tolerance"`
	MaxNodes      int     `json:"max_nodes" yaml:"max_nodes"`
	MaxNewtonIter int     `json:"max_newton_iter" yaml:"max_newton_iter"`
	MinMassFlow   float64 `json:"min_mass_flow" yaml:"min_mass_flow"`
	Points        int     `json:"points" yaml:"points"` // initial mesh size
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	// index of each stream in two-element parameter lists
	Hot  = 0
	Cold = 1
)
