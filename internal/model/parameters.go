package model

import "fmt"

// Disabled is the sentinel technology documents use for optional numeric
// fields (standby_power, ramping_time, ref_size).
const Disabled = -1

// Parameters holds the operating parameters of one conversion technology
// with a single controllable input stream. Units and conventions:
//   - MinPartLoad, StandbyPower, breakpoints and trajectories are fractions
//     of rated capacity (size * RatedPower).
//   - StandbyPower and RampingTime use -1 to mean "disabled".
//   - RefSize of -1 means the ramping rate scales with the size decision
//     variable instead of a fixed reference.
//
// Parameters are immutable once validated; builders only read them.
type Parameters struct {
	Name string

	MainInputCarrier string
	InputCarriers    []string
	OutputCarriers   []string

	// InputRatios fixes every non-main input to a multiple of the main
	// input (phi). An entry is required for each non-main carrier.
	InputRatios map[string]float64

	SizeBasedOn string
	SizeMin     float64
	SizeMax     float64
	RatedPower  float64

	MinPartLoad         float64
	StandbyPower        float64
	StandbyPowerCarrier string // empty: defaults to the main input carrier

	// Segments is the piecewise segment count for function types 3-4.
	Segments int

	RampingTime     float64
	RampingConstInt bool
	RefSize         float64

	// SUTime/SDTime are the startup and shutdown trajectory lengths in
	// timesteps (function type 4 only).
	SUTime int
	SDTime int
}

// StandbyCarrier resolves the carrier standby power is drawn from.
func (p *Parameters) StandbyCarrier() string {
	if p.StandbyPowerCarrier == "" {
		return p.MainInputCarrier
	}
	return p.StandbyPowerCarrier
}

// HasStandby reports whether standby power is configured.
func (p *Parameters) HasStandby() bool { return p.StandbyPower != Disabled }

func (p *Parameters) confErr(field, reason string) error {
	return &ConfigurationError{Tech: p.Name, Field: field, Reason: reason}
}

// Validate checks the parameters against the model family's requirements.
// All checks run eagerly so a malformed technology never reaches the solver.
func (p *Parameters) Validate(ft FunctionType) error {
	if p.Name == "" {
		return p.confErr("name", "is required")
	}
	if p.MainInputCarrier == "" {
		return p.confErr("main_input_carrier", "is required")
	}
	if p.SizeBasedOn != "input" {
		return p.confErr("size_based_on", fmt.Sprintf("only \"input\" sizing is supported, got %q", p.SizeBasedOn))
	}
	if !containsCarrier(p.InputCarriers, p.MainInputCarrier) {
		return p.confErr("input_carrier", fmt.Sprintf("main input carrier %q not among input carriers", p.MainInputCarrier))
	}
	if len(p.OutputCarriers) == 0 {
		return p.confErr("output_carrier", "at least one output carrier is required")
	}
	for _, car := range p.InputCarriers {
		if car == p.MainInputCarrier {
			continue
		}
		if _, ok := p.InputRatios[car]; !ok {
			return p.confErr("input_ratios", fmt.Sprintf("missing ratio for input carrier %q", car))
		}
	}
	if p.HasStandby() {
		if p.StandbyPower < 0 {
			return p.confErr("standby_power", "must be -1 (disabled) or >= 0")
		}
		if !containsCarrier(p.InputCarriers, p.StandbyCarrier()) {
			return p.confErr("standby_power_carrier", fmt.Sprintf("%q not among input carriers", p.StandbyCarrier()))
		}
	}
	if p.MinPartLoad < 0 || p.MinPartLoad > 1 {
		return p.confErr("min_part_load", "must be within [0,1]")
	}
	if p.SizeMin < 0 || p.SizeMax <= 0 || p.SizeMin > p.SizeMax {
		return p.confErr("size", "must satisfy 0 <= size_min <= size_max, size_max > 0")
	}
	if p.RatedPower <= 0 {
		return p.confErr("rated_power", "must be > 0")
	}
	if ft.Piecewise() && p.Segments < 1 {
		return p.confErr("piecewise_segments", "must be >= 1 for piecewise function types")
	}
	if p.RampingTime != Disabled && p.RampingTime <= 0 {
		return p.confErr("ramping_time", "must be -1 (disabled) or > 0")
	}
	if p.RefSize != Disabled && p.RefSize <= 0 {
		return p.confErr("ref_size", "must be -1 (use size variable) or > 0")
	}
	if ft != PiecewiseLinearWithTrajectories && (p.SUTime > 0 || p.SDTime > 0) {
		return p.confErr("SU_time", "startup/shutdown trajectories require performance_function_type 4")
	}
	return nil
}

func containsCarrier(cars []string, car string) bool {
	for _, c := range cars {
		if c == car {
			return true
		}
	}
	return false
}

// Sample is one historical performance observation: the main-carrier input
// as a fraction of rated capacity, and the matching output per carrier.
type Sample struct {
	Input   float64
	Outputs map[string]float64
}
