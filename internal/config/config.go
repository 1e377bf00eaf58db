package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tech-envelope/internal/envelope"
	"tech-envelope/internal/model"
	"tech-envelope/internal/timegrid"
)

// Config is the on-disk technology document (YAML). Field names follow the
// external technology-definition format; optional numeric fields use the
// -1 sentinel to mean "disabled" and may simply be omitted.
type Config struct {
	Name        string            `yaml:"name"`
	Performance PerformanceConfig `yaml:"performance"`
	Dynamics    DynamicsConfig    `yaml:"dynamics"`
	Sizing      SizingConfig      `yaml:"sizing"`
	Time        TimeConfig        `yaml:"time"`
}

type PerformanceConfig struct {
	PerformanceFunctionType int                `yaml:"performance_function_type"`
	MainInputCarrier        string             `yaml:"main_input_carrier"`
	InputCarriers           []string           `yaml:"input_carriers"`
	OutputCarriers          []string           `yaml:"output_carriers"`
	InputRatios             map[string]float64 `yaml:"input_ratios"`
	SizeBasedOn             string             `yaml:"size_based_on"`
	MinPartLoad             float64            `yaml:"min_part_load"`
	StandbyPower            *float64           `yaml:"standby_power"`
	StandbyPowerCarrier     string             `yaml:"standby_power_carrier"`
	RatedPower              float64            `yaml:"rated_power"`
	PiecewiseSegments       int                `yaml:"piecewise_segments"`
	Samples                 SamplesConfig      `yaml:"samples"`
}

// SamplesConfig carries the raw performance series: one input fraction per
// observation and the matching output series per carrier.
type SamplesConfig struct {
	Input   []float64            `yaml:"input"`
	Outputs map[string][]float64 `yaml:"outputs"`
}

type DynamicsConfig struct {
	RampingTime     *float64 `yaml:"ramping_time"`
	RampingConstInt bool     `yaml:"ramping_const_int"`
	RefSize         *float64 `yaml:"ref_size"`
	SUTime          int      `yaml:"su_time"`
	SDTime          int      `yaml:"sd_time"`
}

type SizingConfig struct {
	SizeMin float64 `yaml:"size_min"`
	SizeMax float64 `yaml:"size_max"`
}

type TimeConfig struct {
	Steps     int   `yaml:"steps"`
	FullSteps int   `yaml:"full_steps"`
	Sequence  []int `yaml:"sequence"`

	// Method labels how the sequence was clustered (e.g. "k_means").
	// Informational: the builder only consumes the sequence itself.
	Method string `yaml:"method"`
}

// Load reads and validates a technology document from disk.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a technology document and validates it by constructing the
// model types, so the same checks guard every entry point (CLI, API, tests).
func Parse(raw []byte) (*Config, error) {
	c, err := ParseUnchecked(raw)
	if err != nil {
		return nil, err
	}
	if _, _, err := c.Parameters(); err != nil {
		return nil, err
	}
	if len(c.Performance.Samples.Input) > 0 {
		if _, err := c.Samples(); err != nil {
			return nil, err
		}
	}
	if c.Time.Steps < 1 {
		return nil, fmt.Errorf("config %s: time.steps must be >= 1", c.Name)
	}
	return c, nil
}

// ParseUnchecked decodes without validating. Useful for printing partial
// documents while debugging.
func ParseUnchecked(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Performance.SizeBasedOn == "" {
		c.Performance.SizeBasedOn = "input"
	}
	if c.Performance.RatedPower == 0 {
		c.Performance.RatedPower = 1
	}
	if len(c.Performance.InputCarriers) == 0 && c.Performance.MainInputCarrier != "" {
		c.Performance.InputCarriers = []string{c.Performance.MainInputCarrier}
	}
}

func orDisabled(v *float64) float64 {
	if v == nil {
		return model.Disabled
	}
	return *v
}

// Parameters converts the document into the immutable model parameters and
// function type the builders consume.
func (c *Config) Parameters() (*model.Parameters, model.FunctionType, error) {
	ft, err := model.FunctionTypeFromInt(c.Performance.PerformanceFunctionType)
	if err != nil {
		return nil, 0, err
	}
	p := &model.Parameters{
		Name:                c.Name,
		MainInputCarrier:    c.Performance.MainInputCarrier,
		InputCarriers:       c.Performance.InputCarriers,
		OutputCarriers:      c.Performance.OutputCarriers,
		InputRatios:         c.Performance.InputRatios,
		SizeBasedOn:         c.Performance.SizeBasedOn,
		SizeMin:             c.Sizing.SizeMin,
		SizeMax:             c.Sizing.SizeMax,
		RatedPower:          c.Performance.RatedPower,
		MinPartLoad:         c.Performance.MinPartLoad,
		StandbyPower:        orDisabled(c.Performance.StandbyPower),
		StandbyPowerCarrier: c.Performance.StandbyPowerCarrier,
		Segments:            c.Performance.PiecewiseSegments,
		RampingTime:         orDisabled(c.Dynamics.RampingTime),
		RampingConstInt:     c.Dynamics.RampingConstInt,
		RefSize:             orDisabled(c.Dynamics.RefSize),
		SUTime:              c.Dynamics.SUTime,
		SDTime:              c.Dynamics.SDTime,
	}
	if err := p.Validate(ft); err != nil {
		return nil, 0, err
	}
	return p, ft, nil
}

// Samples assembles the inline performance series into observations.
func (c *Config) Samples() ([]model.Sample, error) {
	in := c.Performance.Samples.Input
	if len(in) == 0 {
		return nil, fmt.Errorf("config %s: no inline performance samples", c.Name)
	}
	for car, series := range c.Performance.Samples.Outputs {
		if len(series) != len(in) {
			return nil, fmt.Errorf("config %s: output series %q has %d values, input has %d", c.Name, car, len(series), len(in))
		}
	}
	out := make([]model.Sample, len(in))
	for i, x := range in {
		s := model.Sample{Input: x, Outputs: make(map[string]float64, len(c.Performance.Samples.Outputs))}
		for car, series := range c.Performance.Samples.Outputs {
			s.Outputs[car] = series[i]
		}
		out[i] = s
	}
	return out, nil
}

// TimeSettings converts the time block.
func (c *Config) TimeSettings() envelope.TimeSettings {
	return envelope.TimeSettings{
		PerformanceSteps: c.Time.Steps,
		FullSteps:        c.Time.FullSteps,
		Sequence:         timegrid.Sequence(c.Time.Sequence),
	}
}
