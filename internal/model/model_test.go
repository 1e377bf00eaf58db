package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionTypeFromInt(t *testing.T) {
	tests := []struct {
		in      int
		want    FunctionType
		wantErr bool
	}{
		{1, Linear, false},
		{2, LinearMinPartLoad, false},
		{3, PiecewiseLinear, false},
		{4, PiecewiseLinearWithTrajectories, false},
		{0, 0, true},
		{5, 0, true},
	}
	for _, tt := range tests {
		ft, err := FunctionTypeFromInt(tt.in)
		if tt.wantErr {
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, ft)
	}
}

func TestFunctionTypePiecewise(t *testing.T) {
	assert.False(t, Linear.Piecewise())
	assert.False(t, LinearMinPartLoad.Piecewise())
	assert.True(t, PiecewiseLinear.Piecewise())
	assert.True(t, PiecewiseLinearWithTrajectories.Piecewise())
}

func TestStartupTrajectory(t *testing.T) {
	traj := StartupTrajectory(0.4, 2)
	require.Len(t, traj, 2)
	assert.InDelta(t, 0.4/3, traj[0], 1e-12)
	assert.InDelta(t, 0.8/3, traj[1], 1e-12)

	// Strictly increasing and strictly below the minimum part load.
	for i, v := range traj {
		assert.Less(t, v, 0.4)
		if i > 0 {
			assert.Greater(t, v, traj[i-1])
		}
	}

	assert.Empty(t, StartupTrajectory(0.4, 0))
}

func TestShutdownTrajectory(t *testing.T) {
	traj := ShutdownTrajectory(0.6, 3)
	require.Len(t, traj, 3)
	// Reverse of the startup ladder: strictly decreasing, below min part load.
	for i, v := range traj {
		assert.Less(t, v, 0.6)
		if i > 0 {
			assert.Less(t, v, traj[i-1])
		}
	}
	up := StartupTrajectory(0.6, 3)
	for i := range traj {
		assert.InDelta(t, up[len(up)-1-i], traj[i], 1e-12)
	}
}

func TestBreakpointsValidate(t *testing.T) {
	tests := []struct {
		name    string
		bp      Breakpoints
		wantErr bool
	}{
		{"two segments", Breakpoints{0, 0.5, 1}, false},
		{"single segment", Breakpoints{0, 1}, false},
		{"too short", Breakpoints{0.5}, true},
		{"not increasing", Breakpoints{0, 0.5, 0.5, 1}, true},
		{"below zero", Breakpoints{-0.1, 1}, true},
		{"above one", Breakpoints{0, 1.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bp.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, len(tt.bp)-1, tt.bp.Segments())
			}
		})
	}
}

func TestCoefficientsEval(t *testing.T) {
	c := Coefficients{
		Alpha1:      map[string][]float64{"heat": {0.8, 1.2}},
		Alpha2:      map[string][]float64{"heat": {0, -0.2}},
		Breakpoints: Breakpoints{0, 0.5, 1},
	}
	assert.InDelta(t, 0.2, c.Eval("heat", 0.25), 1e-12)
	assert.InDelta(t, 0.4, c.Eval("heat", 0.5), 1e-12)
	assert.InDelta(t, 1.0, c.Eval("heat", 1.0), 1e-12)
}

func validParams() Parameters {
	return Parameters{
		Name:             "boiler",
		MainInputCarrier: "gas",
		InputCarriers:    []string{"gas"},
		OutputCarriers:   []string{"heat"},
		SizeBasedOn:      "input",
		SizeMin:          0,
		SizeMax:          10,
		RatedPower:       1,
		MinPartLoad:      0.3,
		StandbyPower:     Disabled,
		Segments:         2,
		RampingTime:      Disabled,
		RefSize:          Disabled,
	}
}

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name   string
		ft     FunctionType
		mutate func(*Parameters)
		field  string
	}{
		{"valid type 2", LinearMinPartLoad, func(p *Parameters) {}, ""},
		{"size based on output", LinearMinPartLoad, func(p *Parameters) { p.SizeBasedOn = "output" }, "size_based_on"},
		{"main not in carriers", LinearMinPartLoad, func(p *Parameters) { p.MainInputCarrier = "coal" }, "input_carrier"},
		{"missing ratio", LinearMinPartLoad, func(p *Parameters) {
			p.InputCarriers = []string{"gas", "electricity"}
		}, "input_ratios"},
		{"min part load out of range", LinearMinPartLoad, func(p *Parameters) { p.MinPartLoad = 1.2 }, "min_part_load"},
		{"size range inverted", LinearMinPartLoad, func(p *Parameters) { p.SizeMin = 5; p.SizeMax = 1 }, "size"},
		{"segments required", PiecewiseLinear, func(p *Parameters) { p.Segments = 0 }, "piecewise_segments"},
		{"trajectories outside type 4", PiecewiseLinear, func(p *Parameters) { p.SUTime = 2 }, "SU_time"},
		{"valid type 4", PiecewiseLinearWithTrajectories, func(p *Parameters) { p.SUTime = 2; p.SDTime = 1 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate(tt.ft)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParametersRatios(t *testing.T) {
	p := validParams()
	p.InputCarriers = []string{"gas", "electricity"}
	p.InputRatios = map[string]float64{"electricity": 0.02}
	require.NoError(t, p.Validate(LinearMinPartLoad))
}

func TestStandbyCarrier(t *testing.T) {
	p := validParams()
	assert.False(t, p.HasStandby())

	p.StandbyPower = 0.05
	assert.True(t, p.HasStandby())
	// Defaults to the main input carrier when unset.
	assert.Equal(t, "gas", p.StandbyCarrier())

	p.StandbyPowerCarrier = "electricity"
	assert.Equal(t, "electricity", p.StandbyCarrier())
}
