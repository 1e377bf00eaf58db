package analysis

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-envelope/internal/envelope"
	"tech-envelope/internal/model"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func analyzeParams() *model.Parameters {
	return &model.Parameters{
		Name:             "tec",
		MainInputCarrier: "gas",
		InputCarriers:    []string{"gas"},
		OutputCarriers:   []string{"heat"},
		SizeBasedOn:      "input",
		SizeMin:          0,
		SizeMax:          10,
		RatedPower:       1,
		MinPartLoad:      0.2,
		StandbyPower:     model.Disabled,
		Segments:         2,
		RampingTime:      model.Disabled,
		RefSize:          model.Disabled,
	}
}

func samplesOn(f func(x float64) float64, xs ...float64) []model.Sample {
	out := make([]model.Sample, len(xs))
	for i, x := range xs {
		out[i] = model.Sample{Input: x, Outputs: map[string]float64{"heat": f(x)}}
	}
	return out
}

func TestFitQuality(t *testing.T) {
	coeffs := &model.Coefficients{
		Alpha1: map[string][]float64{"heat": {2}},
		Alpha2: map[string][]float64{"heat": {0}},
	}

	t.Run("exact fit", func(t *testing.T) {
		fits := FitQuality(coeffs, []string{"heat"}, samplesOn(func(x float64) float64 { return 2 * x }, 0, 0.5, 1))
		require.Contains(t, fits, "heat")
		assert.Zero(t, fits["heat"].SSE)
		assert.Zero(t, fits["heat"].RMSE)
		assert.Equal(t, 1.0, fits["heat"].R2)
	})

	t.Run("residuals", func(t *testing.T) {
		fits := FitQuality(coeffs, []string{"heat"}, samplesOn(func(x float64) float64 { return 2*x + 0.1 }, 0, 0.5, 1))
		assert.InDelta(t, 0.03, fits["heat"].SSE, 1e-12)
		assert.Greater(t, fits["heat"].R2, 0.9)
	})
}

func TestScore(t *testing.T) {
	p := analyzeParams()
	samples := samplesOn(func(x float64) float64 { return x * x }, 0, 0.25, 0.5, 0.75, 1)
	ts := envelope.TimeSettings{PerformanceSteps: 2}

	c, err := Score(p, model.PiecewiseLinear, samples, ts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, model.PiecewiseLinear, c.FunctionType)
	assert.Greater(t, c.RMSE, 0.0)
	// Transformed fragment: 2 timesteps x (off + 2 segments) indicators.
	assert.Equal(t, 6, c.Model.Binaries)
	assert.Zero(t, c.Model.Disjunctions)
}

// On curved data more expressive shapes fit strictly better, so the
// ranking runs piecewise, affine, proportional.
func TestRankFunctionTypesByFit(t *testing.T) {
	p := analyzeParams()
	samples := samplesOn(func(x float64) float64 { return x * x }, 0, 0.25, 0.5, 0.6, 0.75, 1)
	ts := envelope.TimeSettings{PerformanceSteps: 2}

	ranked := RankFunctionTypes(p, samples, ts, testLogger())
	require.Len(t, ranked, 3)
	assert.Equal(t, model.PiecewiseLinear, ranked[0].FunctionType)
	assert.Equal(t, model.LinearMinPartLoad, ranked[1].FunctionType)
	assert.Equal(t, model.Linear, ranked[2].FunctionType)
	assert.LessOrEqual(t, ranked[0].RMSE, ranked[1].RMSE)
	assert.LessOrEqual(t, ranked[1].RMSE, ranked[2].RMSE)
}

// On exactly proportional data every shape fits perfectly and the tie
// breaks toward the smaller model.
func TestRankFunctionTypesTieBreaksOnModelSize(t *testing.T) {
	p := analyzeParams()
	samples := samplesOn(func(x float64) float64 { return 2 * x }, 0, 0.25, 0.5, 0.75, 1)
	ts := envelope.TimeSettings{PerformanceSteps: 2}

	ranked := RankFunctionTypes(p, samples, ts, testLogger())
	require.Len(t, ranked, 3)
	assert.Equal(t, model.Linear, ranked[0].FunctionType)
	assert.Zero(t, ranked[0].Model.Binaries)
	for _, c := range ranked {
		assert.InDelta(t, 0, c.RMSE, 1e-9)
	}
}

func TestRankFunctionTypesIncludesTrajectories(t *testing.T) {
	p := analyzeParams()
	p.SUTime = 2
	p.SDTime = 1
	samples := samplesOn(func(x float64) float64 { return x }, 0, 0.25, 0.5, 0.75, 1)
	ts := envelope.TimeSettings{PerformanceSteps: 3}

	ranked := RankFunctionTypes(p, samples, ts, testLogger())
	types := make([]model.FunctionType, len(ranked))
	for i, c := range ranked {
		types[i] = c.FunctionType
	}
	assert.Contains(t, types, model.PiecewiseLinearWithTrajectories)
}

func TestRankFunctionTypesSkipsUnfittable(t *testing.T) {
	p := analyzeParams()
	p.Segments = 4
	// Three samples cannot support a 4-segment piecewise fit, so that
	// candidate drops out of the ranking.
	samples := samplesOn(func(x float64) float64 { return x }, 0, 0.5, 1)

	ranked := RankFunctionTypes(p, samples, envelope.TimeSettings{PerformanceSteps: 1}, testLogger())
	require.Len(t, ranked, 2)
	assert.Equal(t, model.Linear, ranked[0].FunctionType)
}
