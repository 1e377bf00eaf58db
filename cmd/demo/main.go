package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tech-envelope/internal/envelope"
	"tech-envelope/internal/model"
)

// Demo: a piecewise gas boiler with an electricity auxiliary input, built
// over a day of hourly steps, then big-M transformed.
func main() {
	p := &model.Parameters{
		Name:             "gas_boiler",
		MainInputCarrier: "gas",
		InputCarriers:    []string{"gas", "electricity"},
		OutputCarriers:   []string{"heat"},
		InputRatios:      map[string]float64{"electricity": 0.02},
		SizeBasedOn:      "input",
		SizeMin:          0,
		SizeMax:          25,
		RatedPower:       1,
		MinPartLoad:      0.25,
		StandbyPower:     model.Disabled,
		Segments:         2,
		RampingTime:      model.Disabled,
		RefSize:          model.Disabled,
	}

	// Synthetic boiler curve: efficiency drops off below half load.
	samples := []model.Sample{
		{Input: 0.1, Outputs: map[string]float64{"heat": 0.06}},
		{Input: 0.3, Outputs: map[string]float64{"heat": 0.22}},
		{Input: 0.5, Outputs: map[string]float64{"heat": 0.41}},
		{Input: 0.7, Outputs: map[string]float64{"heat": 0.60}},
		{Input: 0.9, Outputs: map[string]float64{"heat": 0.80}},
		{Input: 1.0, Outputs: map[string]float64{"heat": 0.90}},
	}

	ts := envelope.TimeSettings{PerformanceSteps: 24}
	frag, coeffs, err := envelope.Synthesize(p, model.PiecewiseLinear, samples, ts, logrus.StandardLogger())
	if err != nil {
		panic(err)
	}

	fmt.Printf("fitted breakpoints: %v\n", []float64(coeffs.Breakpoints))
	fmt.Printf("heat alpha1: %v\n", coeffs.Alpha1["heat"])
	fmt.Printf("heat alpha2: %v\n", coeffs.Alpha2["heat"])

	before := frag.Stats()
	fmt.Printf("before transform: %d vars, %d constraints, %d disjunctions\n",
		before.Variables, before.Constraints, before.Disjunctions)

	if err := frag.TransformBigM(); err != nil {
		panic(err)
	}
	after := frag.Stats()
	fmt.Printf("after transform:  %d vars (%d binary), %d constraints\n",
		after.Variables, after.Binaries, after.Constraints)
}
