// Package analysis scores candidate performance-function types for a
// technology against its sample data: how well each shape fits versus how
// large the resulting MILP fragment gets. Useful when a technology document
// does not commit to a function type yet.
package analysis

import (
	"math"

	"tech-envelope/internal/model"
)

// CarrierFit summarizes the residuals of one output carrier against the
// fitted performance function.
type CarrierFit struct {
	SSE  float64 `json:"sse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// FitQuality evaluates the fitted coefficients on the given samples. R2 is
// 1 when residuals vanish and can go negative for a fit worse than the
// sample mean.
func FitQuality(coeffs *model.Coefficients, carriers []string, samples []model.Sample) map[string]CarrierFit {
	out := make(map[string]CarrierFit, len(carriers))
	if len(samples) == 0 {
		return out
	}
	for _, car := range carriers {
		var sum float64
		for _, s := range samples {
			sum += s.Outputs[car]
		}
		mean := sum / float64(len(samples))

		var sse, sst float64
		for _, s := range samples {
			r := s.Outputs[car] - coeffs.Eval(car, s.Input)
			sse += r * r
			d := s.Outputs[car] - mean
			sst += d * d
		}
		cf := CarrierFit{SSE: sse, RMSE: math.Sqrt(sse / float64(len(samples)))}
		if sst > 0 {
			cf.R2 = 1 - sse/sst
		} else if sse == 0 {
			cf.R2 = 1
		}
		out[car] = cf
	}
	return out
}

// worstRMSE is the pessimistic aggregate used for ranking.
func worstRMSE(fits map[string]CarrierFit) float64 {
	worst := 0.0
	for _, f := range fits {
		if f.RMSE > worst {
			worst = f.RMSE
		}
	}
	return worst
}
