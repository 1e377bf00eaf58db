package analysis

import (
	"sort"

	"github.com/sirupsen/logrus"

	"tech-envelope/internal/algebra"
	"tech-envelope/internal/envelope"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
)

// Candidate is one scored function type: its fit quality on the samples
// and the size of the transformed MILP fragment it produces.
type Candidate struct {
	FunctionType model.FunctionType    `json:"function_type"`
	RMSE         float64               `json:"rmse"`
	PerCarrier   map[string]CarrierFit `json:"per_carrier"`
	Model        algebra.Stats         `json:"model"`
}

// Score fits, builds and transforms one function type and measures it.
func Score(p *model.Parameters, ft model.FunctionType, samples []model.Sample, ts envelope.TimeSettings, log *logrus.Logger) (Candidate, error) {
	coeffs, err := fit.Performance(p, ft, samples)
	if err != nil {
		return Candidate{}, err
	}
	b, err := envelope.New(p, ft, coeffs, log)
	if err != nil {
		return Candidate{}, err
	}
	frag, err := b.Build(ts)
	if err != nil {
		return Candidate{}, err
	}
	if err := frag.TransformBigM(); err != nil {
		return Candidate{}, err
	}
	// Types with an off state serve the zero point exactly through the off
	// branch, so their curve is judged on the operating region only.
	quality := samples
	if ft != model.Linear {
		quality = operatingSamples(samples, p.MinPartLoad)
	}
	fits := FitQuality(coeffs, p.OutputCarriers, quality)
	return Candidate{
		FunctionType: ft,
		RMSE:         worstRMSE(fits),
		PerCarrier:   fits,
		Model:        frag.Stats(),
	}, nil
}

func operatingSamples(samples []model.Sample, minPartLoad float64) []model.Sample {
	out := samples[:0:0]
	for _, s := range samples {
		if s.Input >= minPartLoad {
			out = append(out, s)
		}
	}
	return out
}

// RankFunctionTypes scores every function type the parameters can carry
// and sorts ascending by worst-carrier RMSE, breaking ties toward the
// smaller model (fewer binaries). Types that cannot be fitted or built from
// the given document are logged and skipped; trajectory parameters are only
// meaningful for type 4 and are zeroed for the others.
func RankFunctionTypes(p *model.Parameters, samples []model.Sample, ts envelope.TimeSettings, log *logrus.Logger) []Candidate {
	if log == nil {
		log = logrus.StandardLogger()
	}
	types := []model.FunctionType{model.Linear, model.LinearMinPartLoad}
	if p.Segments >= 1 {
		types = append(types, model.PiecewiseLinear)
		if p.SUTime > 0 || p.SDTime > 0 {
			types = append(types, model.PiecewiseLinearWithTrajectories)
		}
	}

	out := make([]Candidate, 0, len(types))
	for _, ft := range types {
		q := *p
		if ft != model.PiecewiseLinearWithTrajectories {
			q.SUTime, q.SDTime = 0, 0
		}
		if q.HasStandby() && ft != model.LinearMinPartLoad && ft != model.PiecewiseLinear {
			q.StandbyPower = model.Disabled
		}
		c, err := Score(&q, ft, samples, ts, log)
		if err != nil {
			log.WithFields(logrus.Fields{
				"technology":    p.Name,
				"function_type": ft.String(),
			}).WithError(err).Warn("candidate skipped")
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RMSE != out[j].RMSE {
			return out[i].RMSE < out[j].RMSE
		}
		return out[i].Model.Binaries < out[j].Model.Binaries
	})
	return out
}
