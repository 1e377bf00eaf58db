package envelope

import (
	"github.com/sirupsen/logrus"

	"tech-envelope/internal/algebra"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
)

// Synthesize runs the whole per-technology pipeline: fit the performance
// samples, validate, and build the constraint fragment. It returns the
// fragment together with the fitted coefficients so callers can report
// them.
func Synthesize(p *model.Parameters, ft model.FunctionType, samples []model.Sample, ts TimeSettings, log *logrus.Logger) (*algebra.Fragment, *model.Coefficients, error) {
	coeffs, err := fit.Performance(p, ft, samples)
	if err != nil {
		return nil, nil, err
	}
	b, err := New(p, ft, coeffs, log)
	if err != nil {
		return nil, nil, err
	}
	frag, err := b.Build(ts)
	if err != nil {
		return nil, nil, err
	}
	return frag, coeffs, nil
}
