package data

import (
	"encoding/json"
	"fmt"
	"os"

	"tech-envelope/internal/model"
)

// samplesJSON mirrors the inline sample block of technology documents:
// one input series and one output series per carrier, index-aligned.
type samplesJSON struct {
	Input   []float64            `json:"input"`
	Outputs map[string][]float64 `json:"outputs"`
}

// LoadSamplesJSON reads performance observations from a JSON file of the
// form {"input": [...], "outputs": {"heat": [...]}}.
func LoadSamplesJSON(path string) ([]model.Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc samplesJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return assembleSamples(path, doc)
}

func assembleSamples(src string, doc samplesJSON) ([]model.Sample, error) {
	if len(doc.Input) == 0 {
		return nil, fmt.Errorf("%s: no input series", src)
	}
	for car, series := range doc.Outputs {
		if len(series) != len(doc.Input) {
			return nil, fmt.Errorf("%s: output series %q has %d values, input has %d", src, car, len(series), len(doc.Input))
		}
	}
	out := make([]model.Sample, len(doc.Input))
	for i, x := range doc.Input {
		s := model.Sample{Input: x, Outputs: make(map[string]float64, len(doc.Outputs))}
		for car, series := range doc.Outputs {
			s.Outputs[car] = series[i]
		}
		out[i] = s
	}
	return out, nil
}
