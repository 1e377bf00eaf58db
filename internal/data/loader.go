package data

import (
	"fmt"
	"path/filepath"
	"strings"

	"tech-envelope/internal/model"
)

// LoadSamples reads observations from a local file, dispatching on the
// extension.
func LoadSamples(path string) ([]model.Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadSamplesCSV(path)
	case ".json":
		return LoadSamplesJSON(path)
	default:
		return nil, fmt.Errorf("%s: unsupported sample format, want .csv or .json", path)
	}
}
