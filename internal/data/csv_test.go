package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSamplesCSV(t *testing.T) {
	path := writeCSV(t, "input,heat,electricity\n0.0,0.0,0.0\n0.5,0.42,0.18\n1.0,0.9,0.35\n")

	samples, err := LoadSamplesCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, 0.5, samples[1].Input)
	assert.Equal(t, 0.42, samples[1].Outputs["heat"])
	assert.Equal(t, 0.18, samples[1].Outputs["electricity"])
}

func TestLoadSamplesCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errHint string
	}{
		{"header only", "input,heat\n", "at least one sample"},
		{"wrong first column", "x,heat\n0,0\n", "header must be"},
		{"no output columns", "input\n0\n", "header must be"},
		{"bad input value", "input,heat\nnope,0\n", "bad input value"},
		{"bad output value", "input,heat\n0.5,nope\n", "bad heat value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSamplesCSV(writeCSV(t, tt.content))
			assert.ErrorContains(t, err, tt.errHint)
		})
	}
}

func TestLoadSamplesCSVMissingFile(t *testing.T) {
	_, err := LoadSamplesCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
