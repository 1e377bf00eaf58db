package timegrid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-envelope/internal/algebra"
)

func TestSequenceValidate(t *testing.T) {
	tests := []struct {
		name     string
		seq      Sequence
		repSteps int
		wantErr  bool
	}{
		{"valid", Sequence{0, 1, 1, 0}, 2, false},
		{"empty", Sequence{}, 2, true},
		{"negative", Sequence{0, -1}, 2, true},
		{"out of range", Sequence{0, 2}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seq.Validate(tt.repSteps)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func linkFixture(t *testing.T, seq Sequence, repSteps int) (*algebra.Fragment, map[string][]*algebra.Var, map[string][]*algebra.Var) {
	t.Helper()
	f := algebra.NewFragment("tec")
	clustered := map[string][]*algebra.Var{"gas": make([]*algebra.Var, repSteps)}
	full := map[string][]*algebra.Var{"gas": make([]*algebra.Var, len(seq))}
	for i := 0; i < repSteps; i++ {
		clustered["gas"][i] = f.NewVar(f.Scoped("input", i, "gas"), algebra.Continuous, 0, 10)
	}
	for i := range seq {
		full["gas"][i] = f.NewVar(f.Scoped("input_full", i, "gas"), algebra.Continuous, 0, 10)
	}
	return f, clustered, full
}

func TestLink(t *testing.T) {
	seq := Sequence{0, 1, 1, 0}
	f, clustered, full := linkFixture(t, seq, 2)

	cons, err := Link(f, "link_full_res", clustered, full, seq)
	require.NoError(t, err)
	assert.Len(t, cons, 4)
	assert.Equal(t, "tec.link_full_res[0,gas]", cons[0].Name)

	// A full series expanded from the representative one satisfies every
	// link; a single mismatched step does not.
	p := algebra.Point{}
	rep := []float64{3, 7}
	for i, v := range rep {
		p[fmt.Sprintf("tec.input[%d,gas]", i)] = v
	}
	for tt, r := range seq {
		p[fmt.Sprintf("tec.input_full[%d,gas]", tt)] = rep[r]
	}
	assert.True(t, f.Feasible(p, algebra.DefaultTol))

	p["tec.input_full[2,gas]"] = 5
	assert.False(t, f.Feasible(p, algebra.DefaultTol))
}

func TestLinkErrors(t *testing.T) {
	seq := Sequence{0, 1, 1, 0}

	t.Run("missing clustered carrier", func(t *testing.T) {
		f, _, full := linkFixture(t, seq, 2)
		_, err := Link(f, "link", map[string][]*algebra.Var{}, full, seq)
		assert.ErrorContains(t, err, "no clustered series")
	})

	t.Run("length mismatch", func(t *testing.T) {
		f, clustered, full := linkFixture(t, seq, 2)
		_, err := Link(f, "link", clustered, full, seq[:3])
		assert.ErrorContains(t, err, "sequence has 3")
	})

	t.Run("sequence outside representative range", func(t *testing.T) {
		f, clustered, full := linkFixture(t, seq, 2)
		_, err := Link(f, "link", clustered, full, Sequence{0, 1, 2, 0})
		assert.ErrorContains(t, err, "outside representative range")
	})
}
