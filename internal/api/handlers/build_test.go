package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-envelope/internal/api/models"
	"tech-envelope/internal/model"
)

const boilerDoc = `
name: gas_boiler
performance:
  performance_function_type: 3
  main_input_carrier: gas
  input_carriers: [gas]
  output_carriers: [heat]
  min_part_load: 0.2
  piecewise_segments: 2
  samples:
    input: [0, 0.25, 0.5, 0.75, 1.0]
    outputs:
      heat: [0, 0.2, 0.4, 0.7, 1.0]
sizing:
  size_min: 0
  size_max: 10
time:
  steps: 4
`

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewBuildHandler(log)

	r := gin.New()
	r.POST("/api/v1/build", h.Build)
	r.POST("/api/v1/fit", h.Fit)
	r.POST("/api/v1/analyze", h.Analyze)
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildEndpoint(t *testing.T) {
	r := testRouter()
	w := post(t, r, "/api/v1/build", models.BuildRequest{Document: boilerDoc})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BuildResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gas_boiler", resp.Technology)
	assert.NotEmpty(t, resp.BuildID)
	assert.Equal(t, 4, resp.Stats.Disjunctions)
	assert.Zero(t, resp.Stats.Binaries)
	assert.NotEmpty(t, resp.Fragment)
}

func TestBuildEndpointTransformBigM(t *testing.T) {
	r := testRouter()
	w := post(t, r, "/api/v1/build", models.BuildRequest{Document: boilerDoc, TransformBigM: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BuildResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Stats.Disjunctions)
	// 4 timesteps x (off + 2 segment branches).
	assert.Equal(t, 12, resp.Stats.Binaries)
}

func TestFitEndpoint(t *testing.T) {
	r := testRouter()
	w := post(t, r, "/api/v1/fit", models.FitRequest{Document: boilerDoc})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.FitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gas_boiler", resp.Technology)
	assert.Equal(t, []float64{0, 0.5, 1}, resp.Breakpoints)
	require.Len(t, resp.Alpha1["heat"], 2)
	assert.InDelta(t, 0.8, resp.Alpha1["heat"][0], 1e-9)
	assert.InDelta(t, 1.2, resp.Alpha1["heat"][1], 1e-9)
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := testRouter()
	w := post(t, r, "/api/v1/analyze", models.AnalyzeRequest{Document: boilerDoc})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "gas_boiler", resp.Technology)
	require.NotEmpty(t, resp.Candidates)
	// The boiler samples have a kink, so the piecewise shape wins.
	assert.Equal(t, model.PiecewiseLinear, resp.Candidates[0].FunctionType)
	for i := 1; i < len(resp.Candidates); i++ {
		assert.GreaterOrEqual(t, resp.Candidates[i].RMSE, resp.Candidates[i-1].RMSE)
	}
}

func TestBuildEndpointErrors(t *testing.T) {
	r := testRouter()
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing document", map[string]any{}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad configuration", models.BuildRequest{Document: `
name: tec
performance:
  performance_function_type: 7
  main_input_carrier: gas
  output_carriers: [heat]
sizing: {size_max: 5}
time: {steps: 1}
`}, http.StatusBadRequest, "CONFIGURATION_ERROR"},
		{"unfittable samples", models.BuildRequest{Document: `
name: tec
performance:
  performance_function_type: 3
  main_input_carrier: gas
  output_carriers: [heat]
  piecewise_segments: 2
  samples:
    input: [0, 0.1]
    outputs:
      heat: [0, 0.1]
sizing: {size_max: 5}
time: {steps: 1}
`}, http.StatusUnprocessableEntity, "FIT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, "/api/v1/build", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
