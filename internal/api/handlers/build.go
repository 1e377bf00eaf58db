package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tech-envelope/internal/analysis"
	"tech-envelope/internal/api/models"
	"tech-envelope/internal/config"
	"tech-envelope/internal/envelope"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
)

// BuildHandler synthesizes constraint fragments from posted technology
// documents.
type BuildHandler struct {
	log   *logrus.Logger
	cache *BuildCache
}

func NewBuildHandler(log *logrus.Logger) *BuildHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BuildHandler{log: log, cache: CacheFromEnv()}
}

// Build handles POST /api/v1/build.
func (h *BuildHandler) Build(c *gin.Context) {
	var req models.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	key := CacheKey(req.Document, req.TransformBigM)
	if resp, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, resp)
		return
	}

	cfg, p, ft, samples, ok := h.loadDocument(c, req.Document)
	if !ok {
		return
	}

	frag, _, err := envelope.Synthesize(p, ft, samples, cfg.TimeSettings(), h.log)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if req.TransformBigM {
		if err := frag.TransformBigM(); err != nil {
			writeError(c, http.StatusUnprocessableEntity, "TRANSFORM_ERROR", err.Error())
			return
		}
	}

	raw, err := json.Marshal(frag)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	resp := models.BuildResponse{
		BuildID:    frag.BuildID.String(),
		Technology: frag.Tech,
		Stats:      frag.Stats(),
		Fragment:   raw,
	}
	h.cache.Set(key, resp)
	c.JSON(http.StatusOK, resp)
}

// Analyze handles POST /api/v1/analyze: rank the function types the
// document could use by fit quality and model size.
func (h *BuildHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, p, _, samples, ok := h.loadDocument(c, req.Document)
	if !ok {
		return
	}

	candidates := analysis.RankFunctionTypes(p, samples, cfg.TimeSettings(), h.log)
	if len(candidates) == 0 {
		writeError(c, http.StatusUnprocessableEntity, "FIT_ERROR", "no function type could be fitted from the samples")
		return
	}
	c.JSON(http.StatusOK, models.AnalyzeResponse{
		Technology: p.Name,
		Candidates: candidates,
	})
}

// Fit handles POST /api/v1/fit.
func (h *BuildHandler) Fit(c *gin.Context) {
	var req models.FitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	_, p, ft, samples, ok := h.loadDocument(c, req.Document)
	if !ok {
		return
	}

	coeffs, err := fit.Performance(p, ft, samples)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FitResponse{
		Technology:  p.Name,
		Breakpoints: coeffs.Breakpoints,
		Alpha1:      coeffs.Alpha1,
		Alpha2:      coeffs.Alpha2,
	})
}

func (h *BuildHandler) loadDocument(c *gin.Context, doc string) (*config.Config, *model.Parameters, model.FunctionType, []model.Sample, bool) {
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		writeDomainError(c, err)
		return nil, nil, 0, nil, false
	}
	p, ft, err := cfg.Parameters()
	if err != nil {
		writeDomainError(c, err)
		return nil, nil, 0, nil, false
	}
	samples, err := cfg.Samples()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return nil, nil, 0, nil, false
	}
	return cfg, p, ft, samples, true
}

func writeDomainError(c *gin.Context, err error) {
	var confErr *model.ConfigurationError
	var fitErr *model.FitError
	switch {
	case errors.As(err, &confErr):
		writeError(c, http.StatusBadRequest, "CONFIGURATION_ERROR", err.Error())
	case errors.As(err, &fitErr):
		writeError(c, http.StatusUnprocessableEntity, "FIT_ERROR", err.Error())
	default:
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{Code: code, Message: msg}})
}
