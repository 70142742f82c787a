package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thurmanmarka/astroreturn"
	"github.com/thurmanmarka/astroreturn/internal/metrics"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// Handler handles HTTP requests for crossings, returns and phases.
type Handler struct {
	solver  *astroreturn.Solver
	catalog atomic.Pointer[astroreturn.Catalog]
	metrics *metrics.Collector
}

// NewHandler creates a new HTTP handler. m may be nil.
func NewHandler(solver *astroreturn.Solver, catalog *astroreturn.Catalog, m *metrics.Collector) *Handler {
	h := &Handler{
		solver:  solver,
		metrics: m,
	}
	h.catalog.Store(catalog)
	return h
}

// SetCatalog swaps the body catalog. In-flight requests keep the one they
// started with.
func (h *Handler) SetCatalog(c *astroreturn.Catalog) {
	h.catalog.Store(c)
}

// Catalog returns the current body catalog.
func (h *Handler) Catalog() *astroreturn.Catalog {
	return h.catalog.Load()
}

type bodyInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PeriodDays    float64 `json:"period_days"`
	StepDays      float64 `json:"step_days"`
	CanRetrograde bool    `json:"retrograde"`
}

type eventResponse struct {
	Body       string  `json:"body"`
	Target     float64 `json:"target"`
	Time       string  `json:"time"`
	JD         float64 `json:"jd"`
	Sense      string  `json:"sense,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
}

func newEventResponse(body string, target float64, res astroreturn.CrossingResult) eventResponse {
	return eventResponse{
		Body:       body,
		Target:     target,
		Time:       res.Instant.Time().Format(time.RFC3339Nano),
		JD:         float64(res.Instant),
		Sense:      res.Sense.String(),
		Iterations: res.Iterations,
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"bodies": h.Catalog().Len(),
	})
}

// ListBodies handles GET /v1/bodies.
func (h *Handler) ListBodies(c *gin.Context) {
	bodies := h.Catalog().Bodies()
	out := make([]bodyInfo, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, bodyInfo{
			ID:            b.ID,
			Name:          b.String(),
			PeriodDays:    b.CoarsePeriodDays,
			StepDays:      b.Step(),
			CanRetrograde: b.CanRetrograde,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bodies": out})
}

// GetCrossing handles GET /v1/crossing.
func (h *Handler) GetCrossing(c *gin.Context) {
	body, target, ok := h.bodyAndTarget(c)
	if !ok {
		return
	}
	start, ok := instantParam(c, "start")
	if !ok {
		return
	}

	dir := astroreturn.Forward
	switch strings.ToLower(c.DefaultQuery("direction", "forward")) {
	case "forward":
	case "backward":
		dir = astroreturn.Backward
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be forward or backward"})
		return
	}

	tol := h.solver.Options().Tolerance
	if s := c.Query("tolerance"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid tolerance %q (expected a positive duration such as 1s)", s)})
			return
		}
		tol = timeutil.SecondsToDays(d)
	}

	began := time.Now()
	res, err := h.solver.Crossing(astroreturn.CrossingQuery{
		Body:      body,
		Target:    target,
		Start:     start,
		Direction: dir,
		Tolerance: tol,
	})
	h.record(body.ID, "crossing", began, err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(body.ID, target, res))
}

// GetNthReturn handles GET /v1/returns/nth.
func (h *Handler) GetNthReturn(c *gin.Context) {
	body, target, ok := h.bodyAndTarget(c)
	if !ok {
		return
	}
	anchor, ok := instantParam(c, "anchor")
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid n: %v", err)})
		return
	}

	began := time.Now()
	res, err := h.solver.Return(astroreturn.ReturnQuery{
		Body:   body,
		Target: target,
		Anchor: anchor,
		Mode:   astroreturn.NthFromAnchor,
		N:      n,
	})
	h.record(body.ID, "nth", began, err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(body.ID, target, res))
}

// GetNearestReturn handles GET /v1/returns/nearest.
func (h *Handler) GetNearestReturn(c *gin.Context) {
	body, target, ok := h.bodyAndTarget(c)
	if !ok {
		return
	}
	anchor, ok := instantParam(c, "anchor")
	if !ok {
		return
	}

	began := time.Now()
	res, err := h.solver.Return(astroreturn.ReturnQuery{
		Body:   body,
		Target: target,
		Anchor: anchor,
		Mode:   astroreturn.NearestToAnchor,
	})
	h.record(body.ID, "nearest", began, err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(body.ID, target, res))
}

// GetNextPhase handles GET /v1/phases/next.
func (h *Handler) GetNextPhase(c *gin.Context) {
	kind, err := astroreturn.ParsePhaseKind(c.Query("kind"))
	if err != nil {
		writeError(c, err)
		return
	}
	after, ok := instantParam(c, "after")
	if !ok {
		return
	}

	began := time.Now()
	at, err := h.solver.NextPhase(kind, after)
	h.record(astroreturn.LunarPhase.ID, "phase", began, err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"phase": kind.String(),
		"time":  at.Time().Format(time.RFC3339Nano),
		"jd":    float64(at),
	})
}

func (h *Handler) record(body, op string, began time.Time, err error) {
	if h.metrics != nil {
		h.metrics.RecordQuery(body, op, time.Since(began), err)
	}
}

// bodyAndTarget reads the body and target parameters, writing a 400 and
// returning false when either is missing or malformed.
func (h *Handler) bodyAndTarget(c *gin.Context) (astroreturn.Body, float64, bool) {
	id := c.Query("body")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body parameter is required"})
		return astroreturn.Body{}, 0, false
	}
	body, found := h.Catalog().Lookup(id)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown body %q", id)})
		return astroreturn.Body{}, 0, false
	}

	targetStr := c.Query("target")
	if targetStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target parameter is required"})
		return astroreturn.Body{}, 0, false
	}
	target, err := strconv.ParseFloat(targetStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid target longitude: %v", err)})
		return astroreturn.Body{}, 0, false
	}

	return body, target, true
}

// instantParam reads an RFC3339 time or a bare Julian Day from the named
// query parameter.
func instantParam(c *gin.Context, name string) (astroreturn.Instant, bool) {
	s := c.Query(name)
	if s == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s parameter is required", name)})
		return 0, false
	}
	at, err := ParseInstant(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", name, err)})
		return 0, false
	}
	return at, true
}

// ParseInstant accepts an RFC3339 timestamp or a Julian Day number.
func ParseInstant(s string) (astroreturn.Instant, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return astroreturn.InstantOf(t), nil
	}
	jd, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected RFC3339 or a Julian Day, got %q", s)
	}
	return astroreturn.Instant(jd), nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, astroreturn.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, astroreturn.ErrCrossingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "no occurrence found within the search horizon",
			"detail": err.Error(),
		})
	case errors.Is(err, astroreturn.ErrProvider):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
