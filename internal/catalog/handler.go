package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/powerparts/internal/formula"
	"github.com/HerbHall/powerparts/internal/metrics"
	"github.com/HerbHall/powerparts/internal/server"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
	"github.com/HerbHall/powerparts/pkg/models"
)

// SnapshotHeader carries the ID of the catalog snapshot a response was
// computed from.
const SnapshotHeader = "X-Catalog-Snapshot"

// maxDesignBody bounds the JSON body accepted by the design endpoint.
const maxDesignBody = 64 << 10

// CatalogResponse is the response for GET /api/v1/catalog/{family}.
type CatalogResponse struct {
	Family     models.Family                `json:"family"`
	Dataset    string                       `json:"dataset"`
	SnapshotID string                       `json:"snapshot_id"`
	LoadedAt   time.Time                    `json:"loaded_at"`
	Count      int                          `json:"count"`
	Parts      any                          `json:"parts"`
	Warnings   []pkgcatalog.RowParseWarning `json:"warnings"`
}

// SuggestResponse is the response for GET /api/v1/suggest/{family}.
type SuggestResponse struct {
	Family      models.Family      `json:"family"`
	Requirement models.Requirement `json:"requirement"`
	// Matched is the number of qualifying parts before the limit is applied.
	Matched    int `json:"matched"`
	Count      int `json:"count"`
	Candidates any `json:"candidates"`
}

// DesignRequest is the body for POST /api/v1/design/{circuit}.
type DesignRequest struct {
	Parameters map[string]float64 `json:"parameters"`
	Limit      *int               `json:"limit,omitempty"`
}

// Handler serves the catalog, suggestion and design API.
type Handler struct {
	engine       *Engine
	logger       *zap.Logger
	displayCount int
}

// NewHandler creates a new catalog API handler. displayCount is the default
// number of candidates returned per family; zero or less returns all.
func NewHandler(engine *Engine, logger *zap.Logger, displayCount int) *Handler {
	return &Handler{engine: engine, logger: logger, displayCount: displayCount}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/{family}", h.handleCatalog)
	mux.HandleFunc("GET /api/v1/suggest/mosfets", h.handleSuggestMosfets)
	mux.HandleFunc("GET /api/v1/suggest/inductors", h.handleSuggestInductors)
	mux.HandleFunc("GET /api/v1/suggest/capacitors", h.handleSuggestCapacitors)
	mux.HandleFunc("POST /api/v1/design/{circuit}", h.handleDesign)
}

// handleCatalog returns the normalized catalog of one family together with
// the row warnings recorded while loading it.
//
//	@Summary		Get normalized catalog
//	@Tags			catalog
//	@Produce		json
//	@Param			family path string true "mosfets, inductors or capacitors"
//	@Success		200 {object} CatalogResponse
//	@Failure		404 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/catalog/{family} [get]
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	family, err := models.ParseFamily(r.PathValue("family"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	loader := h.engine.Loader()
	dataset := h.engine.Datasets().For(family)
	ctx := r.Context()

	var resp CatalogResponse
	switch family {
	case models.FamilyMosfet:
		snap, lerr := loader.Mosfets(ctx, dataset)
		if lerr == nil {
			resp = catalogResponse(snap)
		}
		err = lerr
	case models.FamilyInductor:
		snap, lerr := loader.Inductors(ctx, dataset)
		if lerr == nil {
			resp = catalogResponse(snap)
		}
		err = lerr
	case models.FamilyCapacitor:
		snap, lerr := loader.Capacitors(ctx, dataset)
		if lerr == nil {
			resp = catalogResponse(snap)
		}
		err = lerr
	}
	if err != nil {
		h.logger.Error("failed to load catalog",
			zap.String("family", string(family)),
			zap.String("dataset", dataset),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	w.Header().Set(SnapshotHeader, resp.SnapshotID)
	writeJSON(w, http.StatusOK, resp)
}

func catalogResponse[T any](snap *pkgcatalog.Snapshot[T]) CatalogResponse {
	return CatalogResponse{
		Family:     snap.Family,
		Dataset:    snap.Dataset,
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Count:      snap.Len(),
		Parts:      snap.Parts(),
		Warnings:   snap.Warnings(),
	}
}

// handleSuggestMosfets returns MOSFETs rated for the given voltage and
// current with headroom, cheapest first.
//
//	@Summary		Suggest MOSFETs
//	@Tags			suggest
//	@Produce		json
//	@Param			voltage query string true "Required voltage, e.g. 400 or 400V"
//	@Param			current query string true "Required current, e.g. 10 or 10A"
//	@Param			limit query int false "Maximum candidates (0 for all)"
//	@Success		200 {object} SuggestResponse
//	@Failure		400 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/suggest/mosfets [get]
func (h *Handler) handleSuggestMosfets(w http.ResponseWriter, r *http.Request) {
	var req models.Requirement
	q := newQuery(r)
	req.Voltage = q.quantity("voltage", pkgcatalog.Voltage)
	req.Current = q.quantity("current", pkgcatalog.Current)
	limit := q.limit(h.displayCount)
	if q.err != nil {
		writeError(w, r, http.StatusBadRequest, q.err.Error())
		return
	}

	start := time.Now()
	parts, err := h.engine.SuggestMosfets(r.Context(), req.Voltage, req.Current)
	metrics.ObserveRecommendation(string(models.FamilyMosfet), start, len(parts), err)
	if err != nil {
		h.suggestFailed(w, r, err)
		return
	}
	top := Top(parts, limit)
	writeJSON(w, http.StatusOK, SuggestResponse{
		Family:      models.FamilyMosfet,
		Requirement: req,
		Matched:     len(parts),
		Count:       len(top),
		Candidates:  top,
	})
}

// handleSuggestInductors returns inductors meeting the inductance floor and
// current headroom, cheapest first.
//
//	@Summary		Suggest inductors
//	@Tags			suggest
//	@Produce		json
//	@Param			inductance query string true "Required inductance, e.g. 2.2mH"
//	@Param			current query string true "Required current, e.g. 10A"
//	@Param			limit query int false "Maximum candidates (0 for all)"
//	@Success		200 {object} SuggestResponse
//	@Failure		400 {object} map[string]any
//	@Router			/suggest/inductors [get]
func (h *Handler) handleSuggestInductors(w http.ResponseWriter, r *http.Request) {
	var req models.Requirement
	q := newQuery(r)
	req.Inductance = q.quantity("inductance", pkgcatalog.Inductance)
	req.Current = q.quantity("current", pkgcatalog.Current)
	limit := q.limit(h.displayCount)
	if q.err != nil {
		writeError(w, r, http.StatusBadRequest, q.err.Error())
		return
	}

	start := time.Now()
	parts, err := h.engine.SuggestInductors(r.Context(), req.Inductance, req.Current)
	metrics.ObserveRecommendation(string(models.FamilyInductor), start, len(parts), err)
	if err != nil {
		h.suggestFailed(w, r, err)
		return
	}
	top := Top(parts, limit)
	writeJSON(w, http.StatusOK, SuggestResponse{
		Family:      models.FamilyInductor,
		Requirement: req,
		Matched:     len(parts),
		Count:       len(top),
		Candidates:  top,
	})
}

// handleSuggestCapacitors returns capacitors meeting the capacitance floor
// and voltage headroom, closest capacitance first.
//
//	@Summary		Suggest capacitors
//	@Tags			suggest
//	@Produce		json
//	@Param			capacitance query string true "Required capacitance, e.g. 100uF"
//	@Param			voltage query string true "Required voltage, e.g. 300V"
//	@Param			limit query int false "Maximum candidates (0 for all)"
//	@Success		200 {object} SuggestResponse
//	@Failure		400 {object} map[string]any
//	@Router			/suggest/capacitors [get]
func (h *Handler) handleSuggestCapacitors(w http.ResponseWriter, r *http.Request) {
	var req models.Requirement
	q := newQuery(r)
	req.Capacitance = q.quantity("capacitance", pkgcatalog.Capacitance)
	req.Voltage = q.quantity("voltage", pkgcatalog.Voltage)
	limit := q.limit(h.displayCount)
	if q.err != nil {
		writeError(w, r, http.StatusBadRequest, q.err.Error())
		return
	}

	start := time.Now()
	parts, err := h.engine.SuggestCapacitors(r.Context(), req.Capacitance, req.Voltage)
	metrics.ObserveRecommendation(string(models.FamilyCapacitor), start, len(parts), err)
	if err != nil {
		h.suggestFailed(w, r, err)
		return
	}
	top := Top(parts, limit)
	writeJSON(w, http.StatusOK, SuggestResponse{
		Family:      models.FamilyCapacitor,
		Requirement: req,
		Matched:     len(parts),
		Count:       len(top),
		Candidates:  top,
	})
}

// handleDesign sizes a converter from the posted parameters and suggests
// parts for every family.
//
//	@Summary		Design a converter
//	@Tags			design
//	@Accept			json
//	@Produce		json
//	@Param			circuit path string true "pfc or buck"
//	@Param			request body DesignRequest true "Design parameters in SI units"
//	@Success		200 {object} DesignPlan
//	@Failure		400 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/design/{circuit} [post]
func (h *Handler) handleDesign(w http.ResponseWriter, r *http.Request) {
	circuit, err := formula.ParseCircuit(r.PathValue("circuit"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, r, http.StatusUnsupportedMediaType, "request body must be application/json")
		return
	}

	var body DesignRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDesignBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := formula.Validate(body.Parameters); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit := h.displayCount
	if body.Limit != nil {
		if *body.Limit < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must not be negative")
			return
		}
		limit = *body.Limit
	}

	plan, err := h.engine.Plan(r.Context(), circuit, body.Parameters)
	if err != nil {
		var ce *formula.ComputeError
		if errors.As(err, &ce) {
			metrics.DesignsTotal.WithLabelValues(string(circuit), "invalid").Inc()
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		metrics.DesignsTotal.WithLabelValues(string(circuit), "error").Inc()
		h.logger.Error("design failed", zap.String("circuit", string(circuit)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	metrics.DesignsTotal.WithLabelValues(string(circuit), "ok").Inc()

	plan.Truncate(limit)
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) suggestFailed(w http.ResponseWriter, r *http.Request, err error) {
	var re *RecommendationError
	family := "unknown"
	if errors.As(err, &re) {
		family = string(re.Family)
	}
	h.logger.Error("suggestion failed", zap.String("family", family), zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
}

// query collects the first error while reading request parameters.
type query struct {
	r   *http.Request
	err error
}

func newQuery(r *http.Request) *query {
	return &query{r: r}
}

// quantity parses a required parameter, accepting plain SI numbers or
// values with units ("100uF", "2.2mH"). Voltage and current may be signed.
func (q *query) quantity(name string, kind pkgcatalog.Quantity) float64 {
	if q.err != nil {
		return 0
	}
	raw := q.r.URL.Query().Get(name)
	if raw == "" {
		q.err = fmt.Errorf("%s is required", name)
		return 0
	}
	v, err := pkgcatalog.ParseRequirement(raw, kind)
	if err != nil {
		q.err = fmt.Errorf("%s: %w", name, err)
		return 0
	}
	return v
}

func (q *query) limit(def int) int {
	if q.err != nil {
		return 0
	}
	raw := q.r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		q.err = fmt.Errorf("limit must be a non-negative integer")
		return 0
	}
	return n
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a problem response for status with the request path as
// the instance.
func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	switch status {
	case http.StatusNotFound:
		server.NotFound(w, detail, r.URL.Path)
	case http.StatusBadRequest:
		server.BadRequest(w, detail, r.URL.Path)
	case http.StatusUnsupportedMediaType:
		server.UnsupportedMediaType(w, detail, r.URL.Path)
	default:
		server.InternalError(w, detail, r.URL.Path)
	}
}
