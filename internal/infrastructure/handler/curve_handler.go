package handler

import (
	"net/http"
	"strings"

	"github.com/damon-houk/bond-curve-interpolation/internal/application/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const (
	// CurveNameHeader names an uploaded curve when no name query parameter is given
	CurveNameHeader = "X-Curve-Name"

	defaultCurveName = "upload.csv"
	maxUploadBytes   = 8 << 20
)

// CurveHandler handles HTTP requests for imported curves
type CurveHandler struct {
	service *service.CurveService
	logger  logger.Logger
}

// NewCurveHandler creates a new curve handler
func NewCurveHandler(service *service.CurveService, log logger.Logger) *CurveHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurveHandler{
		service: service,
		logger:  log,
	}
}

// ImportCurve handles a CSV curve upload
func (h *CurveHandler) ImportCurve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = strings.TrimSpace(r.Header.Get(CurveNameHeader))
	}
	if name == "" {
		name = defaultCurveName
	}

	h.logger.Info("Handling import curve request", map[string]interface{}{
		"request_id": requestID,
		"name":       name,
	})

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	table, err := h.service.ImportCurve(r.Context(), body, name)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, ImportCurveResponse{
		ID:        table.ID,
		BaseDate:  table.BaseDate.Format(entity.DateLayout),
		Rows:      len(table.Rows),
		RateTypes: rateTypeNames(table.RateTypes()),
	})
}

// ListCurves handles listing imported curve IDs
func (h *CurveHandler) ListCurves(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ids, err := h.service.ListCurves(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	sendJSON(w, http.StatusOK, CurveListResponse{IDs: ids})
}

// GetCurve handles retrieving an imported curve by ID
func (h *CurveHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	h.logger.Info("Handling get curve request", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	table, err := h.service.GetCurve(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newCurveResponse(table))
}

// DeleteCurve handles removing an imported curve
func (h *CurveHandler) DeleteCurve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteCurve(r.Context(), id); err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the curve handler routes
func (h *CurveHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/curves", h.ImportCurve).Methods("POST")
	router.HandleFunc("/curves", h.ListCurves).Methods("GET")
	router.HandleFunc("/curves/{id}", h.GetCurve).Methods("GET")
	router.HandleFunc("/curves/{id}", h.DeleteCurve).Methods("DELETE")

	h.logger.Info("Curve routes registered", map[string]interface{}{
		"routes": []string{
			"POST /curves",
			"GET /curves",
			"GET /curves/{id}",
			"DELETE /curves/{id}",
		},
	})
}
