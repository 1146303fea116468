package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/damon-houk/bond-curve-interpolation/internal/application/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// RateHandler handles rate lookups against imported curves
type RateHandler struct {
	service   *service.CurveService
	validator *validator.Validate
	logger    logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(service *service.CurveService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		service:   service,
		validator: validator.New(),
		logger:    log,
	}
}

// GetRate handles GET /curves/{id}/rate?date=YYYY-MM-DD&type=Bid
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	req := RateRequest{
		Date: strings.TrimSpace(r.URL.Query().Get("date")),
		Type: strings.TrimSpace(r.URL.Query().Get("type")),
	}

	h.logger.Info("Handling rate request", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"date":       req.Date,
		"type":       req.Type,
	})

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("Invalid rate request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid query parameters",
			describeValidationError(err), http.StatusBadRequest, requestID)
		return
	}

	query, err := entity.ParseRateQuery(req.Date, req.Type)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	quote, err := h.service.GetRate(r.Context(), id, query)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	resp := RateResponse{
		CurveID:   id,
		RateType:  string(quote.RateType),
		Date:      quote.TargetDate.Format(entity.DateLayout),
		BaseDate:  quote.BaseDate.Format(entity.DateLayout),
		DayOffset: quote.DayOffset,
		Rate:      quote.Rate,
		Outcome:   string(quote.Outcome),
		InRange:   quote.Outcome.InRange(),
	}
	if !resp.InRange {
		resp.Notice = fmt.Sprintf("This date is before the initial: %s", resp.BaseDate)
	}

	sendJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/curves/{id}/rate", h.GetRate).Methods("GET")

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /curves/{id}/rate",
		},
	})
}

func describeValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Date":
			msgs = append(msgs, "date must be given in YYYY-MM-DD format")
		case "Type":
			msgs = append(msgs, "type is required (Bid, Ask or Mid)")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
