package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
)

// errorStatus maps a service error onto a status code and a client-facing message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrCurveNotFound):
		return http.StatusNotFound, "Curve not found"
	case errors.Is(err, entity.ErrUnknownRateType):
		return http.StatusBadRequest, "Unknown rate type"
	case errors.Is(err, entity.ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date format"
	case errors.Is(err, entity.ErrEmptyCurve),
		errors.Is(err, entity.ErrMalformedCurve),
		errors.Is(err, entity.ErrMalformedCurveData):
		return http.StatusBadRequest, "Malformed curve"
	case errors.Is(err, entity.ErrCurveDataUnavailable):
		return http.StatusBadGateway, "Curve data unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// sendServiceError logs err and answers with the status errorStatus picks for it
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	status, message := errorStatus(err)

	fields := map[string]interface{}{
		"request_id": requestID,
		"status":     status,
		"error":      err.Error(),
	}
	if status >= http.StatusInternalServerError {
		log.Error(message, fields)
	} else {
		log.Warn(message, fields)
	}

	description := err.Error()
	if status == http.StatusInternalServerError {
		description = "An unexpected error occurred while processing the request"
	}
	sendErrorResponse(w, log, message, description, status, requestID)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}

func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
