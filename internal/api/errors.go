package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/forms"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeValidation  = "validation_error"
	ErrCodeBusy        = "control_busy"
	ErrCodeSaveFailed  = "save_failed"
	ErrCodeUnavailable = "device_unavailable"
	ErrCodeInternal    = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeDeviceError maps a device or form error to its response.
func (s *Server) writeDeviceError(w http.ResponseWriter, err error) {
	var (
		validation *forms.ValidationError
		save       *forms.SaveError
		load       *device.LoadError
	)
	switch {
	case errors.Is(err, forms.ErrControlBusy):
		writeError(w, http.StatusTooManyRequests, ErrCodeBusy, "the control is busy, try again later")
	case errors.Is(err, device.ErrUnknownEntity):
		writeNotFound(w, err.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, validation.Message)
	case errors.As(err, &save):
		writeError(w, http.StatusBadGateway, ErrCodeSaveFailed, "the device did not accept the change")
	case errors.As(err, &load), errors.Is(err, device.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
