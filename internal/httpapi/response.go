package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/session"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// writeDomainError maps err onto a status code. Validation errors carry customer facing text.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid_session", err.Error())
	case errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrDuplicateVariant),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrProductUnavailable):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "not_configured", err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Something went wrong. Please try again.")
	}
}

// validationMessage strips wrapping so customers see "Please enter your phone number", not a call chain.
func validationMessage(err error) string {
	for _, target := range []error{domain.ErrPhoneRequired, domain.ErrAddressRequired, domain.ErrEmptyCart} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrSubmissionInProgress)
}
