package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/referly/internal/utils"
	"github.com/sirupsen/logrus"
)

// APIError is a failure whose message is safe to show to the client.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func ValidationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// Conflict keeps the 400 status the frontend already handles for duplicate emails.
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

func Unavailable(message string) *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Message: message}
}

const serverErrorMessage = "Server error"

// HandlerFunc is an http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to net/http. An *APIError is written as-is; any other
// error is logged and answered with a generic 500.
func (h *Handler) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			utils.Message(w, apiErr.Status, apiErr.Message)
			return
		}

		h.log.WithError(err).WithFields(logrus.Fields{
			"http.req.method": r.Method,
			"http.req.path":   r.URL.Path,
		}).Error("request failed")
		utils.Message(w, http.StatusInternalServerError, serverErrorMessage)
	}
}
