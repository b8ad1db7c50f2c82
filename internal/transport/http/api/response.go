package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"leavemgmt/internal/platform/apperror"
)

type Envelope struct {
	Success   bool              `json:"success"`
	Data      any               `json:"data,omitempty"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func SuccessMessage(w http.ResponseWriter, message string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, message string, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: code, Message: message, RequestID: requestID})
}

func FailValidation(w http.ResponseWriter, message string, fields map[string]string, requestID string) {
	if message == "" {
		message = "The given data was invalid."
	}
	WriteJSON(w, http.StatusBadRequest, Envelope{
		Success:   false,
		Error:     string(apperror.KindValidation),
		Message:   message,
		Errors:    fields,
		RequestID: requestID,
	})
}

// FailError writes err using the status that matches its kind. Anything
// that is not an *apperror.Error is reported as an unexpected failure and
// its text is not exposed.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		zap.L().Error("unhandled error", zap.String("request_id", requestID), zap.Error(err))
		Fail(w, http.StatusInternalServerError, string(apperror.KindUnexpected), "Something went wrong", requestID)
		return
	}
	switch appErr.Kind {
	case apperror.KindValidation:
		FailValidation(w, appErr.Message, appErr.Fields, requestID)
	case apperror.KindInvalidState:
		Fail(w, http.StatusBadRequest, string(appErr.Kind), appErr.Message, requestID)
	case apperror.KindAuthorization:
		Fail(w, http.StatusForbidden, string(appErr.Kind), appErr.Message, requestID)
	case apperror.KindNotFound:
		Fail(w, http.StatusNotFound, string(appErr.Kind), appErr.Message, requestID)
	default:
		Fail(w, http.StatusInternalServerError, string(apperror.KindUnexpected), appErr.Message, requestID)
	}
}
