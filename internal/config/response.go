package config

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data"`
	Meta    any               `json:"meta,omitempty"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.WithError(err).Error("Failed to encode response")
	}
}

func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func Paginated(w http.ResponseWriter, message string, data any, meta any) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: meta, Message: message})
}

// Fail writes err using its apperror code. Internal causes are logged, never returned.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperror.CodeOf(err)
	status := apperror.HTTPStatus(code)

	body := envelope{Success: false, Message: "internal server error"}
	var appErr *apperror.Error
	if code != apperror.CodeInternal && errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Errors = appErr.Fields
	}

	log := WithContext(r.Context()).WithField("status", status)
	if code == apperror.CodeInternal {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Debug("Request rejected")
	}

	JSON(w, status, body)
}

// BadRequest reports a malformed body or path parameter.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, envelope{Success: false, Message: message})
}
