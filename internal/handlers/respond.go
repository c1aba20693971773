package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.SuccessResponse{Message: message, Data: data})
}

// respondError maps a service error onto the wire envelope. Untyped errors
// become a generic 500; internals never leak to the client.
func respondError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.From(err)
	if !ok {
		appErr = apperrors.Internal()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorBody{
			Message:   appErr.Message,
			Status:    appErr.Status,
			Code:      appErr.Code,
			Timestamp: time.Now().UTC(),
		},
	})
}
