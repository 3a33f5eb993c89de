// src/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
)

// sendServiceError maps service and storage errors onto HTTP status codes.
// Internal errors are logged and reported without detail.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed), errors.Is(err, services.ErrParsingFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrNotFound), errors.Is(err, services.ErrUnknownTask):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrSnapshotExists):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
	default:
		logger.FromContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user ID not found in context", http.StatusUnauthorized)
	}
	return userID, ok
}
