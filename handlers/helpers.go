package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"task-manager/backend/apperrors"
	"task-manager/backend/middleware"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// currentUserID resolves the authenticated caller's id from the request
// context.
func currentUserID(r *http.Request) (primitive.ObjectID, error) {
	idHex, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: no user in request context", apperrors.ErrUnauthenticated)
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed user id", apperrors.ErrUnauthenticated)
	}
	return id, nil
}
