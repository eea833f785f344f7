package handlers

import (
	"encoding/json"
	"net/http"

	"task-manager/backend/apperrors"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendHandler struct {
	FriendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{FriendService: friendService}
}

func (h *FriendHandler) SendInvite(w http.ResponseWriter, r *http.Request) {
	fromID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req struct {
		ToUsername string `json:"toUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	request, err := h.FriendService.SendInvite(r.Context(), fromID, req.ToUsername)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *FriendHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	invites, err := h.FriendService.ListIncoming(r.Context(), userID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invites)
}

func (h *FriendHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}

	request, err := h.FriendService.Accept(r.Context(), requestID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *FriendHandler) RejectInvite(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}

	request, err := h.FriendService.Reject(r.Context(), requestID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *FriendHandler) Collaborators(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	collaborators, err := h.FriendService.Collaborators(r.Context(), userID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collaborators)
}

func requestIDFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return requestID, true
}
