package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"task-manager/backend/apperrors"
	"task-manager/backend/models"
	"task-manager/backend/services"
	"task-manager/backend/utils"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input services.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.Register(r.Context(), input)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Logout is a client-side token discard; the server only acknowledges.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *UserHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.SetUsername(r.Context(), userID, req.Username)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	user, err := h.UserService.GetUserInfo(r.Context(), userID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) SearchUsernames(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.UserService.SearchUsernames(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (h *UserHandler) UploadProfilePic(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	// 5 MB cap on the whole form.
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("profilePic")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	fileURL, err := utils.SaveProfilePicture(uploadDir, file, header)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.UserService.SetProfilePicture(r.Context(), userID, fileURL); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Uploaded successfully", "fileUrl": fileURL})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	if err := h.UserService.DeleteAccount(r.Context(), userID); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
