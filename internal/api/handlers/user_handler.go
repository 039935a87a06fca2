package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcortesr/devtree-be/internal/auth"
	"github.com/mcortesr/devtree-be/internal/models"
	"github.com/mcortesr/devtree-be/internal/services"
	"github.com/mcortesr/devtree-be/internal/uploads"
)

// maxUploadSize bounds avatar uploads held in memory during multipart parsing.
const maxUploadSize = 10 << 20 // 10 MiB

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service  services.UserServiceProvider
	tokens   *auth.TokenService
	uploader uploads.Uploader
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService, uploader uploads.Uploader) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, uploader: uploader}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Handle   string `json:"handle"`
	Name     string `json:"name"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(payload.Handle) == "" {
		respondError(w, http.StatusBadRequest, "Handle field required")
		return
	}
	if len(payload.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name field required")
		return
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	_, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:    payload.Email,
		Password: payload.Password,
		Handle:   payload.Handle,
		Name:     payload.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrHandleTaken):
			respondError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"msg": "User registered"})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := mail.ParseAddress(payload.Email); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Password required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, models.ErrInvalidPassword):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Invalid password")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
			respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		}
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Logged in", "token": token})
}

// GetMe returns the authenticated user attached by the middleware.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("No authenticated user on request context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from request")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles updating the authenticated user's handle and description.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from request")
		return
	}

	var payload struct {
		Handle      string `json:"handle"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(payload.Handle) == "" {
		respondError(w, http.StatusBadRequest, "Handle field required")
		return
	}
	if strings.TrimSpace(payload.Description) == "" {
		respondError(w, http.StatusBadRequest, "Description field required")
		return
	}

	if _, err := h.service.UpdateProfile(r.Context(), user.ID, payload.Handle, payload.Description); err != nil {
		if errors.Is(err, models.ErrHandleTaken) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update profile")
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Profile updated successfully"})
}

// UpdateLinks replaces the authenticated user's links wholesale.
func (h *UserHandler) UpdateLinks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from request")
		return
	}

	var payload struct {
		Links []models.Link `json:"links"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.UpdateLinks(r.Context(), user.ID, payload.Links); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update links")
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Links updated successfully"})
}

// UpdateImage accepts a single-file multipart upload, stores it under a
// random key and persists the resulting public URL as the user's avatar.
func (h *UserHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from request")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}
	defer file.Close()

	key := uuid.New().String()
	imageURL, err := h.uploader.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to upload image")
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	if _, err := h.service.UpdateImage(r.Context(), user.ID, imageURL); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to persist image URL")
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"image": imageURL})
}

// GetByHandle handles public profile lookup by handle.
func (h *UserHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	user, err := h.service.GetByHandle(r.Context(), handle)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("handle", handle).Msg("Failed to look up handle")
		respondError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
