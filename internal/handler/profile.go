package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chirper/internal/config"
	"chirper/internal/httputil"
	"chirper/internal/model"
	"chirper/internal/service"
	"chirper/internal/transport/http/middleware"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	mediaService   *service.MediaService
	config         *config.Config
}

func NewProfileHandler(profileService *service.ProfileService, mediaService *service.MediaService, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		mediaService:   mediaService,
		config:         cfg,
	}
}

// GetPublicProfile handles GET /users/{handle}
// Returns the directory-page view of a profile.
func (h *ProfileHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := h.profileService.PublicProfile(r.Context(), handle)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) || errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetPublicProfile handler: handle=%s err=%v", handle, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetEditableProfile handles GET /me/profile
// Returns the viewer's own profile shaped for the edit form. The route
// is redirect-gated: anonymous requests never reach this handler.
func (h *ProfileHandler) GetEditableProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.profileService.EditableProfile(r.Context(), viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) || errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ERROR] GetEditableProfile handler: user=%d err=%v", viewerID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /me/profile
// Applies a partial update to the viewer's own profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), viewerID, update)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBioTooLong):
			httputil.WriteBadRequest(w, "Bio too long (max 300 characters)")
		case errors.Is(err, model.ErrNameTooLong):
			httputil.WriteBadRequest(w, "Display name too long (max 60 characters)")
		case errors.Is(err, model.ErrProfileNotFound):
			httputil.WriteNotFound(w, "Profile not found")
		default:
			log.Printf("[ERROR] UpdateProfile handler: user=%d err=%v", viewerID, err)
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateAvatar handles PUT /me/profile/avatar
// Uploads a new avatar, points the profile at it, and removes the old
// object once the profile row is updated.
func (h *ProfileHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "Avatar file is required")
		return
	}
	defer file.Close()

	var oldKey string
	if current, err := h.profileService.Get(r.Context(), viewerID); err == nil && current.AvatarKey != nil {
		oldKey = *current.AvatarKey
	}

	upload, err := h.mediaService.UploadAvatar(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] UpdateAvatar upload: user=%d err=%v", viewerID, err)
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return
	}

	profile, err := h.profileService.Update(r.Context(), viewerID, model.ProfileUpdate{
		AvatarURL: &upload.URL,
		AvatarKey: &upload.Key,
	})
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ERROR] UpdateAvatar handler: user=%d err=%v", viewerID, err)
		httputil.WriteInternalError(w, "Failed to update avatar")
		return
	}

	// Best-effort cleanup of the replaced object; never delete the
	// shared default avatar.
	if oldKey != "" && oldKey != upload.Key && oldKey != h.config.DefaultAvatarKey {
		if err := h.mediaService.DeleteObject(r.Context(), oldKey); err != nil {
			log.Printf("[WARN] UpdateAvatar cleanup: user=%d key=%s err=%v", viewerID, oldKey, err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
