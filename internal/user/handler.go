package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/devtree-api/internal/httputil"
	"github.com/redmonkez12/devtree-api/internal/logging"
	"github.com/redmonkez12/devtree-api/internal/validation"
)

// maxImageSize caps the multipart body the upload endpoint parses in memory.
const maxImageSize = 10 << 20 // 10 MB

// Store is the persistence surface the profile handlers need.
type Store interface {
	GetByHandle(ctx context.Context, handle string) (*User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, handle, description string, links []string) error
	SetImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
}

// ImageUploader pushes an image to the external asset store and returns
// the URL it will be served from.
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Handler contains HTTP handlers for the profile endpoints
type Handler struct {
	store   Store
	uploads ImageUploader
	logger  *logging.Logger
}

func NewHandler(store Store, uploads ImageUploader, logger *logging.Logger) *Handler {
	return &Handler{
		store:   store,
		uploads: uploads,
		logger:  logger,
	}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	Handle      string   `json:"handle"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
}

func (r UpdateProfileRequest) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Required("handle", r.Handle, "El handle es requerido")
	return errs
}

// SearchRequest represents the handle availability request body
type SearchRequest struct {
	Handle string `json:"handle"`
}

func (r SearchRequest) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Required("handle", r.Handle, "El handle es requerido")
	return errs
}

// GetUser returns the authenticated user's own document
// @Summary      Get the authenticated user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} User
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /user [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "No autorizado", http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// UpdateProfile updates handle, description and links on the caller's document
// @Summary      Update the authenticated user's profile
// @Tags         user
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {string} string "Perfil actualizado"
// @Failure      409 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /user [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "No autorizado", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update body", "error", err.Error())
		httputil.RespondError(w, "Datos de entrada no válidos", http.StatusBadRequest)
		return
	}

	if errs := req.Validate(); !errs.OK() {
		validation.Respond(w, errs)
		return
	}

	handle := NormalizeHandle(req.Handle)
	if handle == "" {
		httputil.RespondError(w, "El handle no es válido", http.StatusBadRequest)
		return
	}

	// The handle may belong to the caller already (casing change); only a
	// different owner makes it unavailable
	existing, err := h.store.GetByHandle(r.Context(), handle)
	if err == nil && existing.Email != u.Email {
		httputil.RespondError(w, "Nombre de usuario no disponible", http.StatusConflict)
		return
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Error("failed to check handle availability", "error", err.Error())
		httputil.RespondError(w, "Error al actualizar el perfil", http.StatusInternalServerError)
		return
	}

	if err := h.store.UpdateProfile(r.Context(), u.ID, handle, req.Description, req.Links); err != nil {
		if errors.Is(err, ErrDuplicateHandle) {
			httputil.RespondError(w, "Nombre de usuario no disponible", http.StatusConflict)
			return
		}
		logger.Error("failed to update profile", "error", err.Error())
		httputil.RespondError(w, "Error al actualizar el perfil", http.StatusInternalServerError)
		return
	}

	httputil.RespondText(w, "Perfil actualizado", http.StatusOK)
}

// UploadImage stores the uploaded file in the asset store and persists its URL
// @Summary      Upload a profile image
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image file"
// @Success      200 {object} map[string]string
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /user/image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "No autorizado", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		logger.Warn("invalid multipart body", "error", err.Error())
		httputil.RespondError(w, "La imagen es requerida", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, "La imagen es requerida", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key := uuid.New().String()
	imageURL, err := h.uploads.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Error("failed to upload image", "error", err.Error())
		httputil.RespondError(w, "Error al subir la imagen", http.StatusInternalServerError)
		return
	}

	if err := h.store.SetImage(r.Context(), u.ID, imageURL); err != nil {
		logger.Error("failed to persist image url", "error", err.Error())
		httputil.RespondError(w, "Error al guardar la imagen", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"image": imageURL}, http.StatusOK)
}

// GetByHandle returns the public profile behind a handle
// @Summary      Get a public profile by handle
// @Tags         user
// @Produce      json
// @Param        handle path string true "Handle"
// @Success      200 {object} PublicProfile
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /{handle} [get]
func (h *Handler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	handle := NormalizeHandle(chi.URLParam(r, "handle"))

	u, err := h.store.GetByHandle(r.Context(), handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "El usuario no existe", http.StatusNotFound)
			return
		}
		logger.Error("failed to get user by handle", "error", err.Error())
		httputil.RespondError(w, "Hubo un error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u.Public(), http.StatusOK)
}

// SearchByHandle reports whether a handle is still available
// @Summary      Check handle availability
// @Tags         user
// @Accept       json
// @Produce      plain
// @Param        request body SearchRequest true "Handle to check"
// @Success      200 {string} string "availability message"
// @Failure      409 {object} httputil.ErrorResponse
// @Router       /search [post]
func (h *Handler) SearchByHandle(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid search body", "error", err.Error())
		httputil.RespondError(w, "Datos de entrada no válidos", http.StatusBadRequest)
		return
	}

	if errs := req.Validate(); !errs.OK() {
		validation.Respond(w, errs)
		return
	}

	handle := NormalizeHandle(req.Handle)

	_, err := h.store.GetByHandle(r.Context(), handle)
	if err == nil {
		httputil.RespondError(w, fmt.Sprintf("%s ya está registrado", handle), http.StatusConflict)
		return
	}
	if !errors.Is(err, ErrNotFound) {
		logger.Error("failed to search handle", "error", err.Error())
		httputil.RespondError(w, "Hubo un error", http.StatusInternalServerError)
		return
	}

	httputil.RespondText(w, fmt.Sprintf("%s está disponible", handle), http.StatusOK)
}
