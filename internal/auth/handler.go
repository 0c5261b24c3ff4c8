package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/redmonkez12/devtree-api/internal/httputil"
	"github.com/redmonkez12/devtree-api/internal/logging"
	"github.com/redmonkez12/devtree-api/internal/ratelimit"
	"github.com/redmonkez12/devtree-api/internal/validation"
)

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Handle   string `json:"handle"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Required("handle", r.Handle, "El handle es requerido")
	errs.Required("name", r.Name, "El nombre es requerido")
	errs.Email("email", r.Email, "Email no válido")
	errs.Required("password", r.Password, "El password es requerido")
	errs.MinLength("password", r.Password, 8, "El password debe tener mínimo 8 caracteres")
	return errs
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Email("email", r.Email, "Email no válido")
	errs.Required("password", r.Password, "El password es requerido")
	return errs
}

// Register handles user registration
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {string} string "Usuario registrado"
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limited(w, r, "register") {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, "Datos de entrada no válidos", http.StatusBadRequest)
		return
	}

	if errs := req.Validate(); !errs.OK() {
		validation.Respond(w, errs)
		return
	}

	_, err := h.service.Register(r.Context(), RegisterInput{
		Handle:   req.Handle,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			httputil.RespondError(w, "Un usuario con este correo ya existe", http.StatusConflict)
		case errors.Is(err, ErrHandleTaken):
			httputil.RespondError(w, "Nombre de usuario no disponible", http.StatusConflict)
		case errors.Is(err, ErrInvalidHandle):
			httputil.RespondError(w, "El handle no es válido", http.StatusBadRequest)
		default:
			logger.Error("registration failed", "error", err.Error())
			httputil.RespondError(w, "Hubo un error", http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondText(w, "Usuario registrado", http.StatusCreated)
}

// Login handles user login
// @Summary      Log in and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {string} string "token"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limited(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "Datos de entrada no válidos", http.StatusBadRequest)
		return
	}

	if errs := req.Validate(); !errs.OK() {
		validation.Respond(w, errs)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httputil.RespondError(w, "Usuario no encontrado", http.StatusNotFound)
		case errors.Is(err, ErrInvalidCredentials):
			httputil.RespondError(w, "Password incorrecto", http.StatusUnauthorized)
		default:
			logger.Error("login failed", "error", err.Error())
			httputil.RespondError(w, "Hubo un error", http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondText(w, token, http.StatusOK)
}

// limited applies the per-IP window for the given purpose and reports
// whether the request was rejected. Limiter errors fail open: a Redis
// outage must not take down registration.
func (h *Handler) limited(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "Demasiadas peticiones, intenta más tarde", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return false
}

// getClientIP returns the remote address without the port. The RealIP
// middleware already rewrote RemoteAddr from X-Forwarded-For when present.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
