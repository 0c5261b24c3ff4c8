package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/devtree-api/internal/httputil"
	"github.com/redmonkez12/devtree-api/internal/user"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens TokenService
	users  UserRepository
}

func NewMiddleware(tokens TokenService, users UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth validates the bearer token, resolves the user it names and
// attaches the document (password hash stripped) to the request context.
// It never mutates store state: every outcome is either a rejection or a
// pass-through to the next handler.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "No autorizado", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			httputil.RespondErrorWithCode(w, "No autorizado", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "Token expirado", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "Token no válido", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// A verified token whose payload cannot name a user is a server-side
		// problem (signing key issued a malformed id), not a client error
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "Token no válido", httputil.CodeInvalidToken, http.StatusInternalServerError)
			return
		}

		u, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "Usuario no encontrado", httputil.CodeUserNotFound, http.StatusNotFound)
				return
			}
			httputil.RespondError(w, "Hubo un error", http.StatusInternalServerError)
			return
		}

		u.PasswordHash = ""

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}
