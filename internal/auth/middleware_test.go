package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/devtree-api/internal/user"
)

func TestRequireAuth(t *testing.T) {
	tokens := newTestPasetoService(t)

	owner := &user.User{
		ID:           primitive.NewObjectID(),
		Handle:       "anab",
		Name:         "Ana",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$...",
	}
	repo := &fakeUserRepo{users: []*user.User{owner}}

	validToken, err := tokens.CreateToken(owner.ID.Hex(), time.Hour)
	require.NoError(t, err)

	expiredToken, err := tokens.CreateToken(owner.ID.Hex(), -time.Minute)
	require.NoError(t, err)

	orphanToken, err := tokens.CreateToken(primitive.NewObjectID().Hex(), time.Hour)
	require.NoError(t, err)

	malformedIDToken, err := tokens.CreateToken("not-an-object-id", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "unreadable user id", authHeader: "Bearer " + malformedIDToken, wantStatus: http.StatusInternalServerError},
		{name: "unknown user", authHeader: "Bearer " + orphanToken, wantStatus: http.StatusNotFound},
		{name: "valid", authHeader: "Bearer " + validToken, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mw := NewMiddleware(tokens, repo)

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				u, ok := user.FromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, owner.ID, u.ID)
				assert.Empty(t, u.PasswordHash, "gate must strip the password hash")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantStatus == http.StatusOK, called)

			if tc.wantStatus != http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}
