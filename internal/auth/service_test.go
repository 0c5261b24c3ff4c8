package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redmonkez12/devtree-api/internal/logging"
	"github.com/redmonkez12/devtree-api/internal/user"
)

// fakeUserRepo keeps users in memory, enforcing the same email/handle
// uniqueness the real collection's indexes do.
type fakeUserRepo struct {
	users []*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) (*user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, user.ErrDuplicateEmail
		}
		if existing.Handle == u.Handle {
			return nil, user.ErrDuplicateHandle
		}
	}
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetByHandle(_ context.Context, handle string) (*user.User, error) {
	for _, u := range f.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{}
	svc := NewService(repo, newTestPasetoService(t), logging.NewLogger(true), time.Hour)
	return svc, repo
}

func TestService_Register(t *testing.T) {
	svc, repo := newTestService(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		Handle:   "Ana B",
		Name:     "Ana",
		Email:    "a@x.com",
		Password: "password1",
	})
	require.NoError(t, err)

	assert.Equal(t, "anab", u.Handle)
	assert.NotEqual(t, "password1", u.PasswordHash)
	assert.True(t, CheckPassword("password1", u.PasswordHash))
	assert.Len(t, repo.users, 1)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Handle: "ana", Name: "Ana", Email: "a@x.com", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Handle: "other", Name: "Other", Email: "a@x.com", Password: "password1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_DuplicateHandleNormalized(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Handle: "Ana B", Name: "Ana", Email: "a@x.com", Password: "password1",
	})
	require.NoError(t, err)

	// "anab" and "Ana B" normalize to the same handle
	_, err = svc.Register(context.Background(), RegisterInput{
		Handle: "anab", Name: "Other", Email: "b@x.com", Password: "password1",
	})
	assert.ErrorIs(t, err, ErrHandleTaken)
}

func TestService_Register_UnusableHandle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Handle: "---", Name: "Ana", Email: "a@x.com", Password: "password1",
	})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Handle: "ana", Name: "Ana", Email: "a@x.com", Password: "password1",
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "a@x.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token verifies back to the registered user's id
	claims, err := newTestPasetoService(t).VerifyToken(token)
	require.NoError(t, err)
	u, err := svc.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Handle: "ana", Name: "Ana", Email: "a@x.com", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@x.com", "password2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "password1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
