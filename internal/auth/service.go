package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redmonkez12/devtree-api/internal/logging"
	"github.com/redmonkez12/devtree-api/internal/user"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrHandleTaken        = errors.New("handle already registered")
	ErrInvalidHandle      = errors.New("handle normalizes to an empty slug")
	ErrUserNotFound       = errors.New("no user with that email")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles registration and login business logic.
type Service struct {
	users         UserRepository
	tokens        TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(users UserRepository, tokens TokenService, logger *logging.Logger, tokenDuration time.Duration) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Handle   string
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a hashed password and normalized handle.
// The email check runs before the handle check so a request failing both
// reports the email conflict, matching the handler contract.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	handle := user.NormalizeHandle(input.Handle)
	if handle == "" {
		return nil, ErrInvalidHandle
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	_, err = s.users.GetByHandle(ctx, handle)
	if err == nil {
		return nil, ErrHandleTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check handle: %w", err)
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, &user.User{
		Handle:       handle,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Links:        []string{},
	})
	if err != nil {
		// The unique indexes catch duplicates that raced past the checks above
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, user.ErrDuplicateHandle) {
			return nil, ErrHandleTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "handle", handle)
	return newUser, nil
}

// Login verifies the credentials and returns a signed token carrying the
// user id.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(u.ID.Hex(), s.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}
