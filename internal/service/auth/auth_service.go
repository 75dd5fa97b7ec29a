package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/password"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/token"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

const MinPasswordLength = 6

// Authenticator checks credentials and resolves the user id.
type Authenticator interface {
	Verify(ctx context.Context, email, password string) (int64, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type TokenIssuer interface {
	Issue(claims token.Claims, ttl time.Duration) (string, error)
}

type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	UserID    int64  `json:"user_id"`
}

type AuthService struct {
	users    repository.UserRepository
	hasher   Hasher
	tokens   TokenIssuer
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, hasher Hasher, tokens TokenIssuer, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, pass string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	pass = strings.TrimSpace(pass)
	if len(pass) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, MinPasswordLength)
	}
	if len(pass) > password.MaxLength {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidArgument, password.MaxLength)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrInternal, err)
	}
	return user, nil
}

// Verify returns ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *AuthService) Verify(ctx context.Context, email, pass string) (int64, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return 0, err
	}
	if pass == "" {
		return 0, fmt.Errorf("%w: password required", domain.ErrInvalidArgument)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, domain.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("%w: find user: %w", domain.ErrInternal, err)
	}

	if err := s.hasher.Verify(pass, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return 0, domain.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	userID, err := s.Verify(ctx, email, pass)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(token.Claims{token.ClaimUserID: userID}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", domain.ErrInternal, err)
	}
	return &LoginResult{
		Token:     tok,
		ExpiresIn: int64(s.tokenTTL / time.Second),
		UserID:    userID,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.Var("email", email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	return email, nil
}

var (
	_ Authenticator = (*AuthService)(nil)
	_ AuthUseCase   = (*AuthService)(nil)
)
