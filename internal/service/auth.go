// Package service implements the application logic between the API layer and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wishkeeperapp/wishkeeper-server/internal/auth"
	"github.com/wishkeeperapp/wishkeeper-server/internal/domain"
	domainerrors "github.com/wishkeeperapp/wishkeeper-server/internal/errors"
	"github.com/wishkeeperapp/wishkeeper-server/internal/id"
	"github.com/wishkeeperapp/wishkeeper-server/internal/store"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// defaultAvatarURL builds a generated avatar for users who don't upload one.
func defaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=8b5cf6&color=fff"
}

// AuthService handles user signup, login, and token verification.
// Session lifecycle is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// SignupRequest contains new account data.
// The password is accepted for client compatibility but never stored;
// account identity is the email address alone.
type SignupRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required"`
	DisplayName string          `json:"display_name" validate:"required,max=100"`
	ClientInfo  auth.ClientInfo `json:"client_info"`
	IPAddress   string          `json:"-"` // Extracted from request by handler
}

// LoginRequest contains user credentials and client information.
type LoginRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required"`
	ClientInfo auth.ClientInfo `json:"client_info"`
	IPAddress  string          `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token and updated client info.
type RefreshRequest struct {
	RefreshToken string          `json:"refresh_token" validate:"required"`
	ClientInfo   auth.ClientInfo `json:"client_info"` // Optional updates
	IPAddress    string          `json:"-"`           // Extracted from request by handler
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Signup creates a new account and starts a session for it.
// Returns ALREADY_EXISTS if the exact email is already taken.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Syncable: domain.Syncable{
			ID:        userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   defaultAvatarURL(req.DisplayName),
		LastLoginAt: now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.ClientInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", user.ID, "email", user.Email)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user by email and starts a new session.
// A known email with any non-empty password succeeds; there is no stored
// credential to check against. Unknown emails get INVALID_CREDENTIALS.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Non-fatal: the login still succeeds with a stale timestamp.
		if s.logger != nil {
			s.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.ClientInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Refresh rotates tokens for an existing session.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.ClientInfo, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout ends a single session belonging to the given user.
// Sessions of other users read as NOT_FOUND so the response doesn't reveal
// whether the ID exists.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return domainerrors.NotFound("session not found")
		}
		return fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return domainerrors.NotFound("session not found")
	}

	return s.sessionService.DeleteSession(ctx, sessionID)
}

// LogoutAll ends every session for a user (sign out everywhere).
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.store.DeleteAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed out everywhere", "user_id", userID)
	}

	return nil
}

// VerifyAccessToken verifies a PASETO access token and returns its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}
	return claims, nil
}

// GetUser returns a user profile by ID. Used to restore browser sessions.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// formatValidationError converts validator errors into domain validation errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return domainerrors.Validationf("%s is required", field)
			case "email":
				return domainerrors.Validationf("%s must be a valid email address", field)
			case "min":
				return domainerrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return domainerrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			case "gte":
				return domainerrors.Validationf("%s must be at least %s", field, e.Param())
			case "url":
				return domainerrors.Validationf("%s must be a valid URL", field)
			default:
				return domainerrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
