package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/middleware"
	"github.com/debty-app/debty/pkg/api"
	"github.com/debty-app/debty/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// Sessions releases per-user state at logout. ledger.Books satisfies it.
type Sessions interface {
	Close(ownerID string) bool
}

var errInvalidEmail = errors.New("a valid email address is required")
var errMissingDisplayName = errors.New("display name is required")

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	sessions      Sessions
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. sessions may be nil.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, sessions Sessions, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		sessions:      sessions,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	email := auth.NormalizeEmail(req.Msg.Email)
	s.logger.Info("Register request", "email", email)

	// Validate input
	if email == "" || !strings.Contains(email, "@") {
		return nil, connect.NewError(connect.CodeInvalidArgument, errInvalidEmail)
	}
	if strings.TrimSpace(req.Msg.DisplayName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingDisplayName)
	}

	user, err := s.authenticator.Register(ctx, email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.logger.Warn("Registration rejected", "email", email, "error", err)
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			s.logger.Warn("Registration rejected", "email", email, "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		s.logger.Error("Registration failed", "email", email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Email) == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("Login failed", "email", req.Msg.Email, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Logout revokes the calling token and drops the user's in-memory ledger.
// Persisted data is untouched and comes back on the next login.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	s.jwtManager.Revoke(middleware.GetClaims(ctx))
	closed := false
	if s.sessions != nil {
		closed = s.sessions.Close(userID)
	}

	s.logger.Info("User logged out", "user_id", userID, "email", middleware.GetEmail(ctx), "ledger_closed", closed)
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.authenticator.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Valid token for an account that no longer exists.
			s.logger.Warn("GetCurrentUser for unknown user", "user_id", userID, "email", middleware.GetEmail(ctx))
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "email", middleware.GetEmail(ctx), "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
