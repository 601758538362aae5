package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/pkg/api"
	"github.com/debty-app/debty/pkg/api/apiconnect"
)

// sessionEcho answers GetCurrentUser with whatever RequireAuth put in the
// context.
type sessionEcho struct {
	loginCalls int
}

func (s *sessionEcho) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{}), nil
}

func (s *sessionEcho) Login(ctx context.Context, _ *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.loginCalls++
	if GetClaims(ctx) != nil {
		return nil, connect.NewError(connect.CodeInternal, errors.New("public call carried a session"))
	}
	return connect.NewResponse(&api.LoginResponse{}), nil
}

func (s *sessionEcho) Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

func (s *sessionEcho) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	if GetClaims(ctx) == nil {
		return nil, connect.NewError(connect.CodeInternal, errors.New("no session in context"))
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{
		ID:    GetUserID(ctx),
		Email: GetEmail(ctx),
	}}), nil
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)
	echo := &sessionEcho{}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(echo,
		connect.WithInterceptors(RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure)),
	))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := apiconnect.NewAuthServiceClient(http.DefaultClient, srv.URL)
	ctx := context.Background()

	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	revoked, err := jwtManager.Generate(&models.User{ID: "user-2", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := jwtManager.Validate(revoked)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	jwtManager.Revoke(claims)

	t.Run("public procedure needs no token", func(t *testing.T) {
		if _, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{})); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if echo.loginCalls != 1 {
			t.Errorf("login calls = %d, want 1", echo.loginCalls)
		}
	})

	t.Run("valid token fills the session", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.GetCurrentUser(ctx, req)
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.ID != "user-1" || resp.Msg.User.Email != "alice@example.com" {
			t.Errorf("session = %+v, want user-1 alice@example.com", resp.Msg.User)
		}
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic " + token},
		{"malformed token", "Bearer not-a-jwt"},
		{"revoked token", "Bearer " + revoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.GetCurrentUserRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := client.GetCurrentUser(ctx, req)
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Errorf("expected unauthenticated, got %v", err)
			}
		})
	}
}

func TestSessionAccessorsWithoutSession(t *testing.T) {
	ctx := context.Background()
	if GetUserID(ctx) != "" || GetEmail(ctx) != "" || GetClaims(ctx) != nil {
		t.Error("expected empty session on a bare context")
	}

	ctx = WithClaims(ctx, &auth.Claims{UserID: "user-1", Email: "alice@example.com"})
	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "alice@example.com" {
		t.Errorf("session = %q %q, want user-1 alice@example.com", GetUserID(ctx), GetEmail(ctx))
	}
}
