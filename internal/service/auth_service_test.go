package service

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/ledger"
	"github.com/debty-app/debty/internal/middleware"
	"github.com/debty-app/debty/internal/storage/memory"
	"github.com/debty-app/debty/pkg/api"
	"github.com/debty-app/debty/pkg/api/apiconnect"
)

type authTestEnv struct {
	auth   apiconnect.AuthServiceClient
	ledger apiconnect.LedgerServiceClient
	books  *ledger.Books
}

// setupAuthTestServer serves both services behind the real JWT interceptor.
func setupAuthTestServer(t *testing.T) authTestEnv {
	t.Helper()

	store := memory.New()
	books := ledger.NewBooks(store, testLogger(), nil)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...),
		middleware.LoggingInterceptor(testLogger()),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, books, testLogger()), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(books, testLogger()), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return authTestEnv{
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		ledger: apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		books:  books,
	}
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func register(t *testing.T, client apiconnect.AuthServiceClient, email string) *api.RegisterResponse {
	t.Helper()
	resp, err := client.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Test User",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg
}

func TestRegister(t *testing.T) {
	env := setupAuthTestServer(t)
	ctx := context.Background()

	reg := register(t, env.auth, "Alice@Example.com")
	if reg.Token == "" {
		t.Error("expected a token")
	}
	if reg.User.Email != "alice@example.com" || reg.User.ID == "" {
		t.Errorf("unexpected user: %+v", reg.User)
	}

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "alice@example.com", DisplayName: "Again", Password: "correct-horse"}, connect.CodeAlreadyExists},
		{"invalid email", &api.RegisterRequest{Email: "alice", DisplayName: "A", Password: "correct-horse"}, connect.CodeInvalidArgument},
		{"missing display name", &api.RegisterRequest{Email: "bob@example.com", DisplayName: " ", Password: "correct-horse"}, connect.CodeInvalidArgument},
		{"weak password", &api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupAuthTestServer(t)
	ctx := context.Background()
	register(t, env.auth, "alice@example.com")

	resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.Token == "" || resp.Msg.User.DisplayName != "Test User" {
		t.Errorf("unexpected login response: %+v", resp.Msg)
	}

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated for wrong password, got %v", err)
	}
	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated for unknown user, got %v", err)
	}
	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected invalid_argument for empty request, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	env := setupAuthTestServer(t)
	ctx := context.Background()
	reg := register(t, env.auth, "alice@example.com")

	resp, err := env.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, reg.Token))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.ID != reg.User.ID {
		t.Errorf("got user %q, want %q", resp.Msg.User.ID, reg.User.ID)
	}

	_, err = env.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, ""))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated without token, got %v", err)
	}
	_, err = env.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, "not-a-jwt"))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated for a bad token, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := setupAuthTestServer(t)
	ctx := context.Background()
	reg := register(t, env.auth, "alice@example.com")

	added, err := env.ledger.AddPerson(ctx, withToken(&api.AddPersonRequest{Name: "Bob", Phone: "555-0100"}, reg.Token))
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	if env.books.Len() != 1 {
		t.Fatalf("open ledgers = %d, want 1", env.books.Len())
	}

	if _, err := env.auth.Logout(ctx, withToken(&api.LogoutRequest{}, reg.Token)); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if env.books.Len() != 0 {
		t.Errorf("open ledgers after logout = %d, want 0", env.books.Len())
	}

	_, err = env.ledger.ListPeople(ctx, withToken(&api.ListPeopleRequest{}, reg.Token))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	people, err := env.ledger.ListPeople(ctx, withToken(&api.ListPeopleRequest{}, login.Msg.Token))
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(people.Msg.People) != 1 || people.Msg.People[0].ID != added.Msg.Person.ID {
		t.Errorf("expected persisted person after re-login, got %+v", people.Msg.People)
	}
}

func TestLedgerRequiresToken(t *testing.T) {
	env := setupAuthTestServer(t)

	_, err := env.ledger.GetSummary(context.Background(), withToken(&api.GetSummaryRequest{}, ""))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}
	if env.books.Len() != 0 {
		t.Errorf("unauthenticated call opened a ledger")
	}
}

func TestSessionLogsCarryEmail(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	store := memory.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	books := ledger.NewBooks(store, testLogger(), nil)
	svc := NewAuthService(authenticator, jwtManager, books, logger)

	ctx := middleware.WithClaims(context.Background(), &auth.Claims{UserID: "user-gone", Email: "gone@example.com"})

	_, err := svc.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated for a deleted account, got %v", err)
	}
	if _, err := svc.Logout(ctx, connect.NewRequest(&api.LogoutRequest{})); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "email=gone@example.com") {
			t.Errorf("log line missing email: %s", line)
		}
	}
}
