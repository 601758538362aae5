package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "debty.v1.AuthService"
)

// Procedure names of AuthService.
const (
	AuthServiceRegisterProcedure       = "/debty.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/debty.v1.AuthService/Login"
	AuthServiceLogoutProcedure         = "/debty.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure = "/debty.v1.AuthService/GetCurrentUser"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

// AuthServiceClient is a client for the debty.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the debty.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &authServiceClient{
		register:       connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:         connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

// authServiceClient implements AuthServiceClient.
type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	logout         *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is an implementation of the debty.v1.AuthService service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	logout := connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...)
	getCurrentUser := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser,
		append([]connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)...)

	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceLogoutProcedure:
			logout.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
