package ledgerapiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "splitledger.v1.AuthService"
)

// Fully-qualified procedure names of AuthService RPCs.
const (
	AuthServiceRegisterProcedure       = "/splitledger.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/splitledger.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/splitledger.v1.AuthService/GetCurrentUser"
)

// AuthServiceClient is a client for the splitledger.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[ledgerapi.RegisterRequest]) (*connect.Response[ledgerapi.RegisterResponse], error)
	Login(context.Context, *connect.Request[ledgerapi.LoginRequest]) (*connect.Response[ledgerapi.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[ledgerapi.GetCurrentUserRequest]) (*connect.Response[ledgerapi.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the splitledger.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[ledgerapi.RegisterRequest, ledgerapi.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[ledgerapi.LoginRequest, ledgerapi.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[ledgerapi.GetCurrentUserRequest, ledgerapi.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[ledgerapi.RegisterRequest, ledgerapi.RegisterResponse]
	login          *connect.Client[ledgerapi.LoginRequest, ledgerapi.LoginResponse]
	getCurrentUser *connect.Client[ledgerapi.GetCurrentUserRequest, ledgerapi.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[ledgerapi.RegisterRequest]) (*connect.Response[ledgerapi.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[ledgerapi.LoginRequest]) (*connect.Response[ledgerapi.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[ledgerapi.GetCurrentUserRequest]) (*connect.Response[ledgerapi.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is an implementation of the splitledger.v1.AuthService service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[ledgerapi.RegisterRequest]) (*connect.Response[ledgerapi.RegisterResponse], error)
	Login(context.Context, *connect.Request[ledgerapi.LoginRequest]) (*connect.Response[ledgerapi.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[ledgerapi.GetCurrentUserRequest]) (*connect.Response[ledgerapi.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentUser := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[ledgerapi.RegisterRequest]) (*connect.Response[ledgerapi.RegisterResponse], error) {
	return nil, unimplemented("Register")
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[ledgerapi.LoginRequest]) (*connect.Response[ledgerapi.LoginResponse], error) {
	return nil, unimplemented("Login")
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[ledgerapi.GetCurrentUserRequest]) (*connect.Response[ledgerapi.GetCurrentUserResponse], error) {
	return nil, unimplemented("GetCurrentUser")
}
