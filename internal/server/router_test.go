package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	router := NewRouter(Services{
		Ledger: service.NewLedgerService(store, events.NopPublisher{}),
		Groups: service.NewGroupService(store),
		Auth:   service.NewAuthService(authenticator, jwtManager, store, nil),
	}, jwtManager)

	server := httptest.NewServer(H2C(router))
	t.Cleanup(server.Close)
	return server
}

func TestRouterAuthFlow(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	authClient := ledgerapiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	ledgerClient := ledgerapiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)

	_, err := ledgerClient.GetBalances(ctx, connect.NewRequest(&ledgerapi.GetBalancesRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected Unauthenticated without a token, got %v", err)
	}

	reg, err := authClient.Register(ctx, connect.NewRequest(&ledgerapi.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	add := connect.NewRequest(&ledgerapi.AddTransactionRequest{Payer: "Alice", Amount: 30, Participants: []string{"Bob"}})
	add.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	addResp, err := ledgerClient.AddTransaction(ctx, add)
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if addResp.Msg.Transaction.CreatedBy != reg.Msg.User.ID {
		t.Errorf("CreatedBy = %q, want the registered user %q", addResp.Msg.Transaction.CreatedBy, reg.Msg.User.ID)
	}

	balances := connect.NewRequest(&ledgerapi.GetBalancesRequest{})
	balances.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	resp, err := ledgerClient.GetBalances(ctx, balances)
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 2 {
		t.Errorf("expected 2 balances, got %d", len(resp.Msg.Balances))
	}
}

func TestRouterPlainJSON(t *testing.T) {
	server := newTestServer(t)

	// Connect unary calls over JSON work without a generated client.
	resp, err := http.Post(server.URL+ledgerapiconnect.AuthServiceLoginProcedure, "application/json",
		strings.NewReader(`{"email":"nobody@example.com","password":"password123"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"code":"unauthenticated"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "OK"},
		{"/metrics", "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+ledgerapiconnect.LedgerServiceGetBalancesProcedure, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("Authorization header not allowed for browsers")
	}
}

func TestRouterUnknownProcedure(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/"+ledgerapiconnect.LedgerServiceName+"/Nope", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRouterMountsEveryService(t *testing.T) {
	server := newTestServer(t)

	// Anonymous calls reach each service's interceptors instead of the 404 fallback.
	procedures := []string{
		ledgerapiconnect.LedgerServiceGetBalancesProcedure,
		ledgerapiconnect.GroupServiceListGroupsProcedure,
		ledgerapiconnect.AuthServiceGetCurrentUserProcedure,
	}

	for _, procedure := range procedures {
		t.Run(procedure, func(t *testing.T) {
			resp, err := http.Post(server.URL+procedure, "application/json", strings.NewReader(`{}`))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
			}
		})
	}
}
