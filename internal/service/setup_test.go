package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

const testUserID = "test-user-id"

// testAuthInterceptor injects a fixed user ID, standing in for RequireAuth.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithUser(ctx, testUserID, "test@example.com"), req)
		}
	}
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// settlementData returns the payloads of settlement.recorded events in order.
func (p *recordingPublisher) settlementData() []events.SettlementData {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.SettlementData
	for _, e := range p.events {
		if data, ok := e.Data.(events.SettlementData); ok {
			out = append(out, data)
		}
	}
	return out
}

type testEnv struct {
	ledger    ledgerapiconnect.LedgerServiceClient
	groups    ledgerapiconnect.GroupServiceClient
	auth      ledgerapiconnect.AuthServiceClient
	store     storage.Store
	publisher *recordingPublisher
}

// setupTestServer serves all three services over httptest, backed by a fresh
// SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	publisher := &recordingPublisher{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	ledgerPath, ledgerHandler := ledgerapiconnect.NewLedgerServiceHandler(NewLedgerService(store, publisher), interceptors)
	groupPath, groupHandler := ledgerapiconnect.NewGroupServiceHandler(NewGroupService(store), interceptors)
	authPath, authHandler := ledgerapiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, nil),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(groupPath, groupHandler)
	mux.Handle(authPath, authHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		ledger:    ledgerapiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		groups:    ledgerapiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		auth:      ledgerapiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		store:     store,
		publisher: publisher,
	}
}

func expectCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected %v, got %v: %v", want, connectErr.Code(), connectErr.Message())
	}
	return connectErr
}
