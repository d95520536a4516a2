package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autocenter-backend/internal/customers"
	"github.com/angelmondragon/autocenter-backend/internal/orders"
	"github.com/angelmondragon/autocenter-backend/internal/products"
	pkgAuth "github.com/angelmondragon/autocenter-backend/pkg/auth"
	"github.com/angelmondragon/autocenter-backend/pkg/auth/session"
	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubCustomersService struct {
	customers.Service
}

func (stubCustomersService) GetProfile(ctx context.Context, customerID uuid.UUID) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{ID: customerID}, nil
}

func (stubCustomersService) ListAdmins(ctx context.Context) ([]customers.AdminDTO, error) {
	return []customers.AdminDTO{}, nil
}

type stubProductsService struct {
	products.Service
}

func (stubProductsService) ListProducts(ctx context.Context, input products.ListProductsInput) (*pagination.Page[products.ProductDTO], error) {
	return &pagination.Page[products.ProductDTO]{}, nil
}

type stubOrdersService struct {
	orders.Service
	mu      sync.Mutex
	created int
}

func (s *stubOrdersService) Create(ctx context.Context, customerID uuid.UUID, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	return &orders.OrderDTO{ID: uuid.New(), CustomerID: customerID, Status: enums.OrderStatusPending}, nil
}

func (s *stubOrdersService) List(ctx context.Context, input orders.ListInput) (*pagination.Page[orders.OrderDTO], error) {
	return &pagination.Page[orders.OrderDTO]{}, nil
}

type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: map[string]string{}}
}

func (m *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key], nil
}

func (m *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = value.(string)
	return true, nil
}

func (m *memoryIdempotencyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value.(string)
	return nil
}

func (m *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.records, k)
	}
	return nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Storage: config.StorageConfig{MaxUploadBytes: 1 << 20},
	}
}

type testRouter struct {
	handler http.Handler
	orders  *stubOrdersService
}

func newTestRouter(cfg *config.Config) testRouter {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	ordersSvc := &stubOrdersService{}
	handler := NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Sessions:    stubSessionManager{},
		Idempotency: newMemoryIdempotencyStore(),
		Customers:   stubCustomersService{},
		Products:    stubProductsService{},
		Orders:      ordersSvc,
	})
	return testRouter{handler: handler, orders: ordersSvc}
}

func (tr testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	tr.handler.ServeHTTP(resp, req)
	return resp
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		ActorID: uuid.New(),
		Role:    role,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func authed(t *testing.T, cfg *config.Config, method, path, body string, role enums.ActorRole) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := router.do(httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := router.do(httptest.NewRequest(http.MethodGet, "/api/public/products", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := router.do(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupRequiresCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	resp := router.do(authed(t, cfg, http.MethodGet, "/api/v1/me", "", enums.ActorRoleAdmin))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin token got %d", resp.Code)
	}

	resp = router.do(authed(t, cfg, http.MethodGet, "/api/v1/me", "", enums.ActorRoleCustomer))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	resp := router.do(authed(t, cfg, http.MethodGet, "/api/admin/orders", "", enums.ActorRoleCustomer))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer token got %d", resp.Code)
	}

	resp = router.do(authed(t, cfg, http.MethodGet, "/api/admin/orders", "", enums.ActorRoleAdmin))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token got %d", resp.Code)
	}
}

func TestAdminManagementRequiresSuperadmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	resp := router.do(authed(t, cfg, http.MethodGet, "/api/admin/admins", "", enums.ActorRoleAdmin))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin token got %d", resp.Code)
	}

	resp = router.do(authed(t, cfg, http.MethodGet, "/api/admin/admins", "", enums.ActorRoleSuperadmin))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for superadmin token got %d", resp.Code)
	}
}

func TestOrderCreateRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"items":[{"type":"product","id":"` + uuid.NewString() + `","quantity":1}]}`

	resp := router.do(authed(t, cfg, http.MethodPost, "/api/v1/orders", body, enums.ActorRoleCustomer))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
	if router.orders.created != 0 {
		t.Fatalf("expected no order created")
	}
}

func TestOrderCreateReplaysSameKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.ActorRoleCustomer)
	body := `{"items":[{"type":"product","id":"` + uuid.NewString() + `","quantity":1}]}`

	send := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "checkout-1")
		return router.do(req)
	}

	first := send(body)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	second := send(body)
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected identical replay body")
	}
	if router.orders.created != 1 {
		t.Fatalf("expected exactly one order created, got %d", router.orders.created)
	}

	conflict := send(`{"items":[{"type":"product","id":"` + uuid.NewString() + `","quantity":2}]}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with different body got %d", conflict.Code)
	}
}
