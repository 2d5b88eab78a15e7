package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/shandysiswandi/autocare/internal/identity/outbound/db"
	"github.com/shandysiswandi/autocare/internal/pkg/clock"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

type flow struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newFlow(t *testing.T) *flow {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pg, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("autocare"),
		postgres.WithUsername("autocare"),
		postgres.WithPassword("autocare"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pg)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.NewDB(pool, instrument.NewNoop()).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, rd)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	uri, err := rd.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: identity-test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	pw, err := hash.NewPassword(hash.Config{Scheme: hash.SchemeBcrypt, BcryptCost: 4})
	if err != nil {
		t.Fatalf("password: %v", err)
	}
	codec, err := token.NewHMAC(token.Config{Secret: []byte("flow-secret"), Clock: clock.New()})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	sf, err := uid.NewSnowflakeNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Codec: codec})
	if err := New(Dependency{
		DBConn:      pool,
		Router:      r,
		Idempotency: idempotency.New(rdb),
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
		UID:         sf,
		Password:    pw,
		Codec:       codec,
		Validator:   v,
	}); err != nil {
		t.Fatalf("identity.New() error = %v", err)
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &flow{
		t:      t,
		server: srv,
		client: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }},
	}
}

func (f *flow) do(method, path, body, bearer string, header map[string]string) (int, map[string]any, *http.Response) {
	f.t.Helper()

	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	if err != nil {
		f.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var env map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&env)

	return resp.StatusCode, env, resp
}

func TestIdentityFlow(t *testing.T) {
	f := newFlow(t)
	register := `{"name":"Ana Souza","email":"ana@example.com","password":"s3cret-pass"}`

	// Register
	status, _, _ := f.do(http.MethodPost, "/api/v1/identity/register", register, "", map[string]string{"Idempotency-Key": "reg-1"})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}

	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/register", register, "", map[string]string{"Idempotency-Key": "reg-1"})
	if status != http.StatusConflict {
		t.Fatalf("replayed register status = %d", status)
	}

	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/register", register, "", nil)
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", status)
	}

	// Login
	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/login", `{"email":"ana@example.com","password":"wrong-pass"}`, "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", status)
	}

	status, env, resp := f.do(http.MethodPost, "/api/v1/identity/login", `{"username":"ana@example.com","senha":"s3cret-pass"}`, "", nil)
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	data, _ := env["data"].(map[string]any)
	accessToken, _ := data["access_token"].(string)
	if accessToken == "" {
		t.Fatalf("login response = %v", env)
	}
	if len(resp.Cookies()) == 0 || resp.Cookies()[0].Value != accessToken {
		t.Fatal("session cookie not set")
	}

	// Profile
	status, env, _ = f.do(http.MethodGet, "/api/v1/identity/profile", "", accessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	if data, _ := env["data"].(map[string]any); data["email"] != "ana@example.com" {
		t.Fatalf("profile = %v", env)
	}

	status, _, _ = f.do(http.MethodGet, "/api/v1/identity/profile", "", accessToken+"x", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("tampered token status = %d", status)
	}

	// Password change
	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/password/change", `{"current_password":"s3cret-pass","new_password":"n3w-secret-pass"}`, accessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("password change status = %d", status)
	}

	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/login", `{"email":"ana@example.com","password":"s3cret-pass"}`, "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("old password login status = %d", status)
	}
	status, _, _ = f.do(http.MethodPost, "/api/v1/identity/login", `{"email":"ana@example.com","password":"n3w-secret-pass"}`, "", nil)
	if status != http.StatusOK {
		t.Fatalf("new password login status = %d", status)
	}

	// Logout
	status, _, resp = f.do(http.MethodGet, "/api/v1/identity/logout", "", "", nil)
	if status != http.StatusFound || resp.Header.Get("Location") != "/ui/login" {
		t.Fatalf("logout status = %d location = %q", status, resp.Header.Get("Location"))
	}
}
