package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"

	"github.com/shandysiswandi/autocare/internal/identity/outbound/db"
	"github.com/shandysiswandi/autocare/internal/pkg/clock"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goroutine"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("telemetry.enabled"),
		ServiceName:      a.config.GetString("app.name"),
		ServiceVersion:   a.config.GetString("app.version"),
		Environment:      a.config.GetString("app.env"),
		OTLPEndpoint:     a.config.GetString("telemetry.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("telemetry.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("telemetry.sample_ratio"),
		MetricsInterval:  a.config.GetSecond("telemetry.metric_interval_second"),
		LogLevel:         logLevel(a.config.GetString("log.level")),
		MaskFields:       a.config.GetArray("telemetry.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.max_goroutine"))

	password, err := hash.NewPassword(hash.Config{
		Scheme:     hash.SchemeFromString(a.config.GetString("hash.scheme")),
		BcryptCost: a.config.GetInt("hash.bcrypt_cost"),
		Argon2id: hash.Argon2idConfig{
			Memory:      a.config.GetUint32("hash.argon2id.memory_kib"),
			Iterations:  a.config.GetUint32("hash.argon2id.iterations"),
			Parallelism: uint8(min(a.config.GetUint32("hash.argon2id.parallelism"), 255)),
		},
	})
	if err != nil {
		slog.Error("failed to init password hasher", "error", err)
		os.Exit(1)
	}
	a.password = password

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initToken() {
	codec, err := token.NewFromScheme(a.config.GetString("token.scheme"), token.Config{
		Secret: []byte(a.config.GetString("token.secret")),
		TTL:    a.config.GetMinute("token.ttl_minutes"),
		Clock:  a.clock,
	})
	if err != nil {
		slog.Error("failed to init session token codec", "scheme", a.config.GetString("token.scheme"), "error", err)
		os.Exit(1)
	}
	a.codec = codec
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string", "error", err)
		os.Exit(1)
	}

	if v := a.config.GetInt("database.max_conns"); v > 0 {
		config.MaxConns = int32(min(v, 1<<15))
	}
	if v := a.config.GetInt("database.min_conns"); v > 0 {
		config.MinConns = int32(min(v, 1<<15))
	}
	config.MaxConnIdleTime = a.config.GetSecond("database.max_conn_idle_second")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := pingWithRetry(a.ctx, "database", a.config.GetInt("database.connect_retry"), pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("database.migrate") {
		if err := db.NewDB(pool, a.ins).Migrate(a.ctx); err != nil {
			slog.Error("failed to migrate DB", "error", err)
			os.Exit(1)
		}
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	if err := pingWithRetry(a.ctx, "redis", a.config.GetInt("database.connect_retry"), ping); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Codec:      a.codec,
		Instrument: a.ins,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("http.address"),
		Handler:           withCORS(a.router, a.config.GetArray("http.cors_origins")),
		ReadTimeout:       a.config.GetSecond("http.read_timeout"),
		ReadHeaderTimeout: a.config.GetSecond("http.read_timeout"),
		WriteTimeout:      a.config.GetSecond("http.write_timeout"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}

func withCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(h)
}

// pingWithRetry calls ping with a capped fibonacci backoff, giving up after
// maxRetries additional attempts.
func pingWithRetry(ctx context.Context, name string, maxRetries int, ping func(context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(max(maxRetries, 0)), b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
}

func logLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}

	return lvl
}
