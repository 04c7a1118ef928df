//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"coach-booking/cmd/bootstrap"
	"coach-booking/cmd/bootstrap/components"
	"coach-booking/internal/infra/db"
	"coach-booking/internal/pkg/config"
	"coach-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgImage    = "postgres:17"
	redisImage = "redis:7-alpine"
)

type pgServer struct {
	Host string
	Port nat.Port
}

func (s pgServer) adminDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, s.Host, s.Port.Port())
}

// One container per test process, shared by every suite; ryuk reaps it when
// the process exits, so no suite may terminate it on its own.
var sharedPostgres = sync.OnceValues(startPostgres)

func startPostgres() (pgServer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			// durability settings are exercised per transaction by the app, so the
			// server itself can skip fsync
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "max_connections=200",
				"-c", "shared_buffers=256MB",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return pgServer{Host: host, Port: port}.adminDSN()
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "coach-booking-e2e"},
		},
		Started: true,
	})
	if err != nil {
		return pgServer{}, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return pgServer{}, fmt.Errorf("resolve container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return pgServer{}, fmt.Errorf("resolve container port: %w", err)
	}
	return pgServer{Host: host, Port: port}, nil
}

var sharedRedis = sync.OnceValues(startRedis)

func startRedis() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
			Labels:       map[string]string{"purpose": "coach-booking-e2e"},
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve redis host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve redis port: %w", err)
	}
	return net.JoinHostPort(host, port.Port()), nil
}

// createDatabase gives the calling suite its own database on the shared server.
func createDatabase(t *testing.T, server pgServer) config.DBConfig {
	t.Helper()
	name := "coach_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, server.adminDSN())
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// CREATE DATABASE serialises on the template; parallel suites can collide
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
	}
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, server.adminDSN())
		if err != nil {
			slog.Warn("cleanup connection failed", "database", name, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:              server.Host,
		Port:              server.Port.Port(),
		User:              pgUser,
		Password:          pgPassword,
		DBName:            name,
		SSLMode:           "disable",
		TimeZone:          "UTC",
		MaxConns:          20,
		SynchronousCommit: "on",
	}
}

// applyMigrations runs every migrations/*.sql file in name order.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found under %s", root)
	}
	slices.Sort(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

// repoRoot walks up from the package directory `go test` runs in to the go.mod.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

func testConfig(dbCfg config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	// relay runs with the log publisher; a short interval keeps outbox tests fast
	cfg.Outbox.Interval = 200 * time.Millisecond
	return cfg
}

// startApp runs the production fx graph against the suite's database, minus the
// config and db modules which the harness supplies.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.RedisModule,
		bootstrap.BrokerModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		bootstrap.AdminModule,
		bootstrap.SchedulerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fx app failed to start")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})
	return router
}

// SharedSuite gives each e2e suite its own database and a running app.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config

	// WithRedis turns the seat status cache on against a shared Redis container.
	WithRedis bool
	Redis     *redis.Client
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	server, err := sharedPostgres()
	require.NoError(t, err)

	dbCfg := createDatabase(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, dbCfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)
	require.NoError(t, applyMigrations(ctx, pool), "database migration failed")

	s.DB = pool
	s.Config = testConfig(dbCfg)
	if s.WithRedis {
		addr, err := sharedRedis()
		require.NoError(t, err)
		s.Config.Redis.Enabled = true
		s.Config.Redis.Addr = addr
		s.Redis = redis.NewClient(&redis.Options{Addr: addr, DB: s.Config.Redis.DB})
		t.Cleanup(func() { _ = s.Redis.Close() })
	}
	s.Router = startApp(t, pool, s.Config)
}

// SetupSubTest truncates the store behind the app's back, so a cached seat
// list has to go with it.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
	if s.Redis != nil {
		require.NoError(s.T(), s.Redis.FlushDB(context.Background()).Err(), "failed to flush redis")
	}
}
