package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	pgstore "clock-tutor-service/internal/infra/postgres"
	pgmigrations "clock-tutor-service/internal/infra/postgres/migrations"
	infraredis "clock-tutor-service/internal/infra/redis"
	"clock-tutor-service/internal/narrator"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type immediateScheduler struct{}

func (immediateScheduler) After(_ time.Duration, fn func()) func() {
	go fn()
	return func() {}
}

type nopPresenter struct{}

func (nopPresenter) Speak(string)    {}
func (nopPresenter) Render(app.View) {}

func TestLessonProgressPersistsInPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	gateway := app.NewGateway(pgstore.NewKVStore(pool))
	lessons := app.NewLessonService(gateway, app.NewPlayerFactory(), immediateScheduler{}, app.DefaultRules(), nil)
	session := lessons.NewSession("it-1", nopPresenter{})
	defer session.Close()

	if _, err := session.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	view, err := session.CreatePlayer(ctx, "Bi")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	playerID := view.Player.ID

	if _, err := session.StartStage(ctx, 2); err != nil {
		t.Fatalf("start stage: %v", err)
	}
	qs, err := gateway.StageQuestions(ctx, 2)
	if err != nil {
		t.Fatalf("stage questions: %v", err)
	}
	for i, q := range qs {
		waitFor(t, func() bool {
			v := session.View()
			return v.Question != nil && v.Question.ID == q.ID && !v.AwaitingAdvance
		}, fmt.Sprintf("question %d", i))
		if _, err := session.Choose(q.Payload.(domain.ClockChoicePayload).Answer); err != nil {
			t.Fatalf("choose: %v", err)
		}
	}

	waitFor(t, func() bool {
		p, err := gateway.Player(ctx, playerID)
		return err == nil && p.Stars == 5
	}, "stage reward")

	// a fresh gateway on the same database sees the same state
	reloaded, err := app.NewGateway(pgstore.NewKVStore(pool)).Player(ctx, playerID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.CompletedStages) != 1 || reloaded.CompletedStages[0] != "2" {
		t.Fatalf("unexpected progress %+v", reloaded)
	}
}

func TestRedisStoresAndClipCache(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	admin := app.NewAdminService(app.NewGateway(infraredis.NewKVStore(client)), app.NewPlayerFactory())
	if _, err := admin.AddPlayer(ctx, "Na"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	players, err := admin.ListPlayers(ctx)
	if err != nil || len(players) != 1 {
		t.Fatalf("expected one player, got %+v err=%v", players, err)
	}

	cache := infraredis.NewClipCache(client, time.Minute)
	clip := narrator.Clip{Text: "Đúng rồi!", PCM: []byte{1, 2, 3, 4}, SampleRate: 24000, Channels: 1}
	if err := cache.Put(ctx, clip); err != nil {
		t.Fatalf("put clip: %v", err)
	}
	got, ok, err := cache.Get(ctx, clip.Text)
	if err != nil || !ok || string(got.PCM) != string(clip.PCM) {
		t.Fatalf("expected cached clip, got %+v ok=%v err=%v", got, ok, err)
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "clock", "POSTGRES_PASSWORD": "clockpass", "POSTGRES_DB": "clockdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://clock:clockpass@%s:%s/clockdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
