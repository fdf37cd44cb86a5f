package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/config"
	"clock-tutor-service/internal/infra/memory"
	redisstore "clock-tutor-service/internal/infra/redis"
	"clock-tutor-service/internal/logging"
	"clock-tutor-service/internal/narrator"
	transport "clock-tutor-service/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the clock tutor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			portFlag := ""
			if cmd.Flags().Changed("port") {
				portFlag = *port
			}
			return runServer(cmd.Context(), *configPath, portFlag)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	redisTTL := config.TTLDuration(cfg.Redis.TTL, defaultRedisTTL)
	var sessions app.SessionRepository
	if b.redis != nil {
		sessions = redisstore.NewSessionStore(b.redis, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	narr := buildNarrator(cfg, b, log)

	gateway := app.NewGateway(b.store)
	players := app.NewPlayerFactory()
	lessons := app.NewLessonService(gateway, players, app.TimerScheduler{}, rulesFromConfig(cfg), log)
	wsHandler := transport.NewWSHandler(lessons, sessions, narr, log)
	adminHandler := transport.NewAdminHandler(app.NewAdminService(gateway, players), sessions, log)

	mux := http.NewServeMux()
	adminHandler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting clock tutor", "port", finalPort, "storage", cfg.Storage.Driver, "narration", !narr.Disabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	narr.Wait()
	return err
}

func buildNarrator(cfg config.Config, b *backend, log *logging.Logger) *narrator.Narrator {
	timeout := config.TTLDuration(cfg.Narrator.Timeout, 20*time.Second)
	if cfg.Narrator.APIKey == "" {
		log.Warn("narration disabled, no API key configured")
		return narrator.New(nil, nil, timeout, log)
	}
	synth := narrator.NewGeminiSynthesizer(narrator.GeminiConfig{
		BaseURL: cfg.Narrator.BaseURL,
		APIKey:  cfg.Narrator.APIKey,
		Model:   cfg.Narrator.Model,
		Voice:   cfg.Narrator.Voice,
		Timeout: timeout,
	})
	cacheTTL := config.TTLDuration(cfg.Narrator.CacheTTL, 24*time.Hour)
	var cache narrator.ClipCache
	if b.redis != nil {
		cache = redisstore.NewClipCache(b.redis, cacheTTL)
	} else {
		cache = memory.NewClipCache(cacheTTL)
	}
	return narrator.New(synth, cache, timeout, log.With("component", "narrator"))
}
