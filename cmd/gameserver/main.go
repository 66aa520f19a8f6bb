package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/typeroyale/internal/config"
	"github.com/udisondev/typeroyale/internal/db"
	"github.com/udisondev/typeroyale/internal/game/match"
	"github.com/udisondev/typeroyale/internal/game/room"
	"github.com/udisondev/typeroyale/internal/gameserver"
)

const GameConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := GameConfigPath
	if p := os.Getenv("TYPEROYALE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("type royale server starting",
		"log_level", cfg.LogLevel,
		"bind", cfg.BindAddress,
		"port", cfg.Port)

	var roomOpts []room.ManagerOption
	if cfg.Database.Enabled() {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		matches := db.NewMatchRepository(database.Pool())
		roomOpts = append(roomOpts, room.WithResultHook(func(res room.Result) {
			if !db.Recordable(res) {
				return
			}
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := matches.SaveResult(saveCtx, res); err != nil {
				slog.Warn("saving match result", "room", res.RoomID, "err", err)
			}
		}))
	} else {
		slog.Info("persistence disabled, running in-memory only")
	}

	rooms := room.NewManager(cfg.Room, roomOpts...)
	queue := match.NewQueue()
	clients := gameserver.NewClientManager()
	handler := gameserver.NewHandler(queue, rooms, clients)
	server := gameserver.NewServer(cfg, clients, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})

	err = g.Wait()
	rooms.Shutdown()
	slog.Info("server stopped")
	return err
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
