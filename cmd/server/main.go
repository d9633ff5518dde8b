// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Crayxus/crayxus-game/internal/auth"
	"github.com/Crayxus/crayxus-game/internal/cache"
	"github.com/Crayxus/crayxus-game/internal/config"
	"github.com/Crayxus/crayxus-game/internal/database"
	"github.com/Crayxus/crayxus-game/internal/game"
	"github.com/Crayxus/crayxus-game/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.Level())

	if err := auth.Init(cfg.TokenExpireTime); err != nil {
		logger.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ledger game.ScoreLedger = game.NewMemoryLedger()
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer database.DB.Close()
		if err := database.EnsureSchema(ctx, database.DB); err != nil {
			logger.Fatalf("database: %v", err)
		}
		ledger = database.NewScoreLedger(database.DB)
		logger.Info("scores persisted to postgres")
	} else {
		logger.Warn("DATABASE_URL not set, scores are kept in memory")
	}

	var snaps game.SnapshotStore
	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer cache.Rdb.Close()
		snaps = cache.NewSnapshotStore(cache.Rdb)
		logger.Infof("room snapshots stored in redis at %s", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set, rooms will not survive a restart")
	}

	roomCfg := game.RoomConfig{
		BotTurnDelay:     cfg.BotTurnDelay,
		HumanTurnTimeout: cfg.HumanTurnTimeout,
		AutoStartHumans:  cfg.AutoStartHumans,
	}
	rooms := game.NewRoomStore(roomCfg, ledger, snaps, logrus.NewEntry(logger))

	n, err := rooms.Restore(ctx)
	if err != nil {
		logger.WithError(err).Error("crash recovery skipped")
	} else if n > 0 {
		logger.Infof("restored %d rooms", n)
	}
	go rooms.RunSnapshots(ctx, cfg.SnapshotInterval)

	// Sockets hang off connCtx so they can be closed after the final snapshot.
	connCtx, closeConns := context.WithCancel(context.Background())
	defer closeConns()
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handlers.NewRouter(logger, rooms),
		BaseContext: func(net.Listener) context.Context { return connCtx },
	}

	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rooms.SnapshotAll(shutdownCtx); err != nil {
		logger.WithError(err).Warn("final snapshot incomplete")
	}
	rooms.Close()
	closeConns()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown")
	}
}
