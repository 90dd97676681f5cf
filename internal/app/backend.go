package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Rizviblue/rapid-courier-pro/internal/config"
	"github.com/Rizviblue/rapid-courier-pro/internal/database"
	"github.com/Rizviblue/rapid-courier-pro/internal/middleware"
	"github.com/Rizviblue/rapid-courier-pro/internal/repository"
)

// snapshotBackend はセッションスナップショットの保存先と、その疎通確認・解放処理。
type snapshotBackend struct {
	repo  repository.SessionSnapshotRepository
	ping  func(ctx context.Context) error
	close func() error
}

// openSnapshotBackend はSNAPSHOT_BACKENDに応じた保存先を開く。
func openSnapshotBackend(ctx context.Context, cfg *config.Config) (*snapshotBackend, error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendMemory:
		return &snapshotBackend{repo: repository.NewMemorySnapshotRepo()}, nil

	case config.SnapshotBackendFile:
		repo, err := repository.NewFileSnapshotRepo(cfg.SnapshotDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot dir: %w", err)
		}
		slog.Info("session snapshots stored in file", slog.String("path", repo.Path()))
		return &snapshotBackend{repo: repo}, nil

	case config.SnapshotBackendRedis:
		client, err := repository.NewRedisClient(ctx, repository.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("redis connection established")
		return &snapshotBackend{
			repo:  repository.NewRedisSnapshotRepo(client),
			ping:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: client.Close,
		}, nil

	case config.SnapshotBackendPostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Ping(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("database connection established")
		return &snapshotBackend{
			repo:  repository.NewPostgresSnapshotRepo(db),
			ping:  func(ctx context.Context) error { return database.Ping(ctx, db) },
			close: db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %q", cfg.SnapshotBackend)
	}
}

// healthHandler は保存先への疎通を確認するヘルスチェックハンドラーを返す。
// pingがnilの保存先（memory, file）は常にokを返す。
func healthHandler(backend string, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				slog.WarnContext(r.Context(), "health check failed",
					slog.String("backend", backend),
					slog.String("error", err.Error()),
				)
				middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":  "unavailable",
					"backend": backend,
				})
				return
			}
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": backend,
		})
	}
}
