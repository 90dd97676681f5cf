// Package app は設定の読み込み、依存関係のワイヤリング、サブコマンドの実行を行う。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Rizviblue/rapid-courier-pro/internal/agent"
	"github.com/Rizviblue/rapid-courier-pro/internal/auth"
	"github.com/Rizviblue/rapid-courier-pro/internal/config"
	"github.com/Rizviblue/rapid-courier-pro/internal/customer"
	"github.com/Rizviblue/rapid-courier-pro/internal/database"
	"github.com/Rizviblue/rapid-courier-pro/internal/guard"
	"github.com/Rizviblue/rapid-courier-pro/internal/handler"
	"github.com/Rizviblue/rapid-courier-pro/internal/logger"
	"github.com/Rizviblue/rapid-courier-pro/internal/metrics"
	"github.com/Rizviblue/rapid-courier-pro/internal/middleware"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
	"github.com/Rizviblue/rapid-courier-pro/internal/session"
	"github.com/Rizviblue/rapid-courier-pro/internal/shipment"
)

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, "info")

	// 2. .envを読み込んでから環境変数を解釈する
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで張り直す
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// SIGINTまたはSIGTERMを受信するとキャンセルされるコンテキストでRunContextを呼ぶ。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, w, args)
}

// RunContext はコマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// serveはctxがキャンセルされるまでブロックする。
func RunContext(ctx context.Context, w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(fmt.Sprintf("http://localhost:%s/health", port))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.String("snapshot_backend", cfg.SnapshotBackend),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(ctx, cfg)
	}
}

// Server はワイヤリング済みのHTTPハンドラーと、停止時に解放するリソースを保持する。
type Server struct {
	Handler http.Handler

	limiter *middleware.RateLimiter
	closers []func() error
}

// NewServer は設定に従ってスナップショット保存先を開き、全依存関係をワイヤリングする。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{}

	// 1. スナップショット保存先
	backend, err := openSnapshotBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if backend.close != nil {
		s.closers = append(s.closers, backend.close)
	}

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 3. ストアの初期化（セッションは保存先から復元する）
	sessions := session.NewStore(ctx, backend.repo)

	var (
		seed          []model.ShipmentRecord
		seedAgents    []model.Agent
		seedCustomers []model.Customer
	)
	if cfg.SeedDemoData {
		seed = shipment.DemoRecords()
		seedAgents = agent.DemoAgents()
		seedCustomers = customer.DemoCustomers()
	}
	shipments := shipment.NewStore(seed, shipment.StoreConfig{})
	agents := agent.NewStore(seedAgents, agent.StoreConfig{})
	customers := customer.NewStore(seedCustomers, customer.StoreConfig{})

	// 4. ドメインサービスの初期化
	authService := auth.NewService(sessions, collector)
	accessGuard := guard.New(sessions)

	// 5. ルーターの構築
	s.limiter = middleware.NewRateLimiter(
		middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral, cfg.RateLimitLogin),
	)

	s.Handler = handler.NewRouter(&handler.RouterDeps{
		AccessChecker:     accessGuard,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       s.limiter,

		AuthService: authService,

		ShipmentStore: shipments,
		Sanitizer:     security.NewTextSanitizer(),
		AgentStore:    agents,
		CustomerStore: customers,

		Logger:         slog.Default(),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		HealthHandler:  healthHandler(cfg.SnapshotBackend, backend.ping),
	})

	return s, nil
}

// Close はレートリミッターを停止し、保存先の接続を閉じる。
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runServe はAPIサーバーモードで起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	srv, err := NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			slog.Error("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	// ListenAndServeのgoroutineが終了するまで待つ
	for range errCh {
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はスナップショット用テーブルのマイグレーションを実行する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.Migrate(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(healthURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(healthURL)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
