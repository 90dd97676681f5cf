package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Rizviblue/rapid-courier-pro/internal/middleware"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
)

// MetricsRecorder はルーター全体で使うメトリクス記録のインターフェース。metrics.Collectorが満たす。
type MetricsRecorder interface {
	middleware.HTTPRecorder
	middleware.DecisionRecorder
	MutationRecorder
	MemberRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	AccessChecker     middleware.AccessChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface

	// 配送レコード
	ShipmentStore ShipmentStoreInterface
	Sanitizer     security.TextSanitizerService

	// 管理者向けの名簿
	AgentStore    AgentStoreInterface
	CustomerStore CustomerStoreInterface

	// 運用系。Loggerがnilの場合はslog.Default()、Metricsがnilの場合は記録しない
	Logger         *slog.Logger
	Metrics        MetricsRecorder
	MetricsHandler http.Handler
	HealthHandler  http.HandlerFunc
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// ロール別のルートグループには、さらに Access → RateLimit(General) を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	var (
		decisions middleware.DecisionRecorder
		mutations MutationRecorder
		members   MemberRecorder
	)
	if deps.Metrics != nil {
		decisions = deps.Metrics
		mutations = deps.Metrics
		members = deps.Metrics
	}

	authHandler := NewAuthHandler(deps.AuthService)
	shipmentHandler := NewShipmentHandler(deps.ShipmentStore, deps.Sanitizer, mutations)
	dashboardHandler := NewDashboardHandler(deps.ShipmentStore)
	agentHandler := NewAgentHandler(deps.AgentStore, deps.Sanitizer, members)
	customerHandler := NewCustomerHandler(deps.CustomerStore, deps.Sanitizer, members)

	// --- 認証不要のルート ---

	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Get("/login", authHandler.LoginPage)
	r.Get("/unauthorized", authHandler.Unauthorized)

	r.Route("/auth", func(r chi.Router) {
		// サインイン試行はクライアントIP単位で制限する
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.LoginMiddleware())
			r.Post("/login", authHandler.Login)
			r.Post("/demo/{role}", authHandler.DemoLogin)
		})
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- ロール別のルート ---
	// ミドルウェアスタック: Access → RateLimit(General)
	guarded := func(role model.Role) chi.Router {
		return r.With(
			middleware.NewAccessMiddleware(deps.AccessChecker, decisions, role),
			deps.RateLimiter.GeneralMiddleware(),
		)
	}

	courierRoutes := func(r chi.Router) {
		r.Get("/", shipmentHandler.List)
		r.Post("/", shipmentHandler.Create)
		r.Get("/stats", shipmentHandler.Stats)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", shipmentHandler.Get)
			r.Patch("/", shipmentHandler.Update)
			r.Delete("/", shipmentHandler.Delete)
		})
	}

	guarded(model.RoleAdmin).Route("/admin", func(r chi.Router) {
		r.Get("/dashboard", dashboardHandler.Admin)
		r.Route("/couriers", courierRoutes)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentHandler.List)
			r.Post("/", agentHandler.Create)
			r.Get("/stats", agentHandler.Stats)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", agentHandler.Get)
				r.Patch("/", agentHandler.Update)
				r.Delete("/", agentHandler.Delete)
				r.Post("/toggle-status", agentHandler.ToggleStatus)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerHandler.List)
			r.Post("/", customerHandler.Create)
			r.Get("/stats", customerHandler.Stats)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", customerHandler.Get)
				r.Patch("/", customerHandler.Update)
				r.Delete("/", customerHandler.Delete)
				r.Post("/toggle-status", customerHandler.ToggleStatus)
			})
		})
	})

	guarded(model.RoleAgent).Route("/agent", func(r chi.Router) {
		r.Get("/dashboard", dashboardHandler.Agent)
		r.Route("/couriers", courierRoutes)
	})

	guarded(model.RoleUser).Route("/user", func(r chi.Router) {
		r.Get("/dashboard", dashboardHandler.User)
		r.Get("/packages", dashboardHandler.Packages)
		r.Get("/track/{code}", shipmentHandler.Track)
	})

	return r
}
