package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/chatman/internal/metrics"
	"github.com/hitoshi/chatman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// チャット
	ChatService ChatServiceInterface
	Emitter     StreamEmitterInterface

	// 観測
	Metrics ChatMetrics
	// RecordHTTPStatus が非nilの場合、全レスポンスのステータスコードを通知する。
	RecordHTTPStatus func(statusCode int)
	Gatherer         prometheus.Gatherer
	Logger           *slog.Logger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → StatusMetrics → CORS → CSRF
//
// チャットルート（/api/chat）のみSessionMiddlewareで保護する。
// 認証ルート（/api/auth/*）は匿名アクセスを前提とするためチェーンの外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.RecordHTTPStatus != nil {
		r.Use(middleware.NewStatusMetricsMiddleware(deps.RecordHTTPStatus))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	chatHandler := NewChatHandler(deps.ChatService, deps.Emitter, deps.Metrics)

	// --- 運用エンドポイント ---

	r.Get("/health", healthHandler)
	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// --- 認証ルート（OAuthフロー） ---

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)
		r.Get("/{provider}", authHandler.Login)
		r.Get("/{provider}/callback", authHandler.Callback)
	})

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

		r.Post("/api/chat", chatHandler.Chat)
	})

	return r
}

// healthHandler はプロセスの生存確認に応答する。
// GET /health
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
