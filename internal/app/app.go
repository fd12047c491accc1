// Package app はアプリケーションの起動と依存関係のワイヤリングを担当する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/chatman/internal/auth"
	"github.com/hitoshi/chatman/internal/chat"
	"github.com/hitoshi/chatman/internal/config"
	"github.com/hitoshi/chatman/internal/database"
	"github.com/hitoshi/chatman/internal/fallback"
	"github.com/hitoshi/chatman/internal/handler"
	"github.com/hitoshi/chatman/internal/logger"
	"github.com/hitoshi/chatman/internal/metrics"
	"github.com/hitoshi/chatman/internal/middleware"
	"github.com/hitoshi/chatman/internal/repository"
	"github.com/hitoshi/chatman/internal/security"
	"github.com/hitoshi/chatman/internal/stream"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// repositories はrunServeで使うリポジトリの組。
type repositories struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	closer   io.Closer
}

// buildRepositories はDATABASE_URLの有無に応じてストレージを選択する。
// 未設定の場合はインメモリストアで起動し、プロセス終了とともに全データが消える。
func buildRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL not set, using in-memory store")
		return &repositories{
			users:    repository.NewMemoryUserRepo(),
			sessions: repository.NewMemorySessionRepo(),
		}, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return &repositories{
		users:    repository.NewPostgresUserRepo(db),
		sessions: repository.NewPostgresSessionRepo(db),
		closer:   db,
	}, nil
}

// measuringCompleter は上流呼び出しの成否をメトリクスに記録するCompleterラッパー。
type measuringCompleter struct {
	inner     chat.Completer
	collector *metrics.Collector
}

func (m *measuringCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := m.inner.Complete(ctx, prompt)
	if err != nil {
		m.collector.RecordCompletionFailure()
		return "", err
	}
	m.collector.RecordCompletionSuccess()
	return text, nil
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ストレージの初期化
	repos, err := buildRepositories(cfg)
	if err != nil {
		return err
	}
	if repos.closer != nil {
		defer repos.closer.Close()
	}

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. 認証サービスの初期化
	discordProvider := auth.NewDiscordProvider(auth.DiscordConfig{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.RedirectURL("discord"),
	})
	githubProvider := auth.NewGitHubProvider(auth.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.RedirectURL("github"),
	})
	authService := auth.NewService(
		[]auth.Provider{discordProvider, githubProvider},
		repos.users, repos.sessions,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	// 4. チャットサービスの初期化
	gemini := chat.NewGeminiClient(chat.GeminiClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Timeout:    cfg.UpstreamTimeout,
		RatePerMin: cfg.UpstreamRatePerMin,
	})
	chatService := chat.NewService(
		&measuringCompleter{inner: gemini, collector: collector},
		fallback.NewResponder(),
		security.NewOutputSanitizer(),
	)
	chatService.SetFallbackHook(collector.RecordFallback)

	// 5. ルーターの構築
	deps := &handler.RouterDeps{
		SessionFinder:     repos.sessions,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		ChatService: chatService,
		Emitter:     stream.NewEmitter(),

		Metrics:          collector,
		RecordHTTPStatus: collector.RecordHTTPStatus,
		Gatherer:         registry,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	// WriteTimeoutはストリーム配信が長引いても切れないよう長めに取る
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migration")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
