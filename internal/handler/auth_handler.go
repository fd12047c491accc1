// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/chatman/internal/middleware"
	"github.com/hitoshi/chatman/internal/model"
)

// loginErrorAuthFailed と loginErrorNoEmail は認証失敗時の
// リダイレクト先クエリに載せるエラーコード。
const (
	loginErrorAuthFailed = "auth_failed"
	loginErrorNoEmail    = "no_email"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	AuthorizeURL(provider model.Provider) (string, error)
	HandleCallback(ctx context.Context, provider model.Provider, code string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Login は指定プロバイダーのOAuthフローを開始する。
// GET /api/auth/{provider}
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := model.Provider(chi.URLParam(r, "provider"))
	if !provider.IsValid() {
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	url, err := h.service.AuthorizeURL(provider)
	if err != nil {
		slog.Error("failed to build authorize URL",
			slog.String("provider", string(provider)),
			slog.String("error", err.Error()),
		)
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// Callback はOAuthコールバックを処理する。
// GET /api/auth/{provider}/callback?code=xxx
// 失敗の詳細はログのみに記録し、ブラウザには一般的なエラーコードだけを渡す。
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := model.Provider(chi.URLParam(r, "provider"))
	if !provider.IsValid() {
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	// プロバイダーが同意を拒否した場合などはerrorパラメータが付く
	if oauthErr := r.URL.Query().Get("error"); oauthErr != "" {
		slog.Warn("oauth provider returned error",
			slog.String("provider", string(provider)),
			slog.String("oauth_error", oauthErr),
		)
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	session, err := h.service.HandleCallback(r.Context(), provider, code)
	if err != nil {
		slog.Error("oauth callback failed",
			slog.String("provider", string(provider)),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, model.ErrNoEmail) {
			h.redirectLoginError(w, r, loginErrorNoEmail)
			return
		}
		h.redirectLoginError(w, r, loginErrorAuthFailed)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// アプリケーションルートにリダイレクト
	http.Redirect(w, r, h.config.BaseURL+"/", http.StatusFound)
}

// Logout はセッションを破棄する。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッション削除に失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Me は現在のログインユーザー情報を返す。
// GET /api/auth/me
// 未認証の場合もエラーにはせず {"user": null} を返す。
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	user, err := h.service.CurrentUser(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to resolve current user", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*model.User{"user": user})
}

// redirectLoginError はログイン画面にエラーコード付きでリダイレクトする。
func (h *AuthHandler) redirectLoginError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.config.BaseURL+"/login?error="+code, http.StatusFound)
}
