// Package auth はOAuth認証フローとセッション発行を提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hitoshi/chatman/internal/model"
)

// Profile はOAuthプロバイダーから取得し正規化したユーザー情報を表す。
type Profile struct {
	Email     string
	Name      string
	AvatarURL string
	Provider  model.Provider
}

// Provider はOAuth認証プロバイダーのインターフェース。
// Discord、GitHubそれぞれの実装がプロバイダー固有の正規化を担う。
type Provider interface {
	// Name はプロバイダー名を返す。
	Name() model.Provider
	// AuthorizeURL はOAuth認証URLを生成する。
	AuthorizeURL(state string) string
	// Exchange は認可コードをアクセストークンに交換し、正規化済みプロフィールを取得する。
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// getJSON はBearerトークン付きGETでJSONレスポンスを取得する共通処理。
func getJSON(ctx context.Context, client *http.Client, url, accessToken, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
