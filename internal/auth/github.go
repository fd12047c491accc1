package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hitoshi/chatman/internal/model"
)

const (
	defaultGitHubAuthURL  = "https://github.com/login/oauth/authorize"
	defaultGitHubTokenURL = "https://github.com/login/oauth/access_token"
	defaultGitHubUserURL  = "https://api.github.com/user"
	defaultGitHubEmailURL = "https://api.github.com/user/emails"

	// GitHub APIはUser-Agentヘッダーを必須とする
	githubUserAgent = "chatman"
)

// GitHubConfig はGitHub OAuthプロバイダーの設定。
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL  string
	TokenURL string
	UserURL  string
	EmailURL string
}

// GitHubProvider はGitHub OAuth 2.0による認証を提供する。
type GitHubProvider struct {
	config GitHubConfig
	client *http.Client
}

// NewGitHubProvider はGitHubProviderを生成する。
func NewGitHubProvider(config GitHubConfig) *GitHubProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGitHubAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGitHubTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultGitHubUserURL
	}
	if config.EmailURL == "" {
		config.EmailURL = defaultGitHubEmailURL
	}
	return &GitHubProvider{config: config, client: http.DefaultClient}
}

// Name はプロバイダー名を返す。
func (p *GitHubProvider) Name() model.Provider {
	return model.ProviderGitHub
}

// AuthorizeURL はGitHubのOAuth認証URLを生成する。
// スコープにはuser:emailを含む（非公開メールアドレスの取得に必要）。
func (p *GitHubProvider) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {"user:email"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// githubTokenResponse はGitHubのトークンエンドポイントのレスポンス。
type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// githubUser はGitHubのユーザー情報エンドポイントのレスポンス。
type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// githubEmail はGitHubのメールアドレス一覧エンドポイントの1エントリ。
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange は認可コードをアクセストークンに交換し、プロフィールを取得する。
// プロフィールのメールアドレスが非公開の場合はメールアドレス一覧APIで補完する。
// それでも取得できない場合はmodel.ErrNoEmailを返す。
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	var user githubUser
	if err := getJSON(ctx, p.client, p.config.UserURL, tokenResp.AccessToken, githubUserAgent, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	email := user.Email
	if email == "" {
		email, err = p.fetchPrimaryEmail(ctx, tokenResp.AccessToken)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, model.ErrNoEmail
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &Profile{
		Email:     email,
		Name:      name,
		AvatarURL: user.AvatarURL,
		Provider:  model.ProviderGitHub,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
// GitHubのトークンエンドポイントはJSONボディを受け付け、
// Accept: application/jsonを指定するとJSONで応答する。
func (p *GitHubProvider) exchangeToken(ctx context.Context, code string) (*githubTokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     p.config.ClientID,
		"client_secret": p.config.ClientSecret,
		"code":          code,
		"redirect_uri":  p.config.RedirectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp githubTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchPrimaryEmail はメールアドレス一覧APIからprimaryフラグ付きのアドレスを選択する。
// primaryが存在しない場合は先頭のアドレスにフォールバックする。
// 一覧APIの失敗はメールアドレス未取得として扱い、エラーにはしない。
func (p *GitHubProvider) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []githubEmail
	if err := getJSON(ctx, p.client, p.config.EmailURL, accessToken, githubUserAgent, &emails); err != nil {
		return "", nil
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

// compile-time interface check
var _ Provider = (*GitHubProvider)(nil)
