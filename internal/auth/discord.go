package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/chatman/internal/model"
)

const (
	defaultDiscordAuthURL  = "https://discord.com/api/oauth2/authorize"
	defaultDiscordTokenURL = "https://discord.com/api/oauth2/token"
	defaultDiscordUserURL  = "https://discord.com/api/users/@me"

	discordCDN = "https://cdn.discordapp.com"
)

// DiscordConfig はDiscord OAuthプロバイダーの設定。
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL  string
	TokenURL string
	UserURL  string
}

// DiscordProvider はDiscord OAuth 2.0による認証を提供する。
type DiscordProvider struct {
	config DiscordConfig
	client *http.Client
}

// NewDiscordProvider はDiscordProviderを生成する。
func NewDiscordProvider(config DiscordConfig) *DiscordProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultDiscordAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultDiscordTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultDiscordUserURL
	}
	return &DiscordProvider{config: config, client: http.DefaultClient}
}

// Name はプロバイダー名を返す。
func (p *DiscordProvider) Name() model.Provider {
	return model.ProviderDiscord
}

// AuthorizeURL はDiscordのOAuth認証URLを生成する。
// スコープにはidentify, emailを含む。
func (p *DiscordProvider) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {"identify email"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// discordTokenResponse はDiscordのトークンエンドポイントのレスポンス。
type discordTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// discordUser はDiscordのユーザー情報エンドポイントのレスポンス。
type discordUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar"`
	Discriminator string `json:"discriminator"`
}

// Exchange は認可コードをアクセストークンに交換し、プロフィールを取得する。
func (p *DiscordProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	var user discordUser
	if err := getJSON(ctx, p.client, p.config.UserURL, tokenResp.AccessToken, "", &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return &Profile{
		Email:     user.Email,
		Name:      displayName(user),
		AvatarURL: avatarURL(user),
		Provider:  model.ProviderDiscord,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
func (p *DiscordProvider) exchangeToken(ctx context.Context, code string) (*discordTokenResponse, error) {
	data := url.Values{
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

	var tokenResp discordTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// displayName は表示名を決定する。global_nameが空の場合はusernameにフォールバックする。
func displayName(u discordUser) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// avatarURL はアバターURLを組み立てる。
// カスタムアバター未設定の場合はdiscriminator mod 5で決まるデフォルトアバターを使う。
func avatarURL(u discordUser) string {
	if u.Avatar != "" {
		return fmt.Sprintf("%s/avatars/%s/%s.png", discordCDN, u.ID, u.Avatar)
	}

	disc, err := strconv.Atoi(u.Discriminator)
	if err != nil {
		disc = 0
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", discordCDN, disc%5)
}

// compile-time interface check
var _ Provider = (*DiscordProvider)(nil)
