// Package model はドメインモデルを定義する。
package model

import "time"

// Provider はOAuth認証プロバイダーの種別を表す。
type Provider string

const (
	// ProviderDiscord はDiscord OAuthを示す。
	ProviderDiscord Provider = "discord"
	// ProviderGitHub はGitHub OAuthを示す。
	ProviderGitHub Provider = "github"
)

// IsValid はサポート対象のプロバイダーかどうかを判定する。
func (p Provider) IsValid() bool {
	switch p {
	case ProviderDiscord, ProviderGitHub:
		return true
	default:
		return false
	}
}

// User はサービス利用ユーザーを表す。
// メールアドレスをキーに一意であり、作成後は変更されない。
// 同一メールアドレスで別プロバイダーからログインした場合も
// 既存レコードにマージされる（Providerは初回ログイン時のまま）。
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session はユーザーのログインセッションを表す。
// now < ExpiresAt の間のみ有効。期限切れセッションは参照時に遅延削除される。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Message はチャットの1発言を表す。
// サーバー側では永続化せず、リクエストの寿命でのみ保持する。
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// メッセージのロール。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
