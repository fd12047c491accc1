// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrNoEmail はOAuthプロバイダーからメールアドレスを取得できなかったことを表す。
// 一般的な認証失敗と区別し、UIがより具体的な案内を出せるようにする。
var ErrNoEmail = errors.New("no email address available from provider")

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, chat, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeEmptyMessages  = "EMPTY_MESSAGES"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストの形式が不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストボディがJSON形式であることを確認してください。",
	}
}

// NewEmptyMessagesError はメッセージ配列が空の場合のエラーを生成する。
func NewEmptyMessagesError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyMessages,
		Message:  "メッセージが含まれていません。",
		Category: "validation",
		Action:   "少なくとも1件のメッセージを送信してください。",
	}
}
