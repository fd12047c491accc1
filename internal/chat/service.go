package chat

import (
	"context"
	"log/slog"

	"github.com/hitoshi/chatman/internal/fallback"
	"github.com/hitoshi/chatman/internal/model"
	"github.com/hitoshi/chatman/internal/security"
)

// Service はチャット応答の生成を統括する。
// 上流のCompleterが失敗した場合はローカルの定型応答にフォールバックし、
// どちらの経路でも応答はサニタイズしてから返す。
type Service struct {
	completer Completer
	responder *fallback.Responder
	sanitizer security.OutputSanitizerService

	// onFallback はフォールバック発生時に呼ばれるフック。メトリクス用。
	onFallback func()
}

// NewService はServiceを生成する。
func NewService(completer Completer, responder *fallback.Responder, sanitizer security.OutputSanitizerService) *Service {
	return &Service{
		completer:  completer,
		responder:  responder,
		sanitizer:  sanitizer,
		onFallback: func() {},
	}
}

// SetFallbackHook はフォールバック発生時のフックを設定する。
func (s *Service) SetFallbackHook(fn func()) {
	if fn != nil {
		s.onFallback = fn
	}
}

// Respond はメッセージ履歴に対する応答を生成する。
// プロンプトには最新の「user」ロールのメッセージ本文を使用する。
// メッセージが空の場合のみエラーを返し、上流の失敗はエラーにしない。
func (s *Service) Respond(ctx context.Context, messages []model.Message) (string, error) {
	if len(messages) == 0 {
		return "", model.NewEmptyMessagesError()
	}

	prompt := latestUserContent(messages)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("completion failed, falling back to local responder",
			slog.String("error", err.Error()),
		)
		s.onFallback()
		text = s.responder.Respond(prompt)
	}

	return s.sanitizer.Sanitize(text), nil
}

// latestUserContent は最新のuserロールのメッセージ本文を返す。
// userロールが1つもない場合は末尾のメッセージ本文を返す。
func latestUserContent(messages []model.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content
		}
	}
	return messages[len(messages)-1].Content
}
