package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/chatman/internal/middleware"
	"github.com/hitoshi/chatman/internal/model"
)

// ChatServiceInterface はチャットハンドラーが必要とする応答生成インターフェース。
type ChatServiceInterface interface {
	Respond(ctx context.Context, messages []model.Message) (string, error)
}

// StreamEmitterInterface は応答のSSE配信インターフェース。
type StreamEmitterInterface interface {
	Emit(ctx context.Context, w io.Writer, content string) error
}

// ChatMetrics はチャットハンドラーが記録するメトリクスの部分集合。
type ChatMetrics interface {
	RecordChatRequest()
	RecordCompletionLatency(duration time.Duration)
	RecordStreamFrames(count int)
}

// noopChatMetrics はメトリクス未設定時に使うフォールバック実装。
type noopChatMetrics struct{}

func (noopChatMetrics) RecordChatRequest()                    {}
func (noopChatMetrics) RecordCompletionLatency(time.Duration) {}
func (noopChatMetrics) RecordStreamFrames(int)                {}

// ChatHandler はチャットAPIのHTTPハンドラー。
type ChatHandler struct {
	service ChatServiceInterface
	emitter StreamEmitterInterface
	metrics ChatMetrics
}

// NewChatHandler はChatHandlerを生成する。metricsはnil可。
func NewChatHandler(service ChatServiceInterface, emitter StreamEmitterInterface, metrics ChatMetrics) *ChatHandler {
	if metrics == nil {
		metrics = noopChatMetrics{}
	}
	return &ChatHandler{
		service: service,
		emitter: emitter,
		metrics: metrics,
	}
}

// chatRequest はPOST /api/chatのリクエストボディ。
type chatRequest struct {
	Messages []model.Message `json:"messages"`
}

// Chat はメッセージ履歴への応答をSSEストリームとして返す。
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordChatRequest()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError(err.Error()))
		return
	}

	start := time.Now()
	content, err := h.service.Respond(r.Context(), req.Messages)
	h.metrics.RecordCompletionLatency(time.Since(start))
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		slog.Error("failed to generate chat response", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := h.emitter.Emit(r.Context(), w, content); err != nil {
		// クライアントの切断は異常ではないためログのみ
		slog.Warn("stream aborted", slog.String("error", err.Error()))
		return
	}

	// 単語フレーム + 終端フレーム
	h.metrics.RecordStreamFrames(len(strings.Split(content, " ")) + 1)
}
