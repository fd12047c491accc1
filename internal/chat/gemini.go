// Package chat はユーザーのメッセージに対する応答生成を提供する。
//
// 応答は上流の補完API（Gemini）に委譲し、失敗時はローカルの
// 定型応答生成器にフォールバックする。上流の障害がユーザーに
// エラーとして見えることはない。
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Completer はプロンプトから応答文字列を生成するインターフェース。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel          = "gemini-1.5-flash"

	// personaPreamble は全プロンプトに前置する人格指示。
	personaPreamble = `あなたはとても賢く、親切でフレンドリーなAIです。日本語で、詳しく分かりやすく回答してください。絵文字を使って回答を楽しくしてください。

ユーザーの質問: `
)

// GeminiClientConfig はGeminiClientの設定を保持する。
type GeminiClientConfig struct {
	APIKey string
	// BaseURL は上流APIのベースURL。テストで差し替え可能。
	// 空の場合は本番エンドポイントを使用する。
	BaseURL string
	// Timeout は1リクエストの上限時間。
	Timeout time.Duration
	// RatePerMin はAPIクォータ保護のための送信レート上限（req/min）。
	RatePerMin int
}

// GeminiClient はGemini APIを呼び出すCompleterの実装。
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// コンパイル時のインターフェース実装チェック
var _ Completer = (*GeminiClient)(nil)

// NewGeminiClient はGeminiClientを生成する。
func NewGeminiClient(cfg GeminiClientConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ratePerMin := cfg.RatePerMin
	if ratePerMin <= 0 {
		ratePerMin = 60
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMin)), ratePerMin),
	}
}

// geminiRequest はgenerateContentエンドポイントのリクエストボディ。
type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenConfig       `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// geminiResponse はgenerateContentエンドポイントのレスポンスボディ。
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// safetySettings は全カテゴリで中程度以上の有害コンテンツをブロックする。
var safetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Complete はプロンプトをGemini APIに送信し、生成された応答を返す。
// レートリミッタの空き待ちはctxのキャンセルで中断される。
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("上流APIのレート制限待機に失敗: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: personaPreamble + prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
		SafetySettings: safetySettings,
	})
	if err != nil {
		return "", fmt.Errorf("リクエストボディの生成に失敗: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("リクエストの生成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("上流APIの呼び出しに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// エラーボディは診断用に先頭だけ読む
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("上流APIがステータス%dを返しました: %s", resp.StatusCode, snippet)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("上流APIレスポンスの解析に失敗: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("上流APIから応答が得られませんでした")
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("上流APIから空の応答が返されました")
	}

	return text, nil
}
