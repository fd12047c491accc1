// Package security はアプリケーションのセキュリティ機能を提供する。
//
// OutputSanitizerService はモデル応答およびローカル応答のテキストをサニタイズし、
// 応答に紛れ込んだHTMLによるXSSからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// Markdownレンダリングに不要なタグと属性をすべて除去する。
package security

import "github.com/microcosm-cc/bluemonday"

// OutputSanitizerService は応答テキストのサニタイズ機能のインターフェースを定義する。
// ストリーム配信の前に必ず適用される。
type OutputSanitizerService interface {
	// Sanitize は応答テキストをサニタイズして安全な文字列を返す。
	// script, iframe, styleタグおよびon*イベント属性を含む
	// すべてのHTMLタグを除去し、テキストとMarkdown記法のみを残す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// outputSanitizer はOutputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type outputSanitizer struct {
	policy *bluemonday.Policy
}

// NewOutputSanitizer はOutputSanitizerServiceの新しいインスタンスを生成する。
// 応答はクライアント側でMarkdownとして描画されるため、
// HTMLタグを一切許可しないStrictPolicyを使用する。
// Markdownの強調記法（** や •）はHTMLではないのでそのまま通過する。
func NewOutputSanitizer() *outputSanitizer {
	return &outputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は応答テキストをサニタイズして安全な文字列を返す。
func (s *outputSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
