// Package stream は補完結果をSSE形式で逐次配信するエミッタを提供する。
// 応答全文を単語に分割し、1単語ずつ揺らぎのある間隔で書き出すことで
// 上流のトークンストリーミングに近い体感を作る。
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const (
	// ContentType はストリーム配信のContent-Type。
	ContentType = "text/plain; charset=utf-8"

	doneFrame = "data: [DONE]\n\n"

	// フレーム間隔は baseDelay + [0, jitterDelay) のランダム値
	baseDelay   = 25 * time.Millisecond
	jitterDelay = 40 * time.Millisecond
)

// chunk はOpenAI互換のdeltaフレーム。
type chunk struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Delta delta `json:"delta"`
}

type delta struct {
	Content string `json:"content"`
}

// Emitter は応答文字列をSSEフレーム列として書き出す。
type Emitter struct {
	// sleep はテストで待機を差し替えるためのフック。
	sleep func(d time.Duration)
	// jitter はテストで揺らぎを固定するためのフック。
	jitter func() time.Duration
}

// NewEmitter はEmitterを生成する。
func NewEmitter() *Emitter {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Emitter{
		sleep: time.Sleep,
		jitter: func() time.Duration {
			return time.Duration(rnd.Int63n(int64(jitterDelay)))
		},
	}
}

// Emit はcontentを単語単位のSSEフレームとしてwに書き出し、
// 最後に終端フレーム data: [DONE] を送る。
// 各フレームの後にwがhttp.Flusherならフラッシュする。
// ctxのキャンセルまたは書き込み失敗で途中終了し、その場合は終端フレームも送らない。
func (e *Emitter) Emit(ctx context.Context, w io.Writer, content string) error {
	// 空白1つで分割する。改行は単語内に残るため、
	// 受信側でcontentを連結すると元の文字列が完全に復元される。
	words := strings.Split(content, " ")

	for i, word := range words {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// 最終単語以外は後続との区切りの空白を含める
		if i < len(words)-1 {
			word += " "
		}

		if err := e.writeFrame(w, word); err != nil {
			return fmt.Errorf("ストリームフレームの書き込みに失敗: %w", err)
		}

		if i < len(words)-1 {
			e.sleep(baseDelay + e.jitter())
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, err := io.WriteString(w, doneFrame); err != nil {
		return fmt.Errorf("終端フレームの書き込みに失敗: %w", err)
	}
	flush(w)
	return nil
}

// writeFrame は1単語分のdeltaフレームを書き出す。
func (e *Emitter) writeFrame(w io.Writer, word string) error {
	payload, err := json.Marshal(chunk{
		Choices: []choice{{Delta: delta{Content: word}}},
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flush(w)
	return nil
}

func flush(w io.Writer) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
