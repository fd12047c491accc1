package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// newFastEmitter は待機と揺らぎを無効化したEmitterを返す。
func newFastEmitter() *Emitter {
	e := NewEmitter()
	e.sleep = func(time.Duration) {}
	e.jitter = func() time.Duration { return 0 }
	return e
}

// parseFrames はSSE出力をdataペイロードの列に分解する。
func parseFrames(t *testing.T, raw string) []string {
	t.Helper()

	var frames []string
	for _, block := range strings.Split(raw, "\n\n") {
		if block == "" {
			continue
		}
		if !strings.HasPrefix(block, "data: ") {
			t.Fatalf("data: で始まらないフレーム: %q", block)
		}
		frames = append(frames, strings.TrimPrefix(block, "data: "))
	}
	return frames
}

// frameContent はdeltaフレームからcontentを取り出す。
func frameContent(t *testing.T, payload string) string {
	t.Helper()

	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		t.Fatalf("フレームのJSON解析に失敗: %v (%q)", err, payload)
	}
	if len(c.Choices) != 1 {
		t.Fatalf("choicesの要素数 = %d, want 1", len(c.Choices))
	}
	return c.Choices[0].Delta.Content
}

// reassemble は終端フレームを除く全フレームのcontentを連結する。
func reassemble(t *testing.T, frames []string) string {
	t.Helper()

	var joined strings.Builder
	for _, f := range frames[:len(frames)-1] {
		joined.WriteString(frameContent(t, f))
	}
	return joined.String()
}

func TestEmitter_Emit_WritesWordFramesAndDoneFrame(t *testing.T) {
	e := newFastEmitter()
	var buf bytes.Buffer

	if err := e.Emit(context.Background(), &buf, "hello world"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	frames := parseFrames(t, buf.String())
	if len(frames) != 3 {
		t.Fatalf("フレーム数 = %d, want 3", len(frames))
	}

	if got := frameContent(t, frames[0]); got != "hello " {
		t.Errorf("1番目のcontent = %q, want %q", got, "hello ")
	}
	if got := frameContent(t, frames[1]); got != "world" {
		t.Errorf("2番目のcontent = %q, want %q", got, "world")
	}
	if frames[2] != "[DONE]" {
		t.Errorf("終端フレーム = %q, want %q", frames[2], "[DONE]")
	}
}

func TestEmitter_Emit_ReassemblesToOriginalText(t *testing.T) {
	e := newFastEmitter()
	var buf bytes.Buffer

	content := "吾輩は 猫である 名前は まだ無い"
	if err := e.Emit(context.Background(), &buf, content); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	frames := parseFrames(t, buf.String())
	if got := reassemble(t, frames); got != content {
		t.Errorf("連結結果 = %q, want %q", got, content)
	}
}

func TestEmitter_Emit_PreservesNewlinesInMultilineText(t *testing.T) {
	e := newFastEmitter()
	var buf bytes.Buffer

	// 改行と箇条書きを含むMarkdown形式の応答
	content := "見出し\n\n• 箇条書き1\n• 箇条書き2"
	if err := e.Emit(context.Background(), &buf, content); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	frames := parseFrames(t, buf.String())
	got := reassemble(t, frames)
	if got != content {
		t.Errorf("連結結果 = %q, want %q", got, content)
	}
	if !strings.Contains(got, "\n\n") {
		t.Error("連結結果から改行が失われています")
	}
}

func TestEmitter_Emit_KeepsNewlineInsideToken(t *testing.T) {
	e := newFastEmitter()
	var buf bytes.Buffer

	// 空白1つで分割するため「行末\n行頭」は1トークンになる
	if err := e.Emit(context.Background(), &buf, "行末\n行頭 続き"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	frames := parseFrames(t, buf.String())
	if len(frames) != 3 {
		t.Fatalf("フレーム数 = %d, want 3", len(frames))
	}
	if got := frameContent(t, frames[0]); got != "行末\n行頭 " {
		t.Errorf("1番目のcontent = %q, want %q", got, "行末\n行頭 ")
	}
}

func TestEmitter_Emit_CancelStopsMidStream(t *testing.T) {
	e := NewEmitter()
	e.jitter = func() time.Duration { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	e.sleep = func(time.Duration) { cancel() }

	var buf bytes.Buffer
	err := e.Emit(ctx, &buf, "one two three four")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Emit() error = %v, want context.Canceled", err)
	}

	if strings.Contains(buf.String(), "[DONE]") {
		t.Error("キャンセル後に終端フレームが送られています")
	}
}

// failWriter はn回の書き込み成功後にエラーを返す。
type failWriter struct {
	remaining int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, errors.New("connection closed")
	}
	w.remaining--
	return len(p), nil
}

func TestEmitter_Emit_WriteFailureAbortsStream(t *testing.T) {
	e := newFastEmitter()

	err := e.Emit(context.Background(), &failWriter{remaining: 1}, "one two three")
	if err == nil {
		t.Fatal("書き込み失敗がエラーになりません")
	}
}

func TestEmitter_Emit_SleepsBetweenWordsOnly(t *testing.T) {
	e := NewEmitter()
	e.jitter = func() time.Duration { return 0 }

	var sleeps []time.Duration
	e.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	var buf bytes.Buffer
	if err := e.Emit(context.Background(), &buf, "a b c"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	// 3単語なら待機は2回。終端フレーム前には待機しない。
	if len(sleeps) != 2 {
		t.Fatalf("待機回数 = %d, want 2", len(sleeps))
	}
	for _, d := range sleeps {
		if d != baseDelay {
			t.Errorf("待機時間 = %v, want %v", d, baseDelay)
		}
	}
}
