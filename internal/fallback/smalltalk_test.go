package fallback

import "testing"

// newFixedSmallTalk は乱数を固定したSmallTalkを返す。
func newFixedSmallTalk(pick int) *SmallTalk {
	s := NewSmallTalk()
	s.intn = func(n int) int { return pick % n }
	return s
}

func TestDetectCategory_ClassifiesMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"挨拶", "こんにちは！", "greetings"},
		{"英語の挨拶", "hello there", "greetings"},
		{"お礼", "ありがとう、助かりました", "compliments"},
		{"ジョーク", "なにか冗談を言って", "jokes"},
		{"ヘルプ", "できることを教えて", "help"},
		{"プログラミング", "コードのバグが取れない", "programming"},
		{"天気", "今日は晴れですね", "weather"},
		{"食べ物", "おすすめの料理はありますか", "food"},
		{"疑問文", "これはどういう仕組み？", "questions"},
		{"該当なし", "ふむふむ", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCategory(tt.message); got != tt.want {
				t.Errorf("detectCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestSmallTalk_Respond_PicksWithinCategory(t *testing.T) {
	s := newFixedSmallTalk(0)

	got := s.Respond("こんにちは")
	if got != smallTalkResponses["greetings"][0] {
		t.Errorf("Respond = %q, want %q", got, smallTalkResponses["greetings"][0])
	}

	s = newFixedSmallTalk(2)
	got = s.Respond("こんにちは")
	if got != smallTalkResponses["greetings"][2] {
		t.Errorf("Respond = %q, want %q", got, smallTalkResponses["greetings"][2])
	}
}

func TestSmallTalk_Respond_AlwaysResponds(t *testing.T) {
	s := NewSmallTalk()

	for i := 0; i < 20; i++ {
		if got := s.Respond("ふむふむ"); got == "" {
			t.Fatal("空応答が返りました")
		}
	}
}
