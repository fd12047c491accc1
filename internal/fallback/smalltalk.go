package fallback

import (
	"math/rand"
	"strings"
	"time"
)

// SmallTalk は雑談向けの軽量な定型応答生成器。
// チャット本体の応答経路では使わず、UIのカジュアルモード向けに提供する。
// カテゴリ内の応答はランダムに選択する。
type SmallTalk struct {
	responses map[string][]string

	// intn はテストで乱数を差し替えるためのフック。
	intn func(n int) int
}

// NewSmallTalk はSmallTalkを生成する。
func NewSmallTalk() *SmallTalk {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &SmallTalk{
		responses: smallTalkResponses,
		intn:      rnd.Intn,
	}
}

var smallTalkResponses = map[string][]string{
	"greetings": {
		"こんにちは！会えてうれしいです！👋",
		"やあ！今日はどんなお手伝いをしましょうか？",
		"こんにちは！来てくれてありがとうございます！😊",
	},
	"questions": {
		"いい質問ですね！ちょっと考えさせてください… 🤔",
		"面白い質問です！私はこう思います:",
		"それについてはこんなことが言えそうです:",
	},
	"compliments": {
		"ありがとうございます！そう言ってもらえるととてもうれしいです！😊",
		"あなたも素敵ですよ！ありがとう！",
		"わあ、ありがとうございます！元気が出ました！",
	},
	"jokes": {
		"パンはパンでも食べられないパンは？フライパン！🍳😄",
		"布団がふっとんだ！😂",
		"イクラはいくら？🍣",
	},
	"help": {
		"いろいろなことをお手伝いできます！気になることを聞いてください！💡",
		"喜んでお手伝いします！雑談でも質問でも、なんでもどうぞ！",
		"お手伝いするためにここにいます！何が気になっていますか？",
	},
	"programming": {
		"プログラミングの話、大歓迎です！どの言語に興味がありますか？💻",
		"コードは詩のようなもの。美しいときも、難解なときもあります！😄",
		"デバッグは探偵の仕事みたいなものですね。犯人探しです！🔍",
	},
	"weather": {
		"天気の話はいつでも盛り上がりますね！☀️🌧️",
		"そちらの天気が良いといいのですが！デジタルの世界は常に快晴です！😄",
		"天気って気分にずいぶん影響しますよね。",
	},
	"food": {
		"食は人生です！好きな食べ物はなんですか？🍕",
		"私は食べられませんが、おいしい話を聞くのは大好きです！😋",
		"料理は化学、ただしおいしい化学です！👨‍🍳",
	},
	"default": {
		"面白いですね！もっと聞かせてください！🤔",
		"なるほど、それは考えたことがありませんでした。あなたはどう思いますか？",
		"楽しい話題ですね！あなたの意見も聞きたいです！",
	},
}

// smallTalkCategories は判定順に並んだカテゴリとキーワードの組。
var smallTalkCategories = []struct {
	name     string
	keywords []string
}{
	{"greetings", []string{"こんにちは", "こんばんは", "おはよう", "やあ", "hello", "hi"}},
	{"compliments", []string{"すごい", "素敵", "いいね", "ありがとう", "えらい"}},
	{"jokes", []string{"ジョーク", "冗談", "面白い話", "笑わせて", "ダジャレ"}},
	{"help", []string{"助けて", "手伝って", "ヘルプ", "できること"}},
	{"programming", []string{"プログラミング", "プログラム", "コード", "バグ", "開発"}},
	{"weather", []string{"天気", "晴れ", "雨", "雪", "気温"}},
	{"food", []string{"食べ物", "料理", "ごはん", "ランチ", "おいしい"}},
	{"questions", []string{"？", "?", "なに", "どう", "なぜ", "いつ", "どこ"}},
}

// Respond は入力に対する雑談応答を返す。
func (s *SmallTalk) Respond(message string) string {
	category := detectCategory(message)
	candidates := s.responses[category]
	if len(candidates) == 0 {
		candidates = s.responses["default"]
	}
	return candidates[s.intn(len(candidates))]
}

// detectCategory はメッセージのカテゴリを判定する。
func detectCategory(message string) string {
	lower := strings.ToLower(message)
	for _, c := range smallTalkCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return c.name
			}
		}
	}
	return "default"
}
