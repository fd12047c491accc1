// Package fallback は上流の補完APIが利用できない場合の
// ローカル応答生成を提供する。
// 応答はキーワードのパターンマッチで決まる定型文であり、
// 外部依存も共有状態も持たない純粋な文字列変換として実装する。
package fallback

import "strings"

// Responder はキーワードベースの定型応答生成器。
// 上流APIの失敗を覆い隠すエラー境界として使われるため、
// どんな入力に対しても必ず応答を返し、エラーを発生させない。
type Responder struct{}

// NewResponder はResponderを生成する。
func NewResponder() *Responder {
	return &Responder{}
}

// topic はキーワード群と応答文の組。
type topic struct {
	keywords []string
	response string
}

// topics は評価順に並んだトピック一覧。
// 算術式の判定はこの一覧の後（scienceの前）に行う。
var topics = []topic{
	{
		keywords: []string{"ニュース", "最近", "今日", "news", "2025", "2026"},
		response: `📰 **最近の動向について**

**🤖 AI・テクノロジー:**
• 大規模言語モデルの実用化が一気に進んでいます
• 量子コンピュータの研究開発も大きく前進しています
• 自動運転の実証実験が各都市で拡大しています

**🌍 世界のトレンド:**
• サステナビリティが最優先課題になりつつあります
• リモートワークが働き方として定着しました
• 再生可能エネルギーへの移行が加速しています

**🎯 特に気になる分野はありますか？** どのテーマでも詳しくお話しできます！`,
	},
	{
		keywords: []string{"意味", "人生", "哲学", "存在"},
		response: `🤔 **哲学的な問いですね**

**💭 人生の意味について:**
この問いは何千年も人類を惹きつけてきました。いくつかの視点を紹介します。

**🏛️ 古典的なアプローチ:**
• アリストテレス: エウダイモニア、よく生きること
• 実存主義: 意味は自分で作り出すもの（サルトル、カミュ）
• 仏教: 苦しみからの解放と悟り
• ストア派: 徳と心の平静

**🌟 私の考え:**
答えはひとつではなく、人との繋がり、学びと成長、世界への小さな貢献、
そして驚きと喜びの瞬間の中にあるのかもしれません。

**💡 あなたはどこに意味を見出しますか？**`,
	},
	{
		keywords: []string{"創作", "創造", "アート", "芸術", "音楽", "クリエイティブ"},
		response: `🎨 **創造性とアートの世界へようこそ！**

**✨ 創造性とは:**
新しくて価値あるものを生み出す力。人間らしさの核心です。

**🎭 さまざまな表現:**
• ビジュアルアート: 絵画、彫刻、写真、デジタルアート
• 音楽: クラシックからエレクトロニックまで
• 文章: 小説、詩、脚本
• 新しいメディア: VRアート、生成AIとの協働

**🧠 創造力を伸ばすコツ:**
• インスピレーションを集める（旅、読書、他の作品に触れる）
• 毎日少しずつ手を動かす
• 技法やスタイルを実験する
• フィードバックをもらって磨く

**💡 どんな創作に興味がありますか？具体的なアドバイスもできます！**`,
	},
	{
		keywords: []string{"健康", "フィットネス", "運動", "食事", "ダイエット"},
		response: `💪 **健康は最高の投資です！**

**🏃 運動の基本:**
• 有酸素運動: 週150分の中強度、または75分の高強度
• 筋力トレーニング: 週2〜3回、全身をカバー
• 柔軟性: ストレッチやヨガ
• 休養: 睡眠は7〜9時間が目安

**🥗 食事の基本:**
• タンパク質・炭水化物・良質な脂質のバランス
• 多様な食材でビタミンとミネラルを確保
• 水分は1日2〜3リットル

**🧠 メンタルヘルス:**
• ストレス対策: 瞑想、呼吸法、趣味の時間
• 仕事と生活の境界をはっきりさせる

**🎯 どの分野を深掘りしましょうか？**`,
	},
	{
		keywords: []string{"人間関係", "友達", "恋愛", "コミュニケーション"},
		response: `❤️ **人間関係は人生の中心です**

**💕 健全な関係を築くには:**
• コミュニケーション: 率直に、誠実に、敬意をもって
• 共感: 相手の立場で考える
• 境界線: 自分の必要を伝えることも大切
• 信頼: すべての強い関係の土台

**🗣️ 伝え方のコツ:**
• まず聴く。返事を考えながら聞かない
• 「あなたは〜」ではなく「私は〜と感じる」で伝える
• 問題は放置せず、落ち着いて話し合う

**👥 新しい出会いには:**
• 共通の興味から始める（趣味、スポーツ、学びの場）
• 自分から一歩踏み出す勇気
• 本物の関係には時間がかかることを忘れずに

**🌟 どんなことで悩んでいますか？具体的にお手伝いできます。**`,
	},
	{
		keywords: []string{"キャリア", "仕事", "転職", "就職", "面接"},
		response: `🚀 **キャリアの話をしましょう！**

**💼 キャリア設計の基本:**
• 自己分析: 強み・弱み・興味を棚卸しする
• 目標設定: 具体的で測定可能な目標を立てる
• ネットワーク: 業界のイベントやメンターとの繋がり
• 学び続ける姿勢が最大の武器

**📝 応募書類と面接:**
• 職務経歴書は実績ベースで簡潔に
• 応募先ごとに動機をカスタマイズする
• よくある質問は声に出して練習する

**🎯 これから需要が伸びる力:**
• AI・データ分析などの技術スキル
• 課題解決力とコミュニケーション
• 変化への適応力

**🌟 どの段階のサポートが必要ですか？一緒に計画を立てましょう！**`,
	},
}

// scienceTopic は算術式の判定より後に評価するトピック。
var scienceTopic = topic{
	keywords: []string{"科学", "物理", "化学", "生物", "宇宙"},
	response: `🔬 **科学 — 世界を解き明かす営み！**

**🌌 物理学:**
• 量子力学: 粒子は波のように振る舞う
• 相対性理論: 時間と空間は相対的
• 熱力学: エネルギーは形を変えても消えない

**⚗️ 化学:**
• 周期表には118の元素
• 原子は結合して分子になり、反応で姿を変える

**🧬 生物学:**
• 進化: すべての生き物は共通の祖先を持つ
• DNA: 生命の設計図
• 生態系: 自然界の複雑な相互作用

**🚀 最近の大きな進展:**
• ゲノム編集が医療に応用され始めています
• 核融合エネルギーの研究が前進しています
• 系外惑星が続々と見つかっています

**🤔 どの分野に興味がありますか？どこまでも深く話せます！**`,
}

// defaultResponse はどのトピックにも一致しない場合の応答。
const defaultResponse = `🤖 **こんにちは！なんでも聞いてください！**

得意分野の一部を紹介します:

**🧠 知識と学び:**
• 科学、数学、歴史、地理、言語

**💻 テクノロジー:**
• プログラミング、Web開発、AI・機械学習

**🎨 創作とライフスタイル:**
• アート、音楽、文章、料理

**💪 自己成長:**
• キャリア、健康、人間関係、生産性

**💡 気軽に質問をどうぞ！** 簡単な質問でも複雑な相談でも、
できるだけ詳しく、わかりやすくお答えします。🚀

**今日は何について話しましょうか？** 😊`

// Respond は入力文字列に対する定型応答を返す。
// トピックは定義順に評価し、最初に一致したものを採用する。
func (r *Responder) Respond(prompt string) string {
	lower := strings.ToLower(prompt)

	for _, t := range topics {
		if matchesAny(lower, t.keywords) {
			return t.response
		}
	}

	// 算術式（例: "12 * 4"）は計算結果を埋め込んだ応答を返す
	if answer, ok := evalArithmetic(prompt); ok {
		return answer
	}

	if matchesAny(lower, scienceTopic.keywords) {
		return scienceTopic.response
	}

	return defaultResponse
}

// matchesAny はいずれかのキーワードが含まれるかを判定する。
func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
