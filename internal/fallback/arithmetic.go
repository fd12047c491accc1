package fallback

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// arithmeticRe は「数値 演算子 数値」の形の式にマッチする。
// 対応演算子: + - * / ^ %
var arithmeticRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([+\-*/^%])\s*(\d+(?:\.\d+)?)`)

// evalArithmetic は入力から算術式を探し、計算結果を埋め込んだ応答を生成する。
// 式が見つからない場合はok=falseを返す。
// ゼロ除算は数値エラーにせず、定義されていない旨の説明文を返す。
func evalArithmetic(prompt string) (string, bool) {
	m := arithmeticRe.FindStringSubmatch(prompt)
	if m == nil {
		return "", false
	}

	// 正規表現にマッチした時点で数値として解析可能
	a, _ := strconv.ParseFloat(m[1], 64)
	op := m[2]
	b, _ := strconv.ParseFloat(m[3], 64)

	var result float64
	var explanation string

	switch op {
	case "+":
		result = a + b
		explanation = "加算: 2つの数を足し合わせます"
	case "-":
		result = a - b
		explanation = "減算: 1つ目の数から2つ目の数を引きます"
	case "*":
		result = a * b
		explanation = "乗算: 1つ目の数に2つ目の数を掛けます"
	case "/":
		if b == 0 {
			return divisionByZeroResponse(a), true
		}
		result = a / b
		explanation = "除算: 1つ目の数を2つ目の数で割ります"
	case "^":
		result = math.Pow(a, b)
		explanation = fmt.Sprintf("累乗: %sの%s乗を求めます", formatNumber(a), formatNumber(b))
	case "%":
		// 右辺0の剰余はNaNになるため、ゼロ除算と同じ扱いにする
		if b == 0 {
			return divisionByZeroResponse(a), true
		}
		result = math.Mod(a, b)
		explanation = "剰余: 割り算の余りを求めます"
	}

	return fmt.Sprintf(`🧮 **計算結果**

**式:** %s %s %s
**答え:** **%s**
**説明:** %s

%s

💡 **もっと数学の話をしますか？** 方程式、幾何、統計などもご案内できます！`,
		formatNumber(a), op, formatNumber(b), formatNumber(result), explanation,
		mathInsight(op, a, b, result),
	), true
}

// divisionByZeroResponse はゼロ除算に対する説明文を返す。
func divisionByZeroResponse(a float64) string {
	return fmt.Sprintf(`🧮 **計算結果**

**式:** %s ÷ 0
**答え:** **定義されていません**

0で割ることは数学的に定義されていません。
どんな数に0を掛けても%sには戻れないため、答えが存在しないのです。

💡 **別の式を試してみてください！**`, formatNumber(a), formatNumber(a))
}

// mathInsight は演算子ごとの豆知識を返す。
func mathInsight(op string, a, b, result float64) string {
	switch op {
	case "+":
		return fmt.Sprintf(`📊 **豆知識:**
• 加算は交換法則が成り立ちます: %s + %s = %s + %s
• 最古の計算体系は5000年以上前に生まれました`,
			formatNumber(a), formatNumber(b), formatNumber(b), formatNumber(a))
	case "*":
		return fmt.Sprintf(`📊 **豆知識:**
• 乗算は繰り返しの加算です: %sを%s回足すのと同じ
• こちらも交換法則が成り立ちます`,
			formatNumber(a), formatNumber(b))
	case "/":
		return fmt.Sprintf(`📊 **豆知識:**
• 除算は乗算の逆演算です
• 検算: %s × %s = %s`,
			formatNumber(result), formatNumber(b), formatNumber(a))
	case "^":
		return `📊 **豆知識:**
• 累乗は繰り返しの乗算です
• 指数関数は非常に速く成長します`
	default:
		return "🔢 数学は身の回りのあらゆる場所にあります！"
	}
}

// formatNumber は余分な小数点以下の0を付けずに数値を文字列化する。
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
