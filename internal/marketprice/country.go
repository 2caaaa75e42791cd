package marketprice

import "strings"

// coffeeCountries lists producing countries as they appear in Japanese shop
// listings. Order matters: the first contained name wins, so longer names that
// contain shorter ones (インドネシア, インド) come first.
var coffeeCountries = []string{
	"コロンビア",
	"エチオピア",
	"ブラジル",
	"グアテマラ",
	"インドネシア",
	"タンザニア",
	"ケニア",
	"コスタリカ",
	"パナマ",
	"エルサルバドル",
	"ホンジュラス",
	"ペルー",
	"ルワンダ",
	"ブルンジ",
	"ボリビア",
	"メキシコ",
	"ベトナム",
	"インド",
	"パプアニューギニア",
	"イエメン",
	"ハワイ",
	"ジャマイカ",
	"中国",
	"ミャンマー",
	"タイ",
	"ラオス",
}

// DetectCountry returns the first known coffee country contained in text, or
// "" when there is none.
func DetectCountry(text string) string {
	if text == "" {
		return ""
	}
	for _, c := range coffeeCountries {
		if strings.Contains(text, c) {
			return c
		}
	}
	return ""
}
