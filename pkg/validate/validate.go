// Package validate は、課金を伴う生成呼び出しの前段でユーザー入力を
// 検査する純粋関数群を提供します。I/Oは一切行いません。
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength はキャラクター名の最大文字数です（ファイル名として使うための制約）。
	MaxNameLength = 50
	// MinDescriptionLength / MaxDescriptionLength は説明文の許容文字数です。
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
	// MaxNegativePromptLength はネガティブプロンプトの最大文字数です。
	MaxNegativePromptLength = 500
	// MaxWordRepetition は説明文中で同一単語が出現してよい上限回数です。
	// これを超える入力は縮退した繰り返しとみなして弾きます。
	MaxWordRepetition = 5
)

// forbiddenNameChars はパス部品として使えない文字です。
const forbiddenNameChars = "/\\:*?\"<>|\n\t"

// reservedDeviceNames は Windows の予約デバイス名です。
// キャラクター名は後段でファイルパスの部品になるため、大文字小文字を無視して拒否します。
var reservedDeviceNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// CharacterName はキャラクター名を検査します。
// 受理可否と、拒否時は理由（修正の提案を含む）を返します。
func CharacterName(name string) (bool, string) {
	if strings.TrimSpace(name) == "" {
		return false, "名前が空です。1文字以上の名前を入力してください"
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return false, fmt.Sprintf("名前が長すぎます（最大%d文字）。短い名前にしてください", MaxNameLength)
	}
	if i := strings.IndexAny(name, forbiddenNameChars); i >= 0 {
		return false, fmt.Sprintf("名前に使用できない文字 %q が含まれています。英数字と空白・記号の一部のみ使用できます", name[i:i+1])
	}
	if _, ok := reservedDeviceNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return false, fmt.Sprintf("%q はシステム予約名のため使用できません。別の名前を選んでください", name)
	}
	return true, ""
}

// Description はキャラクター説明文を検査します。
func Description(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "説明が空です。外見や服装などの特徴を入力してください"
	}
	length := utf8.RuneCountInString(text)
	if length < MinDescriptionLength {
		return false, fmt.Sprintf("説明が短すぎます（最小%d文字）。より具体的に記述してください", MinDescriptionLength)
	}
	if length > MaxDescriptionLength {
		return false, fmt.Sprintf("説明が長すぎます（最大%d文字）。要点を絞って記述してください", MaxDescriptionLength)
	}
	if word, count := mostRepeatedWord(text); count > MaxWordRepetition {
		return false, fmt.Sprintf("単語 %q が%d回出現しています（上限%d回）。繰り返しを減らしてください", word, count, MaxWordRepetition)
	}
	return true, ""
}

// NegativePrompt はネガティブプロンプトを検査します。空は有効です。
func NegativePrompt(text string) (bool, string) {
	if utf8.RuneCountInString(text) > MaxNegativePromptLength {
		return false, fmt.Sprintf("ネガティブプロンプトが長すぎます（最大%d文字）。不要な要素のみ列挙してください", MaxNegativePromptLength)
	}
	return true, ""
}

// mostRepeatedWord は空白区切りの単語（大文字小文字を無視）のうち
// 最多出現のものとその回数を返します。
func mostRepeatedWord(text string) (string, int) {
	counts := make(map[string]int)
	var topWord string
	var topCount int
	for _, w := range strings.Fields(text) {
		key := strings.ToLower(w)
		counts[key]++
		if counts[key] > topCount {
			topWord, topCount = key, counts[key]
		}
	}
	return topWord, topCount
}
