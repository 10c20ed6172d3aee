package domain

import "strings"

// Confidence は、参照画像から抽出した候補に対するビジョンモデルの確信度です。
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Candidate は参照画像から導出されたキャラクター識別情報の候補です。
// CharacterPackage への昇格は必ず検証とポートレート生成を経由します。
type Candidate struct {
	Description string     `json:"description"`
	Confidence  Confidence `json:"confidence"`
}

// NormalizeConfidence は任意のラベルを high/medium/low のいずれかに正規化します。
// 未知のラベルは medium として扱います。
func NormalizeConfidence(raw string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(raw))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}
