package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shouni/go-cinegen-kit/pkg/domain"
)

// MaxCandidates は1枚の参照画像から受け付ける候補数の上限です。
const MaxCandidates = 2

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// ParseOutcome はビジョンモデル応答の解析結果を表すタグ付きの値です。
// 厳密なJSON解析に成功したか、自由テキストとして扱うかのどちらかになります。
type ParseOutcome struct {
	Structured bool
	Candidates []rawCandidate // Structured が true のときのみ有効
	RawText    string         // 応答の原文
}

type rawCandidate struct {
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
}

// ParseResponse は応答テキストを2段構えで解析します。
// まずJSON配列としての厳密な解析を試み、失敗した場合は原文全体を
// 自由テキストとして保持します。モデルが構造化出力に従わなくても
// パイプライン自体は決して失敗しません。
func ParseResponse(raw string) ParseOutcome {
	raw = strings.TrimSpace(raw)
	rawJSON := raw

	// コードフェンスに包まれている場合は中身を取り出します
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		rawJSON = matches[1]
	} else if first, last := strings.Index(raw, "["), strings.LastIndex(raw, "]"); first != -1 && last > first {
		// 前後に説明文が付いていても、最外の配列部分だけを解析対象にします
		rawJSON = raw[first : last+1]
	}

	var candidates []rawCandidate
	if err := json.Unmarshal([]byte(rawJSON), &candidates); err != nil {
		return ParseOutcome{Structured: false, RawText: raw}
	}
	return ParseOutcome{Structured: true, Candidates: candidates, RawText: raw}
}

// Normalize は解析結果を一様な候補列に整えます。
// 構造化されていない場合は、原文全体を medium 確信度の候補1件として包みます。
func (o ParseOutcome) Normalize() []domain.Candidate {
	if !o.Structured {
		if o.RawText == "" {
			return nil
		}
		return []domain.Candidate{{Description: o.RawText, Confidence: domain.ConfidenceMedium}}
	}

	var out []domain.Candidate
	for _, c := range o.Candidates {
		desc := strings.TrimSpace(c.Description)
		if desc == "" {
			continue
		}
		out = append(out, domain.Candidate{
			Description: desc,
			Confidence:  domain.NormalizeConfidence(c.Confidence),
		})
		if len(out) == MaxCandidates {
			break
		}
	}
	return out
}
