package domain

import (
	"fmt"

	"github.com/shouni/go-cinegen-kit/pkg/validate"
)

// MaxSeed はシード値の上限です。Imagen API が受け付ける符号なし32bitの範囲に合わせています。
const MaxSeed = int64(1)<<32 - 1

// CharacterPackage は、独立した生成呼び出しをまたいで同一キャラクターを
// 再現するための識別情報一式を保持します。
// 一度構築されたら不変です。「編集」は破棄して作り直すことを意味します。
type CharacterPackage struct {
	Name           string `json:"name"`
	Description    string `json:"description"`     // すべてのプロンプトに連結される外見の正準テキスト
	Seed           int64  `json:"seed"`            // 生成時の一貫性を保つためのシード値（構築時に一度だけ確定）
	NegativePrompt string `json:"negative_prompt"` // 抑制したい要素。シーン生成にもそのまま引き継がれる
}

// ValidateIdentity は識別情報の3要素をまとめて検査します。
// シード採番などのコストが掛かる処理の前段で呼び出せます。
func ValidateIdentity(name, description, negativePrompt string) error {
	if ok, reason := validate.CharacterName(name); !ok {
		return fmt.Errorf("キャラクター名が不正です: %s", reason)
	}
	if ok, reason := validate.Description(description); !ok {
		return fmt.Errorf("キャラクター説明が不正です: %s", reason)
	}
	if ok, reason := validate.NegativePrompt(negativePrompt); !ok {
		return fmt.Errorf("ネガティブプロンプトが不正です: %s", reason)
	}
	return nil
}

// NewCharacterPackage は検証済みの入力とシード値から CharacterPackage を構築します。
// これが唯一の構築経路であり、保持されるすべての識別情報が生成可能であることを保証します。
func NewCharacterPackage(name, description, negativePrompt string, seed int64) (CharacterPackage, error) {
	if err := ValidateIdentity(name, description, negativePrompt); err != nil {
		return CharacterPackage{}, err
	}
	if seed < 0 || seed > MaxSeed {
		return CharacterPackage{}, fmt.Errorf("シード値 %d は [0, %d] の範囲外です", seed, MaxSeed)
	}

	return CharacterPackage{
		Name:           name,
		Description:    description,
		Seed:           seed,
		NegativePrompt: negativePrompt,
	}, nil
}

// String はキャラクターの一覧表示用の文字列を返します。説明は先頭70文字に切り詰めます。
func (c CharacterPackage) String() string {
	return fmt.Sprintf("'%s': %s", c.Name, truncate(c.Description, 70))
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
