// Package prompt は、キャラクター識別情報からポートレートおよび
// シーン用の生成プロンプトを組み立てます。
package prompt

import "strings"

// DefaultPortraitPrefix はポートレート生成に前置する品質修飾句です。
// シード再利用と組み合わせることで、後続シーンの照合元となる基準画像を安定させます。
const DefaultPortraitPrefix = "cinematic portrait, high detail, studio lighting. "

// Builder はポートレート/シーンのプロンプトを構築します。
type Builder struct {
	portraitPrefix string
}

// NewBuilder は新しい Builder を生成します。prefix が空の場合はデフォルトを使います。
func NewBuilder(portraitPrefix string) *Builder {
	if portraitPrefix == "" {
		portraitPrefix = DefaultPortraitPrefix
	}
	return &Builder{portraitPrefix: portraitPrefix}
}

// BuildPortrait は検証済みの説明文からポートレート用プロンプトを構築します。
func (b *Builder) BuildPortrait(description string) string {
	return b.portraitPrefix + strings.TrimSpace(description)
}

// BuildScene は保存済みの説明文とシーン指示を連結します。
// 説明文が常に先頭に来ることで、キャラクターの同一性がシーンごとの指示に埋もれないようにします。
func (b *Builder) BuildScene(description, sceneText string) string {
	return strings.TrimSpace(description) + ". " + strings.TrimSpace(sceneText)
}
