// Package workflow は、1回の対話セッションにおけるキャラクター作成と
// シーン生成の2つのワークフローを編成します。セッションが保持する
// キャラクター列は追記専用で、挿入順がそのまま1始まりの選択番号になります。
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/shouni/go-cinegen-kit/pkg/asset"
	"github.com/shouni/go-cinegen-kit/pkg/domain"
	"github.com/shouni/go-cinegen-kit/pkg/generator"
	"github.com/shouni/go-cinegen-kit/pkg/prompt"
)

// ImageGateway は画像生成の唯一の窓口です。
type ImageGateway interface {
	Generate(ctx context.Context, req generator.Request) *generator.Result
}

// CandidateExtractor は参照画像から識別情報の候補を導出します。
type CandidateExtractor interface {
	ExtractCandidates(ctx context.Context, imagePath string) ([]domain.Candidate, error)
}

// CharacterInput はキャラクター作成ワークフローへの生の入力です。
type CharacterInput struct {
	Name           string
	Description    string
	NegativePrompt string
}

// Session は1回の対話実行のあいだキャラクター識別情報を所有します。
// プロセス終了とともに破棄され、再現性はシード値の記録のみに依存します。
type Session struct {
	gateway    ImageGateway
	extractor  CandidateExtractor
	prompts    *prompt.Builder
	characters []domain.CharacterPackage
	drawSeed   func() int64
	drawSceneN func() int
}

// Args は Session の構築に必要な依存関係です。
type Args struct {
	Gateway   ImageGateway
	Extractor CandidateExtractor
	Prompts   *prompt.Builder
	// DrawSeed はテスト用に差し替え可能なシード供給源です。
	// nil の場合は [0, 2^32−1] の一様乱数を使います。
	DrawSeed func() int64
}

// NewSession は空のキャラクター列を持つ Session を初期化します。
func NewSession(args Args) (*Session, error) {
	if args.Gateway == nil {
		return nil, fmt.Errorf("gateway は必須です")
	}
	if args.Prompts == nil {
		args.Prompts = prompt.NewBuilder("")
	}
	drawSeed := args.DrawSeed
	if drawSeed == nil {
		drawSeed = func() int64 { return rand.Int64N(domain.MaxSeed + 1) }
	}

	return &Session{
		gateway:    args.Gateway,
		extractor:  args.Extractor,
		prompts:    args.Prompts,
		drawSeed:   drawSeed,
		drawSceneN: func() int { return rand.IntN(900) + 100 },
	}, nil
}

// CreateCharacter は Stage 1（キャラクター定義とシード確定）を実行します。
// 検証 → シード採番 → ポートレート生成の順で進み、生成が成功した場合のみ
// キャラクターをセッションに追加します。失敗時はセッション状態を変更しません。
func (s *Session) CreateCharacter(ctx context.Context, input CharacterInput) (domain.CharacterPackage, error) {
	// シードは受理された入力に対してのみ採番します
	if err := domain.ValidateIdentity(input.Name, input.Description, input.NegativePrompt); err != nil {
		return domain.CharacterPackage{}, err
	}
	seed := s.drawSeed()

	pkg, err := domain.NewCharacterPackage(input.Name, input.Description, input.NegativePrompt, seed)
	if err != nil {
		return domain.CharacterPackage{}, err
	}

	result := s.gateway.Generate(ctx, generator.Request{
		Prompt:         s.prompts.BuildPortrait(pkg.Description),
		Seed:           pkg.Seed,
		NegativePrompt: pkg.NegativePrompt,
		Destination:    asset.PortraitFileName(pkg.Name),
	})
	if !result.OK() {
		return domain.CharacterPackage{}, fmt.Errorf("ポートレート生成に失敗したため、キャラクターは作成されませんでした: %s", result.FailureReason)
	}

	s.characters = append(s.characters, pkg)
	slog.Info("キャラクターを作成しました",
		"name", pkg.Name, "seed", pkg.Seed, "portrait", result.SavedPath)
	return pkg, nil
}

// ExtractCandidates は参照画像から候補を導出します。候補の昇格は
// 必ず CreateCharacter を経由するため、手入力と同じ検証・採番規律に従います。
func (s *Session) ExtractCandidates(ctx context.Context, imagePath string) ([]domain.Candidate, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("参照画像からの抽出は現在の構成では利用できません")
	}
	return s.extractor.ExtractCandidates(ctx, imagePath)
}

// GenerateScene は Stage 2（シーン合成）を実行します。
// 選択番号は1始まりで、保存済みのシード値とネガティブプロンプトを
// そのまま再利用します。成否にかかわらずキャラクター列は変化しません。
func (s *Session) GenerateScene(ctx context.Context, index int, sceneText string) (string, error) {
	char, err := s.Character(index)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sceneText) == "" {
		return "", fmt.Errorf("シーンの説明が空です。動作や環境を入力してください")
	}

	result := s.gateway.Generate(ctx, generator.Request{
		Prompt:         s.prompts.BuildScene(char.Description, sceneText),
		Seed:           char.Seed,
		NegativePrompt: char.NegativePrompt,
		Destination:    asset.SceneFileName(char.Name, s.drawSceneN()),
	})
	if !result.OK() {
		return "", fmt.Errorf("シーン生成に失敗しました: %s", result.FailureReason)
	}

	slog.Info("シーンを生成しました", "character", char.Name, "seed", char.Seed, "path", result.SavedPath)
	return result.SavedPath, nil
}

// Character は1始まりの選択番号からキャラクターを引き当てます。
// 範囲外の番号は副作用なしで拒否されます。
func (s *Session) Character(index int) (domain.CharacterPackage, error) {
	if len(s.characters) == 0 {
		return domain.CharacterPackage{}, fmt.Errorf("このセッションにはまだキャラクターがありません。先にキャラクターを作成してください")
	}
	if index < 1 || index > len(s.characters) {
		return domain.CharacterPackage{}, fmt.Errorf("選択番号 %d は範囲外です（1〜%d）", index, len(s.characters))
	}
	return s.characters[index-1], nil
}

// Characters はセッション内のキャラクター一覧のコピーを挿入順で返します。
func (s *Session) Characters() []domain.CharacterPackage {
	out := make([]domain.CharacterPackage, len(s.characters))
	copy(out, s.characters)
	return out
}
