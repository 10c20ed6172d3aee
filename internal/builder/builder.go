package builder

import (
	"fmt"

	"github.com/shouni/go-cinegen-kit/internal/config"
	"github.com/shouni/go-cinegen-kit/pkg/asset"
	"github.com/shouni/go-cinegen-kit/pkg/extract"
	"github.com/shouni/go-cinegen-kit/pkg/generator"
	"github.com/shouni/go-cinegen-kit/pkg/prompt"
	"github.com/shouni/go-cinegen-kit/pkg/workflow"

	"golang.org/x/time/rate"
)

const defaultRateBurst = 1

// BuildSession は、対話セッション1回分のオーケストレーターを構築します。
// キャラクター列は空の状態から始まります。
func BuildSession(appCtx *AppContext) (*workflow.Session, error) {
	gateway, err := buildGateway(appCtx)
	if err != nil {
		return nil, fmt.Errorf("生成ゲートウェイの初期化に失敗しました: %w", err)
	}

	extractor, err := buildExtractor(appCtx)
	if err != nil {
		return nil, fmt.Errorf("抽出パイプラインの初期化に失敗しました: %w", err)
	}

	return workflow.NewSession(workflow.Args{
		Gateway:   gateway,
		Extractor: extractor,
		Prompts:   prompt.NewBuilder(appCtx.Config.PortraitPrefix),
	})
}

// buildGateway は Imagen への唯一の窓口を初期化します。
// 課金呼び出しの連打を避けるため、レートリミッターを常に挟みます。
func buildGateway(appCtx *AppContext) (*generator.Gateway, error) {
	assets, err := asset.NewManager(appCtx.Writer, appCtx.Config.Options.OutputDir)
	if err != nil {
		return nil, err
	}

	interval := appCtx.Config.Options.RateInterval
	if interval <= 0 {
		interval = config.DefaultRateInterval
	}

	return generator.NewGateway(
		generator.NewImagenClient(appCtx.genaiClient),
		assets,
		rate.NewLimiter(rate.Every(interval), defaultRateBurst),
		appCtx.Config.Options.ImageModel,
	)
}

// buildExtractor は参照画像の解析パイプラインを初期化します。
func buildExtractor(appCtx *AppContext) (*extract.Extractor, error) {
	return extract.NewExtractor(
		appCtx.aiClient,
		appCtx.Reader,
		appCtx.httpClient,
		appCtx.cache,
		appCtx.Config.Options.VisionModel,
		config.DefaultCacheTTL,
	)
}
