// Package generator は画像生成サービスへの唯一の窓口（ゲートウェイ）です。
// アスペクト比とサンプル数はプロセス全体で固定し、ウォーターマークと
// プロンプト自動補正は常に無効化します。どちらもシードによる再現性を
// 壊すことが公式ドキュメントに明記されているためです。
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-cinegen-kit/pkg/asset"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ImagenClient は Imagen API との通信を抽象化するインターフェースです。
type ImagenClient interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Gateway は固定パラメータで画像生成を実行し、結果を永続化します。
type Gateway struct {
	client  ImagenClient
	assets  *asset.Manager
	limiter *rate.Limiter
	model   string
}

// NewGateway は依存関係を注入して Gateway を初期化します。
func NewGateway(client ImagenClient, assets *asset.Manager, limiter *rate.Limiter, model string) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("client (ImagenClient) is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("assets (asset.Manager) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Gateway{
		client:  client,
		assets:  assets,
		limiter: limiter,
		model:   model,
	}, nil
}

// Generate は1枚の画像を生成して req.Destination に保存します。
// リモート呼び出しの失敗は1行ログに記録し、明示的な失敗値として返します。
// 自動リトライは行いません。再試行は常に操作者の判断です。
func (g *Gateway) Generate(ctx context.Context, req Request) *Result {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			slog.Error("画像生成の待機が中断されました", "error", err)
			return failure("生成呼び出しの待機が中断されました")
		}
	}

	slog.Info("画像生成リクエストを送信します",
		"model", g.model,
		"seed", req.Seed,
		"aspect_ratio", FixedAspectRatio,
		"destination", req.Destination)

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: FixedSampleCount,
		AspectRatio:    FixedAspectRatio,
		Seed:           seedToPtrInt32(req.Seed),
		NegativePrompt: req.NegativePrompt,
		// シード固定による再現性の前提条件。ここは外部サービスとの契約であり、
		// 設定可能なオプションではありません。
		AddWatermark:  false,
		EnhancePrompt: false,
	}

	resp, err := g.client.GenerateImages(ctx, g.model, req.Prompt, cfg)
	if err != nil {
		slog.Error("画像生成に失敗しました", "model", g.model, "error", err)
		return failure(fmt.Sprintf("画像生成サービスの呼び出しに失敗しました: %v", err))
	}

	image, err := extractImage(resp, req.Seed)
	if err != nil {
		slog.Error("生成レスポンスに画像が含まれていません", "model", g.model, "error", err)
		return failure("生成サービスの応答から画像を取り出せませんでした")
	}

	savedPath, err := g.assets.SaveImage(ctx, req.Destination, image.Data, image.MimeType)
	if err != nil {
		slog.Error("生成画像の保存に失敗しました", "destination", req.Destination, "error", err)
		return failure(fmt.Sprintf("画像の保存に失敗しました: %v", err))
	}

	slog.Info("画像を保存しました", "path", savedPath, "seed", req.Seed)
	return &Result{Image: image, SavedPath: savedPath}
}

// extractImage はレスポンスの先頭画像をドメインモデルに写し替えます。
func extractImage(resp *genai.GenerateImagesResponse, seed int64) (*imagedom.ImageResponse, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	generated := resp.GeneratedImages[0]
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		if generated.RAIFilteredReason != "" {
			return nil, fmt.Errorf("image filtered: %s", generated.RAIFilteredReason)
		}
		return nil, fmt.Errorf("no image data")
	}
	return &imagedom.ImageResponse{
		Data:     generated.Image.ImageBytes,
		MimeType: generated.Image.MIMEType,
		UsedSeed: seed,
	}, nil
}
