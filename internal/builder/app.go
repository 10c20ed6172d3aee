package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-cinegen-kit/internal/config"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持します。
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config *config.Config // 環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）
	Reader remoteio.InputReader
	Writer remoteio.OutputWriter

	httpClient  httpkit.ClientInterface
	aiClient    gemini.GenerativeModel
	genaiClient *genai.Client
	cache       *cache.Cache
}

// NewAppContext は共有クライアント群を一度だけ初期化して AppContext を返します。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	aiClient, err := initializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成クライアントの初期化に失敗しました: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	return &AppContext{
		Config:      cfg,
		Reader:      reader,
		Writer:      writer,
		httpClient:  httpClient,
		aiClient:    aiClient,
		genaiClient: genaiClient,
		cache:       cache.New(config.DefaultCacheTTL, 2*config.DefaultCacheTTL),
	}, nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}
