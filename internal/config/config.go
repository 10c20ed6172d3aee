package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-cinegen-kit/pkg/prompt"
)

// デフォルト値の定義
const (
	DefaultImageModel   = "imagen-4.0-ultra-generate-001"
	DefaultVisionModel  = "gemini-3-flash-preview"
	DefaultOutputDir    = "output"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateInterval = 10 * time.Second
	DefaultCacheTTL     = 30 * time.Minute
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体です。
type Config struct {
	GeminiAPIKey   string
	ImageModel     string // 画像生成（Imagen）用のモデル名
	VisionModel    string // 参照画像解析（Gemini）用のモデル名
	PortraitPrefix string // ポートレート生成に前置する品質修飾句

	Options SessionOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返します。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:   envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageModel:     envutil.GetEnv("IMAGE_MODEL", DefaultImageModel),
		VisionModel:    envutil.GetEnv("VISION_MODEL", DefaultVisionModel),
		PortraitPrefix: envutil.GetEnv("PORTRAIT_PROMPT_PREFIX", prompt.DefaultPortraitPrefix),
	}
}

// SessionOptions は CLI フラグから渡される実行時のパラメータです。
type SessionOptions struct {
	OutputDir   string // --output-dir: 生成画像の保存先（ローカル or gs://...）
	ImageModel  string // --image-model
	VisionModel string // --vision-model

	HTTPTimeout  time.Duration // --http-timeout
	RateInterval time.Duration // --rate-interval: 生成呼び出しの最小間隔
}
