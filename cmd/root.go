package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-cinegen-kit/internal/config"

	"github.com/spf13/cobra"
)

var opts config.SessionOptions

var rootCmd = &cobra.Command{
	Use:   "cinegen",
	Short: "シード再利用によるキャラクター一貫性付きの画像生成ツールです。",
	Long: `CineGen は、同一キャラクターを複数のシーンにわたって描き分けるための対話ツールです。
ポートレート生成時に確定したシード値をすべてのシーン生成で再利用することで、
独立した生成呼び出しのあいだでキャラクターの見た目を揃えます。`,
	PersistentPreRunE: preRunAppE,
	SilenceUsage:      true,
}

func init() {
	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）です。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Imagen モデル名です。")
	rootCmd.PersistentFlags().StringVar(&opts.VisionModel, "vision-model", config.DefaultVisionModel, "参照画像の解析に使用する Gemini モデル名です。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトです。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "生成呼び出しの最小間隔です。")

	rootCmd.AddCommand(sessionCmd)
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行います。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// 画像生成とビジョン解析の両方でAPIキーが必須です
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。生成APIの利用には必須です")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントです。
// main.go から呼び出されて、cobra のコマンドライン解析を開始します。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
