package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-cinegen-kit/internal/builder"
	"github.com/shouni/go-cinegen-kit/internal/config"
	"github.com/shouni/go-cinegen-kit/internal/shell"

	"github.com/spf13/cobra"
)

// sessionCmd は対話セッションを開始します。
// キャラクター識別情報はセッションの生存期間だけ保持され、終了とともに破棄されます。
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "対話セッションを開始します。",
	Long: `番号付きメニューから、キャラクターの作成・参照画像からの作成・
シーン生成・一覧表示を実行します。キャラクター一覧はこの実行のあいだのみ有効です。`,
	RunE: sessionCommand,
}

func sessionCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("対話セッションを起動します",
		"image_model", cfg.Options.ImageModel,
		"vision_model", cfg.Options.VisionModel,
		"output_dir", cfg.Options.OutputDir)

	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗しました: %w", err)
	}

	session, err := builder.BuildSession(appCtx)
	if err != nil {
		return fmt.Errorf("セッションの構築に失敗しました: %w", err)
	}

	sh, err := shell.New(os.Stdin, os.Stdout, session)
	if err != nil {
		return err
	}

	return sh.Run(ctx)
}
