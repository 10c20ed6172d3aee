package generator

const (
	// FixedAspectRatio は全生成呼び出しで固定のアスペクト比です。
	// 出力のフレーミングを揃えるため、呼び出しごとの変更は許可しません。
	FixedAspectRatio = "16:9"
	// FixedSampleCount は1回の呼び出しで要求する画像数です。常に1枚です。
	FixedSampleCount = 1
)

// Request は画像生成1回分の要求です。
// シードの出どころ（新規 or 既存キャラクターの保存値）は呼び出し側が決めます。
type Request struct {
	Prompt         string
	Seed           int64
	NegativePrompt string
	Destination    string // ベースディレクトリからの相対保存パス
}
