package generator

import (
	"log/slog"
	"math"
)

// seedToPtrInt32 はドメインの int64 シードを SDK 用の *int32 に変換します。
// Imagen API は int32 を期待しているための調整です。
func seedToPtrInt32(seed int64) *int32 {
	if seed > math.MaxInt32 {
		slog.Warn("シード値がint32の最大値を超えているため、切り捨てられます",
			"original_seed", seed, "max_value", math.MaxInt32)
		seed = seed & math.MaxInt32
	}
	v := int32(seed)
	return &v
}
