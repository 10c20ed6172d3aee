package generator

import (
	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// Result は生成呼び出しの明示的な成否です。
// リモートSDKの生のエラーオブジェクトは呼び出し側に伝播させず、
// 失敗は人間可読な理由として保持します。
type Result struct {
	Image         *imagedom.ImageResponse // 成功時のみ非nil
	SavedPath     string                  // 永続化された画像のフルパス
	FailureReason string                  // 失敗時のみ非空
}

// OK は生成と保存の両方が成功したかどうかを返します。
func (r *Result) OK() bool {
	return r != nil && r.FailureReason == "" && r.Image != nil
}

func failure(reason string) *Result {
	return &Result{FailureReason: reason}
}
