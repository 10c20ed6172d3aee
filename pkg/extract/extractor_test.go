package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-cinegen-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, ai *mockAIClient, cache Cacher) *Extractor {
	t.Helper()
	e, err := NewExtractor(ai, &mockReader{data: []byte("fake-image")}, &mockHTTPClient{}, cache, "gemini-3-flash-preview", time.Hour)
	require.NoError(t, err)
	return e
}

// writeTempImage は事前条件検査を通過するダミーの参照画像を作ります。
func writeTempImage(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	return path
}

func TestExtractor_ExtractCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("構造化応答から候補が返ること", func(t *testing.T) {
		ai := &mockAIClient{response: textResponse(`[{"description": "a tall woman with red hair", "confidence": "high"}]`)}
		e := newTestExtractor(t, ai, nil)

		candidates, err := e.ExtractCandidates(ctx, writeTempImage(t, "ref.png", 64))

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, domain.ConfidenceHigh, candidates[0].Confidence)
		assert.Equal(t, 1, ai.calls)

		// 指示テキストと画像ペイロードの2パーツが送られること
		require.Len(t, ai.lastParts, 2)
		assert.NotEmpty(t, ai.lastParts[0].Text)
		require.NotNil(t, ai.lastParts[1].InlineData)
	})

	t.Run("リモート失敗は候補なしとして返り、エラーにならないこと", func(t *testing.T) {
		ai := &mockAIClient{err: errors.New("service unavailable")}
		e := newTestExtractor(t, ai, nil)

		candidates, err := e.ExtractCandidates(ctx, writeTempImage(t, "ref.jpg", 64))

		require.NoError(t, err, "リモート失敗はエラーとして伝播しないこと")
		assert.Empty(t, candidates)
	})

	t.Run("存在しないファイルはリモート呼び出しの前に拒否されること", func(t *testing.T) {
		ai := &mockAIClient{}
		e := newTestExtractor(t, ai, nil)

		_, err := e.ExtractCandidates(ctx, filepath.Join(t.TempDir(), "missing.png"))

		assert.Error(t, err)
		assert.Equal(t, 0, ai.calls, "事前条件違反でリモート呼び出しが発生しました")
	})

	t.Run("未対応の拡張子はリモート呼び出しの前に拒否されること", func(t *testing.T) {
		ai := &mockAIClient{}
		e := newTestExtractor(t, ai, nil)

		_, err := e.ExtractCandidates(ctx, writeTempImage(t, "ref.gif", 64))

		assert.Error(t, err)
		assert.Equal(t, 0, ai.calls)
	})

	t.Run("10MBを超えるファイルはリモート呼び出しの前に拒否されること", func(t *testing.T) {
		ai := &mockAIClient{}
		e := newTestExtractor(t, ai, nil)

		_, err := e.ExtractCandidates(ctx, writeTempImage(t, "big.png", MaxReferenceBytes+1))

		assert.Error(t, err)
		assert.Equal(t, 0, ai.calls)
	})

	t.Run("失敗結果はキャッシュされず、再試行は必ずリモートに到達すること", func(t *testing.T) {
		ai := &mockAIClient{err: errors.New("service unavailable")}
		cache := &mockCache{data: make(map[string]any)}
		e := newTestExtractor(t, ai, cache)
		path := writeTempImage(t, "retry.png", 64)

		candidates, err := e.ExtractCandidates(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, candidates)
		assert.Equal(t, 1, ai.calls)

		// サービスが回復した後の再試行は新しい結果を返すこと
		ai.err = nil
		ai.response = textResponse(`[{"description": "a tall woman with red hair", "confidence": "high"}]`)

		candidates, err = e.ExtractCandidates(ctx, path)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, 2, ai.calls, "失敗結果がキャッシュされ、再試行がリモートに到達していません")

		// 成功結果はキャッシュされ、以降の呼び出しはリモートに到達しないこと
		candidates, err = e.ExtractCandidates(ctx, path)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, 2, ai.calls)
	})

	t.Run("キャッシュがある場合はリモート呼び出しをスキップすること", func(t *testing.T) {
		ai := &mockAIClient{}
		cache := &mockCache{data: make(map[string]any)}
		e := newTestExtractor(t, ai, cache)

		path := writeTempImage(t, "cached.png", 64)
		cached := []domain.Candidate{{Description: "from cache", Confidence: domain.ConfidenceLow}}
		cache.Set(cacheKeyCandidates+path, cached, time.Hour)

		candidates, err := e.ExtractCandidates(ctx, path)

		require.NoError(t, err)
		assert.Equal(t, cached, candidates)
		assert.Equal(t, 0, ai.calls)
	})

	t.Run("自由テキスト応答は medium 候補1件に縮退すること", func(t *testing.T) {
		raw := "A young detective in a trench coat, sharp eyes."
		ai := &mockAIClient{response: textResponse(raw)}
		e := newTestExtractor(t, ai, nil)

		candidates, err := e.ExtractCandidates(ctx, writeTempImage(t, "ref.webp", 64))

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, raw, candidates[0].Description)
		assert.Equal(t, domain.ConfidenceMedium, candidates[0].Confidence)
	})
}

func TestNewExtractor(t *testing.T) {
	t.Run("依存関係が足りない場合はエラーを返すこと", func(t *testing.T) {
		_, err := NewExtractor(nil, &mockReader{}, &mockHTTPClient{}, nil, "m", time.Hour)
		assert.Error(t, err)

		_, err = NewExtractor(&mockAIClient{}, nil, &mockHTTPClient{}, nil, "m", time.Hour)
		assert.Error(t, err)

		_, err = NewExtractor(&mockAIClient{}, &mockReader{}, nil, nil, "m", time.Hour)
		assert.Error(t, err)

		_, err = NewExtractor(&mockAIClient{}, &mockReader{}, &mockHTTPClient{}, nil, "", time.Hour)
		assert.Error(t, err)
	})
}
