package generator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shouni/go-cinegen-kit/pkg/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGateway(t *testing.T, client ImagenClient, writer *mockWriter) *Gateway {
	t.Helper()
	assets, err := asset.NewManager(writer, "output")
	require.NoError(t, err)

	g, err := NewGateway(client, assets, nil, "imagen-4.0-ultra-generate-001")
	require.NoError(t, err)
	return g
}

func TestGateway_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("固定パラメータが常に設定されること", func(t *testing.T) {
		client := &mockImagenClient{}
		writer := &mockWriter{}
		g := newTestGateway(t, client, writer)

		result := g.Generate(ctx, Request{
			Prompt:         "cinematic portrait. a tall woman",
			Seed:           777,
			NegativePrompt: "blurry",
			Destination:    "characters/Ava_portrait.png",
		})

		require.True(t, result.OK(), "failure reason: %s", result.FailureReason)
		require.NotNil(t, client.lastConfig)

		cfg := client.lastConfig
		assert.EqualValues(t, FixedSampleCount, cfg.NumberOfImages)
		assert.Equal(t, FixedAspectRatio, cfg.AspectRatio)
		assert.False(t, cfg.AddWatermark, "ウォーターマークは常に無効であること")
		assert.False(t, cfg.EnhancePrompt, "プロンプト自動補正は常に無効であること")
		assert.Equal(t, "blurry", cfg.NegativePrompt)
		require.NotNil(t, cfg.Seed)
		assert.EqualValues(t, 777, *cfg.Seed)
		assert.Equal(t, "cinematic portrait. a tall woman", client.lastPrompt)
	})

	t.Run("成功時に画像が保存先へ永続化されること", func(t *testing.T) {
		client := &mockImagenClient{}
		writer := &mockWriter{}
		g := newTestGateway(t, client, writer)

		result := g.Generate(ctx, Request{Prompt: "p", Seed: 1, Destination: "scenes/Ava_scene_123.png"})

		require.True(t, result.OK())
		require.Len(t, writer.paths, 1)
		assert.Contains(t, writer.paths[0], "Ava_scene_123.png")
		assert.Equal(t, []byte("fake-png"), writer.data[0])
		assert.Equal(t, writer.paths[0], result.SavedPath)
		assert.Equal(t, []byte("fake-png"), result.Image.Data)
		assert.EqualValues(t, 1, result.Image.UsedSeed)
	})

	t.Run("リモート失敗は明示的な失敗値になり、リトライしないこと", func(t *testing.T) {
		client := &mockImagenClient{
			generateFunc: func(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		writer := &mockWriter{}
		g := newTestGateway(t, client, writer)

		result := g.Generate(ctx, Request{Prompt: "p", Seed: 1, Destination: "d.png"})

		assert.False(t, result.OK())
		assert.NotEmpty(t, result.FailureReason)
		assert.Equal(t, 1, client.calls, "自動リトライは行わないこと")
		assert.Empty(t, writer.paths, "失敗時に書き込みが発生しないこと")
	})

	t.Run("画像を含まない応答は失敗として扱われること", func(t *testing.T) {
		client := &mockImagenClient{
			generateFunc: func(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
				return &genai.GenerateImagesResponse{}, nil
			},
		}
		g := newTestGateway(t, client, &mockWriter{})

		result := g.Generate(ctx, Request{Prompt: "p", Seed: 1, Destination: "d.png"})
		assert.False(t, result.OK())
	})

	t.Run("保存失敗も明示的な失敗値になること", func(t *testing.T) {
		client := &mockImagenClient{}
		writer := &mockWriter{err: errors.New("disk full")}
		g := newTestGateway(t, client, writer)

		result := g.Generate(ctx, Request{Prompt: "p", Seed: 1, Destination: "d.png"})
		assert.False(t, result.OK())
		assert.NotEmpty(t, result.FailureReason)
	})
}

func TestNewGateway(t *testing.T) {
	t.Run("依存関係が足りない場合はエラーを返すこと", func(t *testing.T) {
		assets, err := asset.NewManager(&mockWriter{}, "output")
		require.NoError(t, err)

		_, err = NewGateway(nil, assets, nil, "model")
		assert.Error(t, err)

		_, err = NewGateway(&mockImagenClient{}, nil, nil, "model")
		assert.Error(t, err)

		_, err = NewGateway(&mockImagenClient{}, assets, nil, "")
		assert.Error(t, err)
	})
}

func TestSeedToPtrInt32(t *testing.T) {
	t.Run("int32範囲内の値はそのまま変換されること", func(t *testing.T) {
		p := seedToPtrInt32(12345)
		require.NotNil(t, p)
		assert.EqualValues(t, 12345, *p)
	})

	t.Run("int32を超える値は非負の範囲へ畳み込まれること", func(t *testing.T) {
		p := seedToPtrInt32(int64(math.MaxInt32) + 10)
		require.NotNil(t, p)
		assert.GreaterOrEqual(t, *p, int32(0))
	})
}
