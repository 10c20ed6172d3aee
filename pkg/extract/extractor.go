// Package extract は、アップロードされた参照画像からキャラクター識別情報の
// 候補を導出するパイプラインです。候補はあくまで候補であり、
// CharacterPackage への昇格は必ず検証とポートレート生成を経由します。
package extract

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-cinegen-kit/pkg/domain"

	"github.com/shouni/gemini-image-kit/imgutil"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

const (
	// MaxReferenceBytes は参照画像の最大サイズ（10 MB）です。
	MaxReferenceBytes = 10 * 1024 * 1024
	// compressionQuality はビジョン呼び出し前のJPEG圧縮品質です。
	compressionQuality = 75
	// cacheKeyCandidates は抽出結果キャッシュのキープレフィックスです。
	cacheKeyCandidates = "ref_candidates:"
)

//go:embed instruction.md
var describeInstruction string

// allowedExtensions は受け付ける参照画像の拡張子です。
var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {},
}

// Cacher は抽出結果をキャッシュするためのインターフェースです。
type Cacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// Extractor は参照画像をビジョンモデルに渡し、候補列へ正規化します。
type Extractor struct {
	aiClient   gemini.GenerativeModel
	reader     remoteio.InputReader
	httpClient httpkit.ClientInterface
	cache      Cacher
	model      string
	expiration time.Duration
}

// NewExtractor は依存関係を注入して Extractor を初期化します。
// cache は nil を許容します（キャッシュなし動作）。
func NewExtractor(
	aiClient gemini.GenerativeModel,
	reader remoteio.InputReader,
	httpClient httpkit.ClientInterface,
	cache Cacher,
	model string,
	cacheTTL time.Duration,
) (*Extractor, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &Extractor{
		aiClient:   aiClient,
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		model:      model,
		expiration: cacheTTL,
	}, nil
}

// ExtractCandidates は参照画像から最大 MaxCandidates 件の候補を導出します。
// 事前条件違反はリモート呼び出しの前にエラーとして返します。
// リモート呼び出し自体の失敗は「候補なし」と同義であり、空の候補列を返します。
func (e *Extractor) ExtractCandidates(ctx context.Context, imagePath string) ([]domain.Candidate, error) {
	if err := validateReference(imagePath); err != nil {
		return nil, err
	}

	if e.cache != nil {
		if val, ok := e.cache.Get(cacheKeyCandidates + imagePath); ok {
			if cached, ok := val.([]domain.Candidate); ok {
				slog.Info("抽出結果をキャッシュから返します", "path", imagePath)
				return cached, nil
			}
		}
	}

	data, err := e.fetchImageData(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
	}
	if len(data) > MaxReferenceBytes {
		return nil, fmt.Errorf("参照画像が大きすぎます（%dバイト、最大%dバイト）。縮小してから再度指定してください", len(data), MaxReferenceBytes)
	}

	candidates, ok := e.describe(ctx, data)

	// 失敗した呼び出しはキャッシュしません。再試行は常に利用者の判断であり、
	// 次の呼び出しは必ずリモートに到達します。
	if ok && e.cache != nil {
		e.cache.Set(cacheKeyCandidates+imagePath, candidates, e.expiration)
	}
	return candidates, nil
}

// describe はビジョンモデルを呼び出し、応答を候補列に正規化します。
// 2番目の戻り値はリモート呼び出しが成功したかどうかを示します。
func (e *Extractor) describe(ctx context.Context, data []byte) ([]domain.Candidate, bool) {
	// 転送量を抑えるため、可能であればJPEGへ圧縮してから送ります
	payload := data
	if compressed, err := imgutil.CompressToJPEG(bytes.NewReader(data), compressionQuality); err == nil {
		payload = compressed
	}

	parts := []*genai.Part{
		{Text: describeInstruction},
		{InlineData: &genai.Blob{MIMEType: http.DetectContentType(payload), Data: payload}},
	}

	slog.Info("参照画像の解析リクエストを送信します", "model", e.model, "payload_bytes", len(payload))
	resp, err := e.aiClient.GenerateWithParts(ctx, e.model, parts, gemini.GenerateOptions{})
	if err != nil {
		// 呼び出し側は「モデルが何も見つけなかった」のと同じに扱います
		slog.Error("参照画像の解析に失敗しました", "model", e.model, "error", err)
		return []domain.Candidate{}, false
	}

	candidates := ParseResponse(resp.Text).Normalize()
	slog.Info("候補の抽出が完了しました", "count", len(candidates))
	return candidates, true
}

// fetchImageData は参照元に応じた読み込みを行います。
// http(s) は HTTP クライアント、gs:// とローカルパスはリーダー経由です。
func (e *Extractor) fetchImageData(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return e.httpClient.FetchBytes(ctx, path)
	}

	rc, err := e.reader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// validateReference は、コストの掛かるリモート呼び出しの前に
// 参照画像の事前条件を検査します。
func validateReference(imagePath string) error {
	if strings.TrimSpace(imagePath) == "" {
		return fmt.Errorf("参照画像のパスが空です")
	}

	ext := strings.ToLower(filepath.Ext(imagePath))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("拡張子 %q は未対応です。jpg / jpeg / png / webp のいずれかを指定してください", ext)
	}

	// リモート参照のサイズは取得後に検査します
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") ||
		strings.HasPrefix(strings.ToLower(imagePath), "gs://") {
		return nil
	}

	info, err := os.Stat(imagePath)
	if err != nil {
		return fmt.Errorf("参照画像 %q が見つかりません。パスを確認してください", imagePath)
	}
	if info.Size() > MaxReferenceBytes {
		return fmt.Errorf("参照画像が大きすぎます（%dバイト、最大%dバイト）。縮小してから再度指定してください", info.Size(), MaxReferenceBytes)
	}
	return nil
}
