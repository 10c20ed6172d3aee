// Package asset は生成画像の保存パス解決と永続化を管理します。
// 保存先はローカルディレクトリと gs:// の両方に対応します。
package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	// CharactersDirName はポートレート画像のサブディレクトリ名です。
	CharactersDirName = "characters"
	// ScenesDirName はシーン画像のサブディレクトリ名です。
	ScenesDirName = "scenes"
)

// defaultImageMIMEType は呼び出し側がMIMEタイプを持たない場合の既定値です。
const defaultImageMIMEType = "image/png"

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
// remoteio.OutputWriter がそのまま適合します。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// Manager は生成物の保存パスと永続化を管理します。
type Manager struct {
	writer  OutputWriter
	baseDir string // 保存先のベースディレクトリ (例: "output/session-001")
}

// NewManager は書き込み先とベースディレクトリを指定して Manager を生成します。
func NewManager(writer OutputWriter, baseDir string) (*Manager, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &Manager{writer: writer, baseDir: baseDir}, nil
}

// SaveImage は画像データを保存し、その保存先のフルパスを返します。
// mimeType が空の場合は image/png として扱います。
func (m *Manager) SaveImage(ctx context.Context, fileName string, data []byte, mimeType string) (string, error) {
	fullPath, err := ResolveOutputPath(m.baseDir, fileName)
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = defaultImageMIMEType
	}
	if err := m.writer.Write(ctx, fullPath, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("asset: 画像の保存に失敗しました: %w", err)
	}
	return fullPath, nil
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if strings.HasPrefix(strings.ToLower(baseDir), "gs://") {
		u, err := url.Parse(baseDir)
		if err != nil {
			return "", fmt.Errorf("無効なGCS URIです: %w", err)
		}

		// url.JoinPath はパス部分のみを安全に結合し、スキーム部分を保護します
		u.Path, err = url.JoinPath(u.Path, fileName)
		if err != nil {
			return "", fmt.Errorf("GCSパスの結合に失敗しました: %w", err)
		}
		return u.String(), nil
	}
	return filepath.Join(baseDir, fileName), nil
}

// PortraitFileName はキャラクター名からポートレート画像の相対パスを導出します。
// 名前は検証済みである前提で、空白のみアンダースコアに置換します。
func PortraitFileName(characterName string) string {
	return CharactersDirName + "/" + sanitize(characterName) + "_portrait.png"
}

// SceneFileName はキャラクター名と3桁の識別番号からシーン画像の相対パスを導出します。
func SceneFileName(characterName string, disambiguator int) string {
	return fmt.Sprintf("%s/%s_scene_%03d.png", ScenesDirName, sanitize(characterName), disambiguator)
}

func sanitize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
