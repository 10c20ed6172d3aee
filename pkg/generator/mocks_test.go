package generator

import (
	"context"
	"io"

	"google.golang.org/genai"
)

// --- Mocks ---

type mockImagenClient struct {
	calls        int
	lastModel    string
	lastPrompt   string
	lastConfig   *genai.GenerateImagesConfig
	generateFunc func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

func (m *mockImagenClient) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastPrompt = prompt
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, prompt, config)
	}
	return imageResponse([]byte("fake-png")), nil
}

func imageResponse(data []byte) *genai.GenerateImagesResponse {
	return &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: data, MIMEType: "image/png"}},
		},
	}
}

type mockWriter struct {
	paths []string
	data  [][]byte
	err   error
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.paths = append(m.paths, path)
	m.data = append(m.data, data)
	return m.err
}
