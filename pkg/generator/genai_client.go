package generator

import (
	"context"

	"google.golang.org/genai"
)

// genaiImagenClient は google.golang.org/genai クライアントを
// ImagenClient インターフェースに適合させるアダプターです。
type genaiImagenClient struct {
	client *genai.Client
}

// NewImagenClient は genai クライアントを包んだ ImagenClient を返します。
func NewImagenClient(client *genai.Client) ImagenClient {
	return &genaiImagenClient{client: client}
}

func (c *genaiImagenClient) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	return c.client.Models.GenerateImages(ctx, model, prompt, config)
}
