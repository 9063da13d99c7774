package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
)

const (
	UseImageCompression     = true
	ImageCompressionQuality = 75
	cacheKeySourceImage     = "source_image:"
)

// ImageCore は入力画像の準備と生成リクエストの実行を担う基盤クラスです。
type ImageCore struct {
	client     ImageClient
	reader     remoteio.InputReader
	httpClient HTTPClient
	cache      ImageCacher
	model      string
	expiration time.Duration
}

// NewImageCore は依存関係を注入して ImageCore を初期化します。
func NewImageCore(client ImageClient, reader remoteio.InputReader, httpClient HTTPClient, cache ImageCacher, model string, cacheTTL time.Duration) (*ImageCore, error) {
	// どの依存関係が不足しているか具体的に示す
	if client == nil {
		return nil, fmt.Errorf("client is required")
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
	// cache は nil を許容（キャッシュなし動作）

	return &ImageCore{
		client:     client,
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		model:      model,
		expiration: cacheTTL,
	}, nil
}

// Generate は指定プロファイルの寸法でプロンプトから 1 枚生成します。
// リトライは行わず、タイムアウト等の制御は注入された client 側の責務です。
func (c *ImageCore) Generate(ctx context.Context, prompt string, profile domain.OutputProfile, source *domain.SourceImage) (*domain.ImageResponse, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "画像生成リクエスト準備中",
		"model", c.model, "profile", profile.Name,
		"size", fmt.Sprintf("%dx%d", profile.Width, profile.Height))

	req := domain.ImageGenerationRequest{
		Model:  c.model,
		Prompt: prompt,
		Source: source,
		Width:  profile.Width,
		Height: profile.Height,
	}

	return c.client.GenerateImage(ctx, req)
}
