package generator

import (
	"context"
	"time"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
)

// ImageClient は画像生成エンドポイントとの通信を抽象化するインターフェースです。
// openrouter.Client がこれを満たすように実装します。
type ImageClient interface {
	// GenerateImage は、指定されたリクエストで画像生成を実行し、抽出済みの結果を返します。
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// ImageCacher は、取得済みの入力画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
