package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
	"github.com/shouni/openrouter-image-kit/pkg/imgutil"
)

// LoadSourceImage は参照画像を取得し、リクエストへ添付できる形に整えます。
// http(s):// は SSRF 検証の上で HTTP 取得、gs:// はリモートリーダー経由、
// それ以外はローカルファイルとして読み込みます。結果はキャッシュされます。
func (c *ImageCore) LoadSourceImage(ctx context.Context, uri string) (*domain.SourceImage, error) {
	cacheKey := cacheKeySourceImage + uri
	if c.cache != nil {
		if val, ok := c.cache.Get(cacheKey); ok {
			if img, ok := val.(*domain.SourceImage); ok {
				return img, nil
			}
		}
	}

	data, err := c.fetchImageData(ctx, uri)
	if err != nil {
		return nil, err
	}

	// ペイロード削減のため JPEG へ再圧縮する（失敗時は元データで続行）
	finalData := data
	if UseImageCompression {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			finalData = compressed
		}
	}

	mimeType := http.DetectContentType(finalData)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("画像ではないデータが指定されました (MIME: %s): %s", mimeType, uri)
	}

	img := &domain.SourceImage{Data: finalData, MimeType: mimeType}
	if c.cache != nil {
		c.cache.Set(cacheKey, img, c.expiration)
	}
	return img, nil
}

func (c *ImageCore) fetchImageData(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		if safe, err := IsSafeURL(uri); err != nil || !safe {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		return c.httpClient.FetchBytes(ctx, uri)
	case strings.HasPrefix(uri, "gs://"):
		rc, err := c.reader.Open(ctx, uri)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	default:
		return os.ReadFile(uri)
	}
}
