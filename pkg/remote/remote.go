package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/openrouter-image-kit/pkg/generator"
)

// HTTPFetcher は httpkit.ClientInterface を満たす最小の HTTP 取得クライアントです。
type HTTPFetcher struct {
	client *http.Client
}

var _ generator.HTTPClient = (*HTTPFetcher)(nil)

// NewHTTPFetcher はタイムアウト付きの HTTPFetcher を初期化します。
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchBytes は URL からデータを取得します。非 2xx はエラーになります。
func (f *HTTPFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("取得に失敗しました (HTTP %d): %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// LocalReader は remoteio.InputReader を満たすローカルファイルリーダーです。
// gs:// を扱わない CLI 用の実装で、file:// プレフィックスは剥がして扱います。
type LocalReader struct{}

var _ remoteio.InputReader = (*LocalReader)(nil)

// Open は指定パスのファイルを開きます。
func (LocalReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return os.Open(strings.TrimPrefix(uri, "file://"))
}

// List はディレクトリ直下のファイルパスを fn へ渡します。
func (LocalReader) List(ctx context.Context, uri string, fn func(string) error) error {
	dir := strings.TrimPrefix(uri, "file://")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := fn(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
