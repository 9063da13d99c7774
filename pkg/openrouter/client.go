package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
)

const (
	// DefaultEndpoint は OpenRouter の chat-completions エンドポイントです。
	DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	// DefaultModel は画像生成の既定モデルです。
	DefaultModel = "bytedance-seed/seedream-4.5"

	// DefaultTimeout は 1 リクエストの上限時間です。タイムアウト時はリトライしません。
	DefaultTimeout = 120 * time.Second

	defaultReferer = "https://sprite-forge.app"
	defaultTitle   = "SPRITE FORGE Prompt Tester"
)

// ClientConfig は Client の初期化パラメータです。APIKey 以外は省略可能です。
type ClientConfig struct {
	APIKey   string
	Endpoint string
	Referer  string
	Title    string
	Timeout  time.Duration
	// HTTPClient を指定した場合、Timeout はそちらの設定が優先されます。
	HTTPClient *http.Client
}

// Client は OpenRouter エンドポイントとの通信と画像抽出までを担当します。
// 状態を持たず、1 呼び出しにつき 1 リクエストを同期で実行します。
type Client struct {
	apiKey     string
	endpoint   string
	referer    string
	title      string
	httpClient *http.Client
}

// NewClient は設定を検証して Client を初期化します。
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Referer == "" {
		cfg.Referer = defaultReferer
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		referer:    cfg.Referer,
		title:      cfg.Title,
		httpClient: httpClient,
	}, nil
}

// GenerateImage は画像生成リクエストを実行し、抽出済みの画像を返します。
// 非 2xx ステータスは JSON 解析へ進まず HTTPError として即座に返します。
func (c *Client) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	chatReq, err := NewChatRequest(req)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "OpenRouterへリクエスト送信",
		"model", chatReq.Model, "payload_bytes", len(body),
		"has_image_size", chatReq.ImageSize != nil)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("X-Title", c.title)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OpenRouterへの接続に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "OpenRouterから応答受信",
		"status", resp.StatusCode, "body_bytes", len(respBody))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{Status: resp.StatusCode, Body: truncate(string(respBody), maxSnippetLen)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("レスポンスのデコードに失敗しました: %w", err)
	}

	return ExtractImage(&chatResp)
}
