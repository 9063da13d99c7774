package openrouter

import "encoding/json"

// --- リクエスト側のワイヤ型 ---

// ChatRequest は chat-completions エンドポイントへ送る JSON ボディです。
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	ImageSize   *ImageSize    `json:"image_size,omitempty"`
	ImageConfig *ImageConfig  `json:"image_config,omitempty"`
}

// ChatMessage はテキストと画像が混在するユーザーメッセージです。
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart はメッセージ内の 1 ブロック（text または image_url）です。
type ContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *ImageURLRef `json:"image_url,omitempty"`
}

// ImageURLRef は data URI もしくは通常 URL への参照です。
type ImageURLRef struct {
	URL string `json:"url"`
}

// ImageSize は出力寸法の明示指定です（寸法の第一権威）。
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageConfig はアスペクト比のヒントです。
// image_size プリセットはプロバイダ側で明示寸法と競合するため、
// このフィールド自体を持たせないことで混入を型レベルで防いでいます。
type ImageConfig struct {
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// --- レスポンス側のワイヤ型 ---
// プロバイダごとに形が揺れるため、候補になり得るフィールドをすべて optional に持ちます。

// ChatResponse は chat-completions エンドポイントのレスポンスです。
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice は 1 件の補完候補です。
type ChatChoice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage はアシスタント側メッセージです。
// Content は文字列のことも構造化リストのこともあるため RawMessage で保持します。
type ResponseMessage struct {
	Images  []ImageEntry    `json:"images"`
	Content json.RawMessage `json:"content"`
}

// ImageEntry は images リストの 1 要素です。
// data URI 形式（ImageURL）、inline_data 形式、平坦な data 形式のいずれかが入ります。
type ImageEntry struct {
	ImageURL   *ImageURLRef `json:"image_url"`
	InlineData *InlineData  `json:"inline_data"`
	Data       string       `json:"data"`
	MimeType   string       `json:"mime_type"`
}

// InlineData は data URI を使わず base64 と MIME を直接持つ形式です。
type InlineData struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// ContentBlock は構造化 content リストの 1 要素です。
type ContentBlock struct {
	Type       string      `json:"type"`
	InlineData *InlineData `json:"inline_data"`
	Data       string      `json:"data"`
	MimeType   string      `json:"mime_type"`
}
