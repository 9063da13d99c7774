package openrouter

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
)

const (
	dataURIPrefix   = "data:"
	defaultMimeType = "image/png"
)

// ExtractImage は chat-completions レスポンスから生成画像を特定して返します。
// プロバイダによって画像の置き場所が異なるため、候補を次の優先順で解決します。
//
//  1. message.images[0] の data URI（image_url.url）
//  2. message.images[0] の inline_data（data + mime_type）
//  3. message.images[0] の平坦な data フィールド
//  4. 構造化 content リスト内の画像ブロック（2/3 と同じ抽出）
//  5. content がプレーンテキストなら TextResponseError（モデルが生成を断ったケース）
//
// 形式の崩れた候補は失敗させず次の候補へフォールスルーし、
// すべて尽きた場合のみ ErrNoImage を返します。副作用はありません。
func ExtractImage(resp *ChatResponse) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrNoImage
	}
	msg := resp.Choices[0].Message

	if len(msg.Images) > 0 {
		if out := extractFromImageEntry(&msg.Images[0]); out != nil {
			return out, nil
		}
	}

	if blocks, ok := decodeContentBlocks(msg.Content); ok {
		for _, block := range blocks {
			switch block.Type {
			case "output_image", "image", "image_url":
				if out := extractInline(block.InlineData, block.Data, block.MimeType); out != nil {
					return out, nil
				}
			}
		}
		return nil, ErrNoImage
	}

	if text, ok := decodeContentString(msg.Content); ok && text != "" {
		return nil, &TextResponseError{Text: truncate(text, maxSnippetLen)}
	}

	return nil, ErrNoImage
}

// extractFromImageEntry は images リストの要素を data URI → inline_data → data の順で試します。
func extractFromImageEntry(img *ImageEntry) *domain.ImageResponse {
	if img.ImageURL != nil {
		if out := decodeDataURI(img.ImageURL.URL); out != nil {
			return out
		}
	}
	return extractInline(img.InlineData, img.Data, img.MimeType)
}

// decodeDataURI は data:<mime>;base64,<payload> 形式を解析します。
// カンマ欠落や base64 破損は nil を返して呼び出し元にフォールスルーさせます。
func decodeDataURI(uri string) *domain.ImageResponse {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil
	}
	segments := strings.SplitN(uri, ",", 2)
	if len(segments) != 2 {
		return nil
	}

	header := strings.TrimPrefix(segments[0], dataURIPrefix)
	mimeType := header
	if i := strings.Index(header, ";"); i >= 0 {
		mimeType = header[:i]
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	data, err := base64.StdEncoding.DecodeString(segments[1])
	if err != nil {
		return nil
	}
	return &domain.ImageResponse{Data: data, MimeType: mimeType}
}

// extractInline は inline_data 形式と平坦な data 形式の抽出を行います。
// MIME 省略時は画像系プロバイダの既定である PNG として扱います。
func extractInline(inline *InlineData, data, mimeType string) *domain.ImageResponse {
	if inline != nil {
		if out := decodeBase64Image(inline.Data, inline.MimeType); out != nil {
			return out
		}
	}
	if data != "" {
		if out := decodeBase64Image(data, mimeType); out != nil {
			return out
		}
	}
	return nil
}

func decodeBase64Image(payload, mimeType string) *domain.ImageResponse {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return &domain.ImageResponse{Data: decoded, MimeType: mimeType}
}

// decodeContentBlocks は content が構造化リストの場合のみ解析して返します。
func decodeContentBlocks(raw json.RawMessage) ([]ContentBlock, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, false
	}
	return blocks, true
}

// decodeContentString は content がプレーン文字列の場合のみ解析して返します。
func decodeContentString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}
