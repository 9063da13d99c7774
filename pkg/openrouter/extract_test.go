package openrouter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseResponse は生の JSON からレスポンスを組み立てるテストヘルパーです。
// ワイヤ型の JSON タグも同時に検証するため、構造体リテラルではなく JSON を使います。
func parseResponse(t *testing.T, raw string) *ChatResponse {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func TestExtractImage_ImagesList(t *testing.T) {
	payload := []byte("fake-png-binary-data")
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("data URI 形式 (image_url.url) から抽出できること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"images": [
				{"image_url": {"url": "data:image/png;base64,%s"}}
			]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/png", out.MimeType)
		assert.Equal(t, payload, out.Data)
	})

	t.Run("inline_data 形式 (data + mime_type) から抽出できること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"images": [
				{"inline_data": {"data": "%s", "mime_type": "image/jpeg"}}
			]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", out.MimeType)
		assert.Equal(t, payload, out.Data)
	})

	t.Run("平坦な data フィールドから抽出できること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"images": [
				{"data": "%s", "mime_type": "image/webp"}
			]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/webp", out.MimeType)
	})

	t.Run("MIME 省略時は PNG を既定とすること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"images": [{"data": "%s"}]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/png", out.MimeType)
	})

	t.Run("カンマのない data URI は落とさずフォールスルーすること", func(t *testing.T) {
		resp := parseResponse(t, `{
			"choices": [{"message": {"images": [
				{"image_url": {"url": "data:image/png;base64"}}
			]}}]
		}`)

		_, err := ExtractImage(resp)

		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("壊れた data URI でも後続の inline_data へフォールスルーすること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"images": [{
				"image_url": {"url": "data:image/png;base64"},
				"inline_data": {"data": "%s", "mime_type": "image/jpeg"}
			}]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", out.MimeType)
	})

	t.Run("base64 として不正なペイロードはフォールスルーすること", func(t *testing.T) {
		resp := parseResponse(t, `{
			"choices": [{"message": {"images": [
				{"image_url": {"url": "data:image/png;base64,%%%not-base64%%%"}}
			]}}]
		}`)

		_, err := ExtractImage(resp)

		assert.ErrorIs(t, err, ErrNoImage)
	})
}

func TestExtractImage_ContentBlocks(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("output_image ブロックの inline_data から抽出できること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"content": [
				{"type": "text", "text": "here is your image"},
				{"type": "output_image", "inline_data": {"data": "%s", "mime_type": "image/png"}}
			]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, payload, out.Data)
	})

	t.Run("image ブロックの平坦な data から抽出できること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"content": [
				{"type": "image", "data": "%s"}
			]}}]
		}`, encoded))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/png", out.MimeType)
	})

	t.Run("画像ブロックのないリストは ErrNoImage になること", func(t *testing.T) {
		resp := parseResponse(t, `{
			"choices": [{"message": {"content": [{"type": "text", "text": "no image here"}]}}]
		}`)

		_, err := ExtractImage(resp)

		assert.ErrorIs(t, err, ErrNoImage)
	})
}

func TestExtractImage_TextFallback(t *testing.T) {
	t.Run("プレーンテキストはモデルの拒否として扱うこと", func(t *testing.T) {
		resp := parseResponse(t, `{
			"choices": [{"message": {
				"images": [],
				"content": "Sorry, I cannot generate that image."
			}}]
		}`)

		_, err := ExtractImage(resp)

		var textErr *TextResponseError
		require.ErrorAs(t, err, &textErr)
		assert.Equal(t, "Sorry, I cannot generate that image.", textErr.Text)
	})

	t.Run("長文テキストは 200 文字に切り詰めること", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {"content": "%s"}}]
		}`, long))

		_, err := ExtractImage(resp)

		var textErr *TextResponseError
		require.ErrorAs(t, err, &textErr)
		assert.Len(t, textErr.Text, 200)
	})
}

func TestExtractImage_NoImage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"choices が空", `{"choices": []}`},
		{"message が空オブジェクト", `{"choices": [{"message": {}}]}`},
		{"images も content も空リスト", `{"choices": [{"message": {"images": [], "content": []}}]}`},
		{"content が空文字列", `{"choices": [{"message": {"images": [], "content": ""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractImage(parseResponse(t, tt.raw))
			assert.ErrorIs(t, err, ErrNoImage)
		})
	}

	t.Run("nil レスポンスでもパニックしないこと", func(t *testing.T) {
		_, err := ExtractImage(nil)
		assert.ErrorIs(t, err, ErrNoImage)
	})
}

// data URI へのエンコードと抽出の往復で元のバイト列が完全に復元されること
func TestExtractImage_DataURIRoundTrip(t *testing.T) {
	mimeTypes := []string{"image/png", "image/jpeg", "image/gif", "image/webp"}
	payloads := [][]byte{
		{0x00},
		{0xFF, 0xD8, 0xFF, 0xE0},
		[]byte("any arbitrary byte sequence \x00\x01\x02"),
	}

	for _, mimeType := range mimeTypes {
		for i, payload := range payloads {
			t.Run(fmt.Sprintf("%s/payload%d", mimeType, i), func(t *testing.T) {
				resp := &ChatResponse{
					Choices: []ChatChoice{{Message: ResponseMessage{
						Images: []ImageEntry{{ImageURL: &ImageURLRef{URL: EncodeDataURI(payload, mimeType)}}},
					}}},
				}

				out, err := ExtractImage(resp)

				require.NoError(t, err)
				assert.Equal(t, mimeType, out.MimeType)
				assert.Equal(t, payload, out.Data)
			})
		}
	}
}

func TestExtractImage_Precedence(t *testing.T) {
	first := base64.StdEncoding.EncodeToString([]byte("from-images-list"))
	second := base64.StdEncoding.EncodeToString([]byte("from-content-block"))

	t.Run("images リストが content ブロックより優先されること", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {
				"images": [{"inline_data": {"data": "%s", "mime_type": "image/png"}}],
				"content": [{"type": "output_image", "data": "%s"}]
			}}]
		}`, first, second))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, []byte("from-images-list"), out.Data)
	})

	t.Run("images が空なら content ブロックへ進むこと", func(t *testing.T) {
		resp := parseResponse(t, fmt.Sprintf(`{
			"choices": [{"message": {
				"images": [],
				"content": [{"type": "output_image", "data": "%s"}]
			}}]
		}`, second))

		out, err := ExtractImage(resp)

		require.NoError(t, err)
		assert.Equal(t, []byte("from-content-block"), out.Data)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcd", 2))
	// マルチバイト文字の途中で切れないこと
	assert.Equal(t, "ずん", truncate("ずんだもん", 2))
}
