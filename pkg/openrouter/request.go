package openrouter

import (
	"encoding/base64"
	"fmt"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
)

const (
	// DefaultMaxTokens は画像生成リクエストの max_tokens 既定値です。
	DefaultMaxTokens = 4096

	roleUser            = "user"
	contentTypeText     = "text"
	contentTypeImageURL = "image_url"
)

// NewChatRequest は domain のリクエストを chat-completions のペイロードへ変換します。
// 寸法が指定されている場合は、プロンプト先頭に出力仕様の指示文を付加し、
// image_size（明示寸法）と image_config.aspect_ratio（ヒント）の両方を設定します。
func NewChatRequest(req domain.ImageGenerationRequest) (*ChatRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if req.Width > 0 && req.Height > 0 {
		prompt = dimensionInstruction(req.Width, req.Height) + prompt
	}

	parts := []ContentPart{
		{Type: contentTypeText, Text: prompt},
	}
	if req.Source != nil {
		parts = append(parts, ContentPart{
			Type:     contentTypeImageURL,
			ImageURL: &ImageURLRef{URL: EncodeDataURI(req.Source.Data, req.Source.MimeType)},
		})
	}

	cr := &ChatRequest{
		Model:     req.Model,
		Messages:  []ChatMessage{{Role: roleUser, Content: parts}},
		MaxTokens: DefaultMaxTokens,
	}

	if req.Width > 0 && req.Height > 0 {
		cr.ImageSize = &ImageSize{Width: req.Width, Height: req.Height}
		cr.ImageConfig = &ImageConfig{AspectRatio: aspectRatio(req.Width, req.Height)}
	}

	return cr, nil
}

// EncodeDataURI はバイト列を data:<mime>;base64,<payload> 形式へ変換します。
func EncodeDataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// dimensionInstruction は出力寸法をモデルへ指示する前置きプロンプトです。
// 正方形へ寄せられる既知の挙動があるため、向きの明示を含めています。
func dimensionInstruction(width, height int) string {
	orientation := "landscape (wider than tall)"
	if height > width {
		orientation = "portrait (taller than wide)"
	}
	return fmt.Sprintf(`OUTPUT IMAGE SPECIFICATIONS:
- Exact dimensions: %dx%d pixels
- Aspect ratio: %d:%d
- Orientation: %s
- DO NOT generate a square image

`, width, height, width, height, orientation)
}

// aspectRatio は GCD で約分した "w:h" 形式の文字列を返します。
func aspectRatio(width, height int) string {
	a, b := width, height
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return fmt.Sprintf("%d:%d", width, height)
	}
	return fmt.Sprintf("%d:%d", width/a, height/a)
}
