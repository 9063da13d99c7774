package domain

import "fmt"

// SourceImage は生成の参照として添付する入力画像です。
type SourceImage struct {
	Data     []byte
	MimeType string
}

// ImageGenerationRequest は単一の画像生成要求です。
// Width / Height はどちらも 0 なら寸法指定なし、指定する場合は両方必須です。
type ImageGenerationRequest struct {
	Model  string
	Prompt string
	Source *SourceImage
	Width  int
	Height int
}

// Validate はリクエストの不変条件を検証します。
// 片方だけの寸法指定や、0 以下の値はエラーになります。
func (r ImageGenerationRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if r.Width == 0 && r.Height == 0 {
		return nil
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("寸法は両方とも正の値で指定してください: %dx%d", r.Width, r.Height)
	}
	return nil
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
