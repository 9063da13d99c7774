package openrouter

import (
	"errors"
	"fmt"
)

// maxSnippetLen はエラーメッセージへ含める本文の上限（文字数）です。
// 巨大なレスポンスをそのままエラーに載せないための制限です。
const maxSnippetLen = 200

// ErrNoImage は、レスポンスのどこからも画像ペイロードを特定できなかったことを示します。
var ErrNoImage = errors.New("レスポンスに画像データが見つかりませんでした")

// HTTPError は JSON 解析より前段のトランスポート失敗（非 2xx ステータス）です。
// このエラーが返った呼び出しでは抽出処理は一切行われていません。
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// TextResponseError は、モデルが画像生成を断ってテキストのみを返したケースです。
// クラッシュさせる性質のエラーではなく、プロンプトの言い換えを促す情報です。
type TextResponseError struct {
	Text string
}

func (e *TextResponseError) Error() string {
	return fmt.Sprintf("モデルが画像ではなくテキストを返しました: %s", e.Text)
}

// truncate は文字列を最大 n 文字（rune 単位）に切り詰めます。
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
