package domain

import "fmt"

// OutputProfile は出力画像の用途別プリセット（寸法契約）です。
// Width / Height はガードレールテストの期待値と一致させる必要があります。
type OutputProfile struct {
	Name   string
	Width  int
	Height int
}

// 既定のプロファイル。カードは縦長、シーンは横長です。
var (
	CardProfile  = OutputProfile{Name: "card", Width: 1728, Height: 2304}
	SceneProfile = OutputProfile{Name: "scene", Width: 2560, Height: 1440}
)

// Validate は寸法が両方とも正の値であることを確認します。
func (p OutputProfile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("プロファイル %q の寸法が不正です: %dx%d", p.Name, p.Width, p.Height)
	}
	return nil
}

// AspectRatio は GCD で約分した "w:h" 形式のアスペクト比を返します。
func (p OutputProfile) AspectRatio() string {
	d := gcd(p.Width, p.Height)
	if d == 0 {
		return fmt.Sprintf("%d:%d", p.Width, p.Height)
	}
	return fmt.Sprintf("%d:%d", p.Width/d, p.Height/d)
}

// Portrait は縦長プロファイルかどうかを返します。
func (p OutputProfile) Portrait() bool {
	return p.Height > p.Width
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
