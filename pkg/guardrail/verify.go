package guardrail

import (
	"fmt"
	"io"
	"os"

	"github.com/shouni/openrouter-image-kit/pkg/domain"
	"github.com/shouni/openrouter-image-kit/pkg/imgutil"
)

// Status は寸法検証の判定結果です。
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	// StatusFailSquare は、非正方形を期待したのに正方形が返ったケースです。
	// 寸法指定を無視して正方形へ潰すプロバイダの既知の不具合を検出します。
	StatusFailSquare Status = "FAIL (square!)"
	// StatusFailMissing は、生成自体が失敗して検証対象が存在しないケースです。
	StatusFailMissing Status = "FAIL (generation failed)"
)

// Result は 1 出力分の検証結果です。
type Result struct {
	Name           string
	Path           string
	ExpectedWidth  int
	ExpectedHeight int
	ActualWidth    int
	ActualHeight   int
	Status         Status
}

// Check は生成画像の寸法をプロファイルの契約と照合します。
func Check(data []byte, profile domain.OutputProfile) Result {
	res := Result{
		Name:           profile.Name,
		ExpectedWidth:  profile.Width,
		ExpectedHeight: profile.Height,
	}

	w, h, err := imgutil.DecodeDimensions(data)
	if err != nil {
		res.Status = StatusFailMissing
		return res
	}
	res.ActualWidth = w
	res.ActualHeight = h

	switch {
	case w == h && profile.Width != profile.Height:
		res.Status = StatusFailSquare
	case w == profile.Width && h == profile.Height:
		res.Status = StatusPass
	default:
		res.Status = StatusFail
	}
	return res
}

// CheckFile はファイルを読み込んで Check を実行します。
func CheckFile(path string, profile domain.OutputProfile) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{
			Name:           profile.Name,
			ExpectedWidth:  profile.Width,
			ExpectedHeight: profile.Height,
			Status:         StatusFailMissing,
		}
	}
	res := Check(data, profile)
	res.Path = path
	return res
}

// Missing は生成に失敗した出力用の Result を作ります。
func Missing(profile domain.OutputProfile) Result {
	return Result{
		Name:           profile.Name,
		ExpectedWidth:  profile.Width,
		ExpectedHeight: profile.Height,
		Status:         StatusFailMissing,
	}
}

// AllPassed はすべての結果が PASS かどうかを返します。
func AllPassed(results []Result) bool {
	for _, r := range results {
		if r.Status != StatusPass {
			return false
		}
	}
	return true
}

// Report は検証結果を固定幅の表形式で書き出します。
func Report(w io.Writer, results []Result) {
	fmt.Fprintf(w, "%-8s %-12s %-12s %s\n", "Output", "Expected", "Actual", "Status")
	fmt.Fprintln(w, "----------------------------------------------------------------------")

	for _, r := range results {
		expected := fmt.Sprintf("%dx%d", r.ExpectedWidth, r.ExpectedHeight)
		actual := "N/A"
		if r.ActualWidth > 0 || r.ActualHeight > 0 {
			actual = fmt.Sprintf("%dx%d", r.ActualWidth, r.ActualHeight)
		}
		fmt.Fprintf(w, "%-8s %-12s %-12s %s\n", r.Name, expected, actual, r.Status)
	}

	fmt.Fprintln(w, "----------------------------------------------------------------------")
	if AllPassed(results) {
		fmt.Fprintln(w, "OVERALL: PASS - All dimensions correct")
	} else {
		fmt.Fprintln(w, "OVERALL: FAIL - Dimension mismatch detected")
	}
}
