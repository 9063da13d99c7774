// verify-dimensions は生成画像の寸法ガードレールテストです。
// 生成結果が期待どおりのピクセル寸法で返ることを検証し、
// 不一致（または正方形への潰れ）を検出した場合は非ゼロで終了します。
//
// Exit codes:
//
//	0 = PASS（すべての寸法が一致）
//	1 = FAIL（寸法不一致または正方形出力）
//	2 = ERROR（生成失敗・設定不備）
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/openrouter-image-kit/pkg/config"
	"github.com/shouni/openrouter-image-kit/pkg/domain"
	"github.com/shouni/openrouter-image-kit/pkg/generator"
	"github.com/shouni/openrouter-image-kit/pkg/guardrail"
	"github.com/shouni/openrouter-image-kit/pkg/openrouter"
	"github.com/shouni/openrouter-image-kit/pkg/remote"
)

const (
	testPhoto    = "test_photo.jpg"
	outputFolder = "output"

	// guardrailPrompt は寸法検証専用の固定プロンプトです。
	guardrailPrompt = "Transform this photo into 16-bit pixel art. Output: pure pixel art only."

	exitPass  = 0
	exitFail  = 1
	exitError = 2
)

var flagQuick bool

var rootCmd = &cobra.Command{
	Use:          "verify-dimensions",
	Short:        "生成画像の寸法ガードレールテスト",
	Long:         "画像生成の出力寸法が期待値と一致することを検証します。\n--quick を指定すると生成をスキップし、既存ファイルのみ検査します。",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runTest(flagQuick))
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagQuick, "quick", false, "生成をスキップして既存ファイルのみ検査")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitError)
	}
}

func runTest(quick bool) int {
	slog.SetLogLoggerLevel(slog.LevelWarn)

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("Dimension Guardrail Test")
	fmt.Println(strings.Repeat("=", 70))

	profiles := []domain.OutputProfile{domain.CardProfile, domain.SceneProfile}

	var results []guardrail.Result
	if quick {
		for _, profile := range profiles {
			path, ok := newestGuardrailFile(profile.Name)
			if !ok {
				continue
			}
			results = append(results, guardrail.CheckFile(path, profile))
		}
	} else {
		var code int
		results, code = generateAndCheck(profiles)
		if code != exitPass {
			return code
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("RESULTS")
	fmt.Println(strings.Repeat("=", 70))
	guardrail.Report(os.Stdout, results)
	fmt.Println(strings.Repeat("=", 70))

	if guardrail.AllPassed(results) {
		return exitPass
	}
	return exitFail
}

// generateAndCheck は両プロファイルで実際に生成を行い、寸法を検証します。
// 設定不備や生成前の失敗は exitError、ペイロード汚染は exitFail を返します。
func generateAndCheck(profiles []domain.OutputProfile) ([]guardrail.Result, int) {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, exitError
	}

	client, err := openrouter.NewClient(openrouter.ClientConfig{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.Endpoint,
		Timeout:  180 * time.Second,
	})
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, exitError
	}

	core, err := generator.NewImageCore(client, remote.LocalReader{}, remote.NewHTTPFetcher(30*time.Second), nil, cfg.Model, time.Hour)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, exitError
	}

	ctx := context.Background()
	source, err := core.LoadSourceImage(ctx, testPhoto)
	if err != nil {
		fmt.Printf("ERROR: テスト写真の読み込みに失敗しました: %v\n", err)
		return nil, exitError
	}

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, exitError
	}

	timestamp := time.Now().Format("20060102_150405")

	var results []guardrail.Result
	for _, profile := range profiles {
		fmt.Printf("\nGenerating %s (%dx%d)...\n", strings.ToUpper(profile.Name), profile.Width, profile.Height)
		fmt.Printf("  Payload: image_size={ width: %d, height: %d }\n", profile.Width, profile.Height)
		fmt.Printf("  Payload: image_config={ aspect_ratio: '%s' }\n", profile.AspectRatio())
		fmt.Println("  Payload: image_config.image_size = NOT SET (競合するプリセットなし)")

		if !payloadFreeOfSizePreset(cfg.Model, guardrailPrompt, profile, source) {
			fmt.Println("GUARDRAIL FAIL: ペイロードに image_config.image_size プリセットが混入しています")
			return nil, exitFail
		}

		resp, err := core.Generate(ctx, guardrailPrompt, profile, source)
		if err != nil {
			fmt.Printf("  %s generation FAILED: %v\n", strings.ToUpper(profile.Name), err)
			results = append(results, guardrail.Missing(profile))
			continue
		}

		path := filepath.Join(outputFolder, fmt.Sprintf("guardrail_%s_%s.png", profile.Name, timestamp))
		if err := os.WriteFile(path, resp.Data, 0o644); err != nil {
			fmt.Printf("  保存エラー: %v\n", err)
			results = append(results, guardrail.Missing(profile))
			continue
		}

		res := guardrail.Check(resp.Data, profile)
		res.Path = path
		results = append(results, res)
	}

	return results, exitPass
}

// payloadFreeOfSizePreset は、実際に送信されるペイロードへ
// image_config.image_size プリセットが混入していないことを確認します。
// ワイヤ型の定義上は混入し得ませんが、契約として毎回検証します。
func payloadFreeOfSizePreset(model, prompt string, profile domain.OutputProfile, source *domain.SourceImage) bool {
	chatReq, err := openrouter.NewChatRequest(domain.ImageGenerationRequest{
		Model:  model,
		Prompt: prompt,
		Source: source,
		Width:  profile.Width,
		Height: profile.Height,
	})
	if err != nil {
		return false
	}

	raw, err := json.Marshal(chatReq)
	if err != nil {
		return false
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	cfgRaw, ok := payload["image_config"]
	if !ok {
		return true
	}

	var imageConfig map[string]json.RawMessage
	if err := json.Unmarshal(cfgRaw, &imageConfig); err != nil {
		return false
	}
	_, present := imageConfig["image_size"]
	return !present
}

// newestGuardrailFile は output/ 以下から最新のガードレール出力を探します。
func newestGuardrailFile(name string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(outputFolder, "guardrail_"+name+"_*.png"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches[0], true
}
