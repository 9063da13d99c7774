// prompt-tester は画像生成プロンプトを対話的にテストする開発者向けツールです。
// プロンプトを貼り付けると生成結果を output/ 以下の PNG として保存します。
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/openrouter-image-kit/pkg/config"
	"github.com/shouni/openrouter-image-kit/pkg/domain"
	"github.com/shouni/openrouter-image-kit/pkg/generator"
	"github.com/shouni/openrouter-image-kit/pkg/openrouter"
	"github.com/shouni/openrouter-image-kit/pkg/remote"
)

const (
	defaultTestPhoto = "test_photo.jpg"
	outputFolder     = "output"
	timestampLayout  = "20060102_150405"
)

var (
	flagPhoto   string
	flagModel   string
	flagCard    bool
	flagScene   bool
	flagTimeout int
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "prompt-tester",
	Short: "画像生成プロンプトの対話テストツール",
	Long: `画像生成プロンプトを対話的にテストします。

プロンプトを貼り付けて Enter を 2 回押すと生成を実行し、
結果を output/card_TIMESTAMP.png / output/scene_TIMESTAMP.png へ保存します。

Examples:
  prompt-tester                  # 対話モード（card と scene の両方）
  prompt-tester --photo me.jpg   # 参照写真を指定
  prompt-tester --card           # card プロンプトのみテスト
  prompt-tester --scene          # scene プロンプトのみテスト`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagPhoto, "photo", "", "テスト用写真のパス (既定: "+defaultTestPhoto+")")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "モデル名の上書き")
	rootCmd.Flags().BoolVar(&flagCard, "card", false, "card プロンプトのみテスト")
	rootCmd.Flags().BoolVar(&flagScene, "scene", false, "scene プロンプトのみテスト")
	rootCmd.Flags().IntVar(&flagTimeout, "timeout", 120, "リクエストタイムアウト（秒）")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "デバッグ出力を表示")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	mode := "both"
	switch {
	case flagCard && flagScene:
		mode = "both"
	case flagCard:
		mode = "card"
	case flagScene:
		mode = "scene"
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	model := cfg.Model
	if flagModel != "" {
		model = flagModel
	}
	timeout := time.Duration(flagTimeout) * time.Second

	client, err := openrouter.NewClient(openrouter.ClientConfig{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.Endpoint,
		Timeout:  timeout,
	})
	if err != nil {
		return err
	}

	core, err := generator.NewImageCore(client, remote.LocalReader{}, remote.NewHTTPFetcher(timeout), nil, model, time.Hour)
	if err != nil {
		return err
	}

	photoPath := flagPhoto
	if photoPath == "" {
		photoPath = defaultTestPhoto
	}
	if _, err := os.Stat(photoPath); err != nil {
		return fmt.Errorf("写真が見つかりません: %s (--photo で指定するか %s を配置してください)", photoPath, defaultTestPhoto)
	}

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		return err
	}

	ctx := context.Background()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Prompt Tester")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Model:  %s\n", model)
	fmt.Printf("Photo:  %s\n", photoPath)
	fmt.Printf("Output: %s/\n", outputFolder)
	fmt.Println(strings.Repeat("=", 60))

	source, err := core.LoadSourceImage(ctx, photoPath)
	if err != nil {
		return fmt.Errorf("写真の読み込みに失敗しました: %w", err)
	}
	fmt.Printf("Loaded image: %s, %dKB\n", source.MimeType, len(source.Data)/1024)

	s := &session{
		core:   core,
		source: source,
		mode:   mode,
		in:     bufio.NewScanner(os.Stdin),
	}
	s.run(ctx)
	return nil
}

// session は対話ループの状態（現在のモードと入力ストリーム）を保持します。
type session struct {
	core   *generator.ImageCore
	source *domain.SourceImage
	mode   string
	in     *bufio.Scanner
}

func (s *session) run(ctx context.Context) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("INTERACTIVE MODE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Commands:")
	fmt.Println("  'quit' / 'exit' で終了")
	fmt.Println("  'card' で card のみモードへ切替")
	fmt.Println("  'scene' で scene のみモードへ切替")
	fmt.Println("  'both' で両方生成（プロンプトを2回入力）")
	fmt.Println(strings.Repeat("=", 60))

	for {
		fmt.Printf("\n[Mode: %s]\n", strings.ToUpper(s.mode))

		if s.mode == "both" {
			if !s.runBoth(ctx) {
				return
			}
		} else {
			if !s.runSingle(ctx) {
				return
			}
		}

		fmt.Println("\n" + strings.Repeat("-", 40))
		fmt.Println("次のプロンプトをどうぞ（'quit' で終了）")
	}
}

// runBoth は card / scene のプロンプトを順に集めて両方生成します。
// 戻り値 false はループ終了（quit または EOF）を意味します。
func (s *session) runBoth(ctx context.Context) bool {
	cardPrompt, ok := s.readPrompt("\n[1/2] CARD プロンプト（縦長）を貼り付けてください:")
	if !ok {
		return false
	}
	if cardPrompt == "" {
		fmt.Println("プロンプトが空なのでスキップします...")
		return true
	}
	if done, handled := s.handleCommand(cardPrompt); handled {
		return !done
	}

	scenePrompt, ok := s.readPrompt("\n[2/2] SCENE プロンプト（横長）を貼り付けてください:")
	if !ok {
		return false
	}
	if scenePrompt == "" {
		fmt.Println("SCENE プロンプトが空なのでスキップします...")
		return true
	}
	if done, handled := s.handleCommand(scenePrompt); handled {
		return !done
	}

	timestamp := time.Now().Format(timestampLayout)
	s.generate(ctx, cardPrompt, domain.CardProfile, timestamp)
	s.generate(ctx, scenePrompt, domain.SceneProfile, timestamp)
	return true
}

func (s *session) runSingle(ctx context.Context) bool {
	label := "CARD プロンプト（縦長）"
	profile := domain.CardProfile
	if s.mode == "scene" {
		label = "SCENE プロンプト（横長）"
		profile = domain.SceneProfile
	}

	prompt, ok := s.readPrompt("\n" + label + " を貼り付けてください:")
	if !ok {
		return false
	}
	if prompt == "" {
		fmt.Println("プロンプトが空なのでスキップします...")
		return true
	}
	if done, handled := s.handleCommand(prompt); handled {
		return !done
	}

	s.generate(ctx, prompt, profile, time.Now().Format(timestampLayout))
	return true
}

// handleCommand は入力がモード切替・終了コマンドだった場合に処理します。
// 戻り値は (終了するか, コマンドとして処理したか) です。
func (s *session) handleCommand(input string) (quit bool, handled bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		fmt.Println("\nGoodbye!")
		return true, true
	case "card":
		s.mode = "card"
		fmt.Println("CARD モードへ切り替えました")
		return false, true
	case "scene":
		s.mode = "scene"
		fmt.Println("SCENE モードへ切り替えました")
		return false, true
	case "both":
		s.mode = "both"
		fmt.Println("BOTH モードへ切り替えました（プロンプトを2回入力します）")
		return false, true
	}
	return false, false
}

// readPrompt は空行または EOF までの複数行入力を読み取ります。
// 戻り値 ok=false は EOF（入力ストリーム終了）を意味します。
func (s *session) readPrompt(label string) (string, bool) {
	fmt.Println(label)
	fmt.Println("(プロンプトを貼り付けて、Enter を 2 回押すと送信します)")
	fmt.Println(strings.Repeat("-", 40))

	var lines []string
	for s.in.Scan() {
		line := s.in.Text()
		if line == "" {
			return strings.TrimSpace(strings.Join(lines, "\n")), true
		}
		lines = append(lines, line)
	}

	// EOF: 読めた分があれば最後の1回として扱う
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text != "" {
		return text, true
	}
	return "", false
}

func (s *session) generate(ctx context.Context, prompt string, profile domain.OutputProfile, timestamp string) {
	fmt.Printf("\nGenerating %s (%dx%d)...\n", strings.ToUpper(profile.Name), profile.Width, profile.Height)

	resp, err := s.core.Generate(ctx, prompt, profile, s.source)
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		return
	}

	path := filepath.Join(outputFolder, fmt.Sprintf("%s_%s.png", profile.Name, timestamp))
	if err := os.WriteFile(path, resp.Data, 0o644); err != nil {
		fmt.Printf("FAILED: 保存エラー: %v\n", err)
		return
	}
	fmt.Printf("SUCCESS: %s\n", path)
}
