package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/openrouter-image-kit/pkg/openrouter"
)

// EnvFileName は開発用の環境ファイル名です。リポジトリにはコミットしません。
const EnvFileName = ".env.local"

// apiKeyPlaceholder はテンプレートのまま置き換えられていないキーを検出するための値です。
const apiKeyPlaceholder = "your_openrouter_api_key_here"

// Config は CLI ツール群が共有する実行時設定です。
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Load は dir 直下の .env.local を読み込んだ上で環境変数から設定を組み立てます。
// .env.local が存在しない場合は環境変数のみで解決します。
func Load(dir string) (*Config, error) {
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		// 既存の環境変数を上書きしない godotenv.Load を使用
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("%s の読み込みに失敗しました: %w", envPath, err)
		}
	}

	cfg := &Config{
		APIKey:   os.Getenv("OPENROUTER_API_KEY"),
		Model:    os.Getenv("OPENROUTER_MODEL"),
		Endpoint: os.Getenv("OPENROUTER_API_URL"),
		Timeout:  openrouter.DefaultTimeout,
	}
	if cfg.Model == "" {
		cfg.Model = openrouter.DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = openrouter.DefaultEndpoint
	}

	if cfg.APIKey == "" || cfg.APIKey == apiKeyPlaceholder {
		return nil, fmt.Errorf("OPENROUTER_API_KEY が %s に設定されていません", EnvFileName)
	}

	return cfg, nil
}
