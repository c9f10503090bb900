// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devSessionSecret は debug/test モードで SESSION_SECRET が未設定の場合に使う鍵です。
// 本番では Validate が空の鍵を拒否するため使われません。
const devSessionSecret = "bloghub-development-only-session-secret"

const defaultDatabaseURL = "blog.db"

// minSecretLength は release モードで要求するセッション鍵の最小バイト数です。
const minSecretLength = 32

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// セッション設定
	SessionSecret      string // セッションクッキー署名用の秘密鍵
	SessionMaxAgeHours int    // セッションの最大有効期間（時間）

	// サーバー設定
	Port                   string // HTTPサーバーのポート番号
	GinMode                string // Ginの実行モード (debug, release, test)
	ShutdownTimeoutSeconds int    // グレースフルシャットダウンの待ち時間（秒）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// データベース設定
	DatabaseURL    string // postgres:// もしくは SQLite ファイルパス
	DBMaxOpenConns int    // コネクションプールの最大接続数
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	config := &Config{
		// セッション設定
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionMaxAgeHours: getEnvAsInt("SESSION_MAX_AGE_HOURS", 24*30),

		// サーバー設定
		Port:                   getEnv("PORT", "8080"),
		GinMode:                getEnv("GIN_MODE", "debug"),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080"),

		// データベース設定
		DatabaseURL:    getEnv("DATABASE_URL", defaultDatabaseURL),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DatabaseURL は接続先だけを読み込みます。セッション鍵を必要としない管理コマンド用です。
func DatabaseURL() string {
	loadEnvFile()
	return getEnv("DATABASE_URL", defaultDatabaseURL)
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if len(c.SessionSecret) < minSecretLength {
			return fmt.Errorf("SESSION_SECRET must be at least %d bytes in release mode", minSecretLength)
		}
	} else if c.SessionSecret == "" {
		// ローカル開発では固定の鍵で動かす
		log.Printf("WARNING: SESSION_SECRET is not set, using development secret (mode: %s)", c.GinMode)
		c.SessionSecret = devSessionSecret
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.SessionMaxAgeHours <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_HOURS must be positive")
	}

	return nil
}

// SessionMaxAge はセッションの最大有効期間を返します。
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeHours) * time.Hour
}

// ShutdownTimeout はシャットダウン待ち時間を返します。
func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
