// Package commands は blogctl のサブコマンドを定義します。
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/bloghub/internal/config"
	"github.com/yourusername/bloghub/internal/storage"
)

var (
	// 共通フラグ
	dbURL   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "ブログの管理用コマンド",
	Long: `blogctl はブログのデータベースを操作する管理用コマンドです。

  migrate             テーブルを作成・更新する
  users list          ユーザー一覧を表示する
  users promote EMAIL 管理者にする
  users demote EMAIL  管理者権限を外す
  hash-password       パスワードハッシュを生成する`,
	SilenceUsage: true,
}

// Execute はルートコマンドを実行します。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "接続先 (postgres:// URL または SQLite ファイル。未指定なら DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "SQL を表示する")
}

// openStore はフラグまたは環境変数の接続先を開きます。
func openStore(ctx context.Context) (*storage.Store, error) {
	url := dbURL
	if url == "" {
		url = config.DatabaseURL()
	}
	store, err := storage.Open(ctx, url, storage.Options{MaxOpenConns: 1, Debug: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
