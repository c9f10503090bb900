// Package storage はブログデータの永続化レイヤーを提供します。
//
// 接続先は DATABASE_URL で切り替えます。
//   - postgres:// / postgresql:// → PostgreSQL (pgx)
//   - sqlite://path, sqlite:///path, もしくは素のパス → ローカルの SQLite ファイル
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/bloghub/internal/models"
)

// Dialect は接続先データベースの種別です。
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Options はストア初期化時の設定です。
type Options struct {
	MaxOpenConns int
	// Debug が true の場合は実行した SQL をすべてログに出します。
	Debug bool
}

// Open は DATABASE_URL に応じてデータベースへ接続し、スキーマを作成します。
func Open(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	dialect, dsn := ParseDatabaseURL(databaseURL)

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(opts.Debug),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dialect {
	case DialectPostgres:
		pgCfg, parseErr := pgx.ParseConfig(dsn)
		if parseErr != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", parseErr)
		}
		// pgx の stdlib アダプタ経由で database/sql のプールを作る
		sqlDB := stdlib.OpenDB(*pgCfg)
		db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	default:
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect %s database: %w", dialect, err)
	}

	store := &Store{db: db, dialect: dialect}
	if err := store.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Printf("Connected to %s database", dialect)
	return store, nil
}

// ParseDatabaseURL は接続文字列から方言とドライバ用 DSN を取り出します。
func ParseDatabaseURL(databaseURL string) (Dialect, string) {
	raw := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw
	case strings.HasPrefix(raw, "sqlite:///"):
		raw = strings.TrimPrefix(raw, "sqlite:///")
	case strings.HasPrefix(raw, "sqlite://"):
		raw = strings.TrimPrefix(raw, "sqlite://")
	}
	if raw == "" {
		raw = "blog.db"
	}
	return DialectSQLite, withForeignKeys(raw)
}

// withForeignKeys は SQLite の外部キー制約を有効にするパラメータを付与します。
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func newLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Migrate はテーブルを作成・更新します。
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
