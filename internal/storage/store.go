package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound は対象のレコードが存在しない場合に返ります。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail はメールアドレスが既に登録されている場合に返ります。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateTitle は同じタイトルの記事が既に存在する場合に返ります。
	ErrDuplicateTitle = errors.New("post title already exists")
	// ErrUnknownAuthor は指定された著者が存在しない場合に返ります。
	ErrUnknownAuthor = errors.New("author does not exist")
)

// Store は GORM をラップしたデータアクセス層です。
type Store struct {
	db      *gorm.DB
	dialect Dialect
}

// Dialect は接続中のデータベース種別を返します。
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping はデータベースへの疎通を確認します。
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close はコネクションプールを閉じます。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// transaction は fn を 1 つのトランザクション内で実行します。
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// forUpdate は対象行をロックします（SQLite では無視されます）。
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound は gorm.ErrRecordNotFound を ErrNotFound に変換します。
func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
