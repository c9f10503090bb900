package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/bloghub/internal/models"
)

// CreateUser はユーザーを登録します。
// 最初に登録されたユーザーは管理者になります。
func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Email:        normalizeEmail(email),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		// 同時登録で管理者が 2 人できないよう、件数の確認から挿入までを直列化する。
		// SQLite は書き込みトランザクション自体が直列なので不要。
		if s.dialect == DialectPostgres {
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return fmt.Errorf("lock users: %w", err)
			}
		}

		var exists int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&exists).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists > 0 {
			return ErrDuplicateEmail
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		user.IsAdmin = total == 0

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID は ID でユーザーを取得します。
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "load user")
	}
	return &user, nil
}

// UserByEmail はメールアドレスでユーザーを取得します。
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err, "load user by email")
	}
	return &user, nil
}

// ListUsers は全ユーザーを ID 順に返します。
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetAdmin はユーザーの管理者フラグを変更します。
func (s *Store) SetAdmin(ctx context.Context, email string, admin bool) (*models.User, error) {
	var user models.User
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
			return notFound(err, "load user by email")
		}
		user.IsAdmin = admin
		if err := tx.Model(&user).Update("is_admin", admin).Error; err != nil {
			return fmt.Errorf("update admin flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
