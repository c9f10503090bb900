package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/bloghub/internal/models"
)

const postViewColumns = "blog_posts.*, users.username AS author_name"

func (s *Store) postViews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(postViewColumns).
		Joins("JOIN users ON users.id = blog_posts.author_id")
}

// ListPosts は全記事を ID 順に返します。
func (s *Store) ListPosts(ctx context.Context) ([]models.PostView, error) {
	var posts []models.PostView
	if err := s.postViews(ctx).Order("blog_posts.id").Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// PostByID は ID で記事を取得します。
func (s *Store) PostByID(ctx context.Context, id uint) (*models.PostView, error) {
	var posts []models.PostView
	if err := s.postViews(ctx).Where("blog_posts.id = ?", id).Limit(1).Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// CreatePost は記事を保存します。post.ID には採番された値が入ります。
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post is nil")
	}
	post.Title = strings.TrimSpace(post.Title)

	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureAuthor(tx, post.AuthorID); err != nil {
			return err
		}
		if err := ensureTitleFree(tx, post.Title, 0); err != nil {
			return err
		}
		if err := tx.Omit("Author").Create(post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTitle
			}
			return fmt.Errorf("insert post: %w", err)
		}
		return nil
	})
}

// UpdatePost は記事の内容を上書きします。
// AuthorID が 0 の場合は著者を変更しません。
func (s *Store) UpdatePost(ctx context.Context, id uint, input models.PostInput) (*models.Post, error) {
	var post models.Post
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&post, id).Error; err != nil {
			return notFound(err, "load post")
		}

		title := strings.TrimSpace(input.Title)
		if err := ensureTitleFree(tx, title, post.ID); err != nil {
			return err
		}
		if input.AuthorID != 0 && input.AuthorID != post.AuthorID {
			if err := ensureAuthor(tx, input.AuthorID); err != nil {
				return err
			}
			post.AuthorID = input.AuthorID
		}

		post.Title = title
		post.Subtitle = input.Subtitle
		post.Body = input.Body
		post.ImgURL = input.ImgURL

		if err := tx.Omit("Author").Save(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTitle
			}
			return fmt.Errorf("update post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost は記事とそのコメントを削除します。
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var post models.Post
		if err := forUpdate(tx).First(&post, id).Error; err != nil {
			return notFound(err, "load post")
		}
		if err := tx.Where("parent_post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

func ensureAuthor(tx *gorm.DB, authorID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return fmt.Errorf("check author: %w", err)
	}
	if count == 0 {
		return ErrUnknownAuthor
	}
	return nil
}

func ensureTitleFree(tx *gorm.DB, title string, exceptID uint) error {
	q := tx.Model(&models.Post{}).Where("title = ?", title)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if count > 0 {
		return ErrDuplicateTitle
	}
	return nil
}
