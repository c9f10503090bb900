package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/bloghub/internal/models"
)

// CommentsForPost は記事のコメントを投稿順に返します。
func (s *Store) CommentsForPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	var comments []models.CommentView
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.*, users.username AS commenter_name, users.email AS commenter_email").
		Joins("JOIN users ON users.id = comments.commenter_id").
		Where("comments.parent_post_id = ?", postID).
		Order("comments.id").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// AddComment は記事にコメントを追加します。
// 記事が既に削除されている場合は ErrNotFound を返します。
func (s *Store) AddComment(ctx context.Context, postID, commenterID uint, text string) (*models.Comment, error) {
	comment := &models.Comment{
		CommenterID:  commenterID,
		ParentPostID: postID,
		Text:         text,
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return notFound(err, "load post")
		}
		if err := tx.Omit("Commenter", "ParentPost").Create(comment).Error; err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
