// Package blog は記事の一覧・閲覧・作成・編集・削除とコメント投稿のハンドラーを提供します。
package blog

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/models"
	"github.com/yourusername/bloghub/internal/storage"
)

// Store はハンドラーが利用するデータ操作です。
type Store interface {
	ListPosts(ctx context.Context) ([]models.PostView, error)
	PostByID(ctx context.Context, id uint) (*models.PostView, error)
	CommentsForPost(ctx context.Context, postID uint) ([]models.CommentView, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, id uint, input models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	AddComment(ctx context.Context, postID, commenterID uint, text string) (*models.Comment, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Renderer は HTML ページとエラーページを描画します。
type Renderer interface {
	HTML(c *gin.Context, status int, name string, data gin.H)
	Error(c *gin.Context, status int)
}

// Handler はブログのルートハンドラーをまとめた構造体です。
type Handler struct {
	store Store
	view  Renderer
	now   func() time.Time
}

// NewHandler は Handler を作成します。
func NewHandler(store Store, view Renderer) *Handler {
	return &Handler{
		store: store,
		view:  view,
		now:   time.Now,
	}
}

// parseID はパスパラメータ :id を正の整数として読み取ります。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.view.Error(c, http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(http.StatusRequestTimeout)
	default:
		log.Printf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		h.view.Error(c, http.StatusInternalServerError)
	}
}
