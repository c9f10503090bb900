package blog

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/auth"
)

const (
	// MsgLoginToComment は未ログインでコメントしようとした場合のメッセージです。
	MsgLoginToComment = "コメントするにはログインしてください。"
	msgCommentSaved   = "コメントを保存しました。"
	msgCommentEmpty   = "コメントを入力してください。"
)

type commentForm struct {
	Text string `form:"comment_text" binding:"required"`
}

// AddComment は POST /post/:id のハンドラーです。
// ログイン必須のため、auth.Manager.RequireLogin の後ろに登録します。
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.view.Error(c, http.StatusNotFound)
		return
	}
	postURL := fmt.Sprintf("/post/%d", id)

	var form commentForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Text) == "" {
		auth.AddFlash(c, msgCommentEmpty)
		c.Redirect(http.StatusFound, postURL)
		return
	}

	user := auth.CurrentUser(c)
	if _, err := h.store.AddComment(c.Request.Context(), id, user.ID, form.Text); err != nil {
		h.respondWithError(c, err)
		return
	}

	auth.AddFlash(c, msgCommentSaved)
	c.Redirect(http.StatusFound, postURL)
}
