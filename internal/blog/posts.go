package blog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/auth"
	"github.com/yourusername/bloghub/internal/models"
	"github.com/yourusername/bloghub/internal/storage"
)

const (
	msgInvalidPost    = "未入力の項目があるか、画像URLの形式が正しくありません。"
	msgDuplicateTitle = "同じタイトルの記事が既に存在します。"
	msgUnknownAuthor  = "指定された著者は存在しません。"
)

type postForm struct {
	Title    string `form:"title" binding:"required,max=250"`
	Subtitle string `form:"subtitle" binding:"required,max=250"`
	Body     string `form:"body" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required,url,max=250"`
	AuthorID uint   `form:"author_id"`
}

func (f *postForm) normalize() bool {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	return f.Title != "" && f.Subtitle != "" && strings.TrimSpace(f.Body) != "" && f.ImgURL != ""
}

func (f postForm) input() models.PostInput {
	return models.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImgURL:   f.ImgURL,
		AuthorID: f.AuthorID,
	}
}

// bindPostForm はフォームを読み取り、不正な場合は false を返します。
func bindPostForm(c *gin.Context) (postForm, bool) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return form, false
	}
	return form, form.normalize()
}

// ListPosts は GET / のハンドラーです。
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	h.view.HTML(c, http.StatusOK, "index.html", gin.H{"Posts": posts})
}

// ShowPost は GET /post/:id のハンドラーです。
func (h *Handler) ShowPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.view.Error(c, http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	comments, err := h.store.CommentsForPost(ctx, id)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	h.view.HTML(c, http.StatusOK, "post.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
	})
}

// NewPostForm は GET /new-post のハンドラーです。
func (h *Handler) NewPostForm(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, newPostPage(postForm{}), "")
}

// CreatePost は POST /new-post のハンドラーです。
func (h *Handler) CreatePost(c *gin.Context) {
	form, ok := bindPostForm(c)
	if !ok {
		h.renderPostForm(c, http.StatusBadRequest, newPostPage(form), msgInvalidPost)
		return
	}

	user := auth.CurrentUser(c)
	post := &models.Post{
		AuthorID: user.ID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		Date:     h.now().Format(models.PostDateLayout),
	}
	if err := h.store.CreatePost(c.Request.Context(), post); err != nil {
		if errors.Is(err, storage.ErrDuplicateTitle) {
			h.renderPostForm(c, http.StatusConflict, newPostPage(form), msgDuplicateTitle)
			return
		}
		h.respondWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditPostForm は GET /edit-post/:id のハンドラーです。
func (h *Handler) EditPostForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.view.Error(c, http.StatusNotFound)
		return
	}
	post, err := h.store.PostByID(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	form := postForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Body:     post.Body,
		ImgURL:   post.ImgURL,
		AuthorID: post.AuthorID,
	}
	h.renderEditForm(c, http.StatusOK, id, form, "")
}

// EditPost は POST /edit-post/:id のハンドラーです。
func (h *Handler) EditPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.view.Error(c, http.StatusNotFound)
		return
	}
	if _, err := h.store.PostByID(c.Request.Context(), id); err != nil {
		h.respondWithError(c, err)
		return
	}

	form, ok := bindPostForm(c)
	if !ok {
		h.renderEditForm(c, http.StatusBadRequest, id, form, msgInvalidPost)
		return
	}

	_, err := h.store.UpdatePost(c.Request.Context(), id, form.input())
	switch {
	case errors.Is(err, storage.ErrDuplicateTitle):
		h.renderEditForm(c, http.StatusConflict, id, form, msgDuplicateTitle)
		return
	case errors.Is(err, storage.ErrUnknownAuthor):
		h.renderEditForm(c, http.StatusBadRequest, id, form, msgUnknownAuthor)
		return
	case err != nil:
		h.respondWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", id))
}

// DeletePost は GET /delete/:id のハンドラーです。
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.view.Error(c, http.StatusNotFound)
		return
	}
	if err := h.store.DeletePost(c.Request.Context(), id); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

type postPage struct {
	heading string
	action  string
	form    postForm
	users   []models.User
}

func newPostPage(form postForm) postPage {
	return postPage{heading: "新しい記事", action: "/new-post", form: form}
}

func (h *Handler) renderEditForm(c *gin.Context, status int, id uint, form postForm, errMsg string) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	page := postPage{
		heading: "記事の編集",
		action:  fmt.Sprintf("/edit-post/%d", id),
		form:    form,
		users:   users,
	}
	h.renderPostForm(c, status, page, errMsg)
}

func (h *Handler) renderPostForm(c *gin.Context, status int, page postPage, errMsg string) {
	data := gin.H{
		"Heading": page.heading,
		"Action":  page.action,
		"Form":    page.form,
		"Users":   page.users,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.view.HTML(c, status, "make-post.html", data)
}
