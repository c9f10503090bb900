package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/bloghub/internal/storage"
)

const (
	msgDuplicateEmail = "このメールアドレスは既に登録されています。ログインしてください。"
	msgUnknownEmail   = "このメールアドレスは登録されていません。"
	msgWrongPassword  = "パスワードが正しくありません。もう一度お試しください。"
	msgInvalidInput   = "入力内容を確認してください。"
)

// maxPasswordBytes は bcrypt が扱えるパスワードの最大バイト数です。
// binding の max は文字数で数えるため、別途バイト数で確認します。
const maxPasswordBytes = 72

type registerForm struct {
	Email    string `form:"email" binding:"required,email,max=250"`
	Username string `form:"username" binding:"required,max=50"`
	Password string `form:"password" binding:"required,max=72"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm は GET /register のハンドラーです。
func (m *Manager) RegisterForm(c *gin.Context) {
	m.view.HTML(c, http.StatusOK, "register.html", gin.H{})
}

// Register は POST /register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil || len(form.Password) > maxPasswordBytes {
		m.renderRegisterError(c, form)
		return
	}

	hashed, err := HashPassword(form.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		m.renderRegisterError(c, form)
		return
	}
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	user, err := m.users.CreateUser(c.Request.Context(), form.Email, strings.TrimSpace(form.Username), hashed)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			AddFlash(c, msgDuplicateEmail)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		log.Printf("failed to register user: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := m.startSession(c, user); err != nil {
		log.Printf("failed to start session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	log.Printf("registered user id=%d admin=%t", user.ID, user.IsAdmin)
	c.Redirect(http.StatusFound, "/")
}

func (m *Manager) renderRegisterError(c *gin.Context, form registerForm) {
	m.view.HTML(c, http.StatusBadRequest, "register.html", gin.H{
		"Error": msgInvalidInput,
		"Form":  gin.H{"Email": form.Email, "Username": form.Username},
	})
}

// LoginForm は GET /login のハンドラーです。
func (m *Manager) LoginForm(c *gin.Context) {
	m.view.HTML(c, http.StatusOK, "login.html", gin.H{})
}

// Login は POST /login のハンドラーです。
// 失敗時はフラッシュメッセージを付けてログイン画面に戻します。
func (m *Manager) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		m.view.HTML(c, http.StatusBadRequest, "login.html", gin.H{
			"Error": msgInvalidInput,
			"Form":  gin.H{"Email": form.Email},
		})
		return
	}

	user, err := m.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, ErrUnknownEmail):
		AddFlash(c, msgUnknownEmail)
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, ErrWrongPassword):
		AddFlash(c, msgWrongPassword)
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		log.Printf("failed to authenticate: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := m.startSession(c, user); err != nil {
		log.Printf("failed to start session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout は GET /logout のハンドラーです。セッションが無くても成功します。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("failed to clear session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
