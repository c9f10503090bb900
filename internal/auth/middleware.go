// Package auth は認証・認可機能を提供します。
//
// セッションは署名付きクッキー（gin-contrib/sessions）に保存し、
// ユーザーIDだけを持たせてリクエスト毎にユーザー情報を引き直します。
package auth

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/storage"
)

// LoadUser はセッションのユーザーIDからユーザーを読み込み、コンテキストに保存するミドルウェアです。
// ユーザーが見つからない場合やセッションが期限切れの場合は匿名として扱います。
func (m *Manager) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := readUserID(session.Get(sessionKeyUser))
		if !ok {
			c.Next()
			return
		}

		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		if issuedAt.IsZero() || time.Since(issuedAt) > m.cfg.SessionMaxAge() {
			clearIdentity(session)
			c.Next()
			return
		}

		user, err := m.users.UserByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				clearIdentity(session)
				c.Next()
				return
			}
			log.Printf("failed to load session user %d: %v", id, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireLogin は未ログインの場合にフラッシュを付けてログイン画面へ戻すミドルウェアです。
func (m *Manager) RequireLogin(notice string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			AddFlash(c, notice)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin は管理者以外のリクエストを 403 で打ち切るミドルウェアです。
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// VerifyCSRF は状態変更系メソッドの CSRF トークンを検証するミドルウェアです。
func (m *Manager) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		checkCSRF(c)
	}
}

// RequireCSRF はメソッドに関係なく CSRF トークンを検証します。
// GET で状態を変更するリンク（記事削除）に使います。
func (m *Manager) RequireCSRF() gin.HandlerFunc {
	return checkCSRF
}

func checkCSRF(c *gin.Context) {
	session := sessions.Default(c)
	expected, ok := session.Get(sessionKeyCSRF).(string)
	if !ok || expected == "" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	received := c.GetHeader(csrfHeader)
	if received == "" {
		received = c.PostForm(CSRFField)
	}
	if received == "" {
		received = c.Query(CSRFField)
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	c.Next()
}

func clearIdentity(session sessions.Session) {
	session.Delete(sessionKeyUser)
	session.Delete(sessionKeyIssuedAt)
	_ = session.Save()
}
