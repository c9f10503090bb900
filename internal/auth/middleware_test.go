package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bloghub/internal/config"
	"github.com/yourusername/bloghub/internal/models"
	"github.com/yourusername/bloghub/internal/storage"
)

type stubUsers struct {
	byID map[uint]*models.User
}

func (s *stubUsers) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return nil, storage.ErrDuplicateEmail
		}
	}
	u := &models.User{ID: uint(len(s.byID) + 1), Email: email, Username: username, PasswordHash: passwordHash}
	s.byID[u.ID] = u
	return u, nil
}

func (s *stubUsers) UserByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsers) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func newTestManager(t *testing.T) (*Manager, *stubUsers) {
	t.Helper()
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	users := &stubUsers{byID: map[uint]*models.User{
		1: {ID: 1, Email: "admin@example.com", Username: "Admin", PasswordHash: hash, IsAdmin: true},
		2: {ID: 2, Email: "reader@example.com", Username: "Reader", PasswordHash: hash},
	}}
	cfg := &config.Config{SessionSecret: "test-secret", SessionMaxAgeHours: 1, GinMode: gin.TestMode}
	return NewManager(cfg, users, nil), users
}

// newTestRouter はログインとトークン取得用の補助ルートを持つルーターを作ります。
func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions(SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.Use(m.LoadUser())

	router.GET("/as/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		user, err := m.users.UserByID(c.Request.Context(), uint(id))
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		if err := m.startSession(c, user); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/token", func(c *gin.Context) {
		c.String(http.StatusOK, LoadPageState(c).CSRFToken)
	})
	router.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.String(http.StatusOK, fmt.Sprint(user.ID))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	router.GET("/admin", m.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/write", m.RequireLogin("login please"), m.VerifyCSRF(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/remove", m.RequireCSRF(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

// serve はクッキーを引き継いでリクエストを実行し、応答のクッキーを返します。
func serve(router *gin.Engine, req *http.Request, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if next := rec.Result().Cookies(); len(next) > 0 {
		return rec, next
	}
	return rec, cookies
}

func TestAuthenticate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrUnknownEmail)

	_, err = m.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	user, err := m.Authenticate(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
}

func TestLoadUserFromSession(t *testing.T) {
	m, users := newTestManager(t)
	router := newTestRouter(m)

	rec, cookies := serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil), nil)
	assert.Equal(t, "anonymous", rec.Body.String())

	_, cookies = serve(router, httptest.NewRequest(http.MethodGet, "/as/2", nil), cookies)
	rec, cookies = serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil), cookies)
	assert.Equal(t, "2", rec.Body.String())

	// 削除済みユーザーのセッションは匿名として扱う
	delete(users.byID, 2)
	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	m, _ := newTestManager(t)
	router := newTestRouter(m)

	rec, _ := serve(router, httptest.NewRequest(http.MethodGet, "/admin", nil), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "anonymous")

	_, cookies := serve(router, httptest.NewRequest(http.MethodGet, "/as/2", nil), nil)
	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/admin", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code, "non-admin")

	_, cookies = serve(router, httptest.NewRequest(http.MethodGet, "/as/1", nil), nil)
	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/admin", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code, "admin")
}

func TestRequireLoginRedirects(t *testing.T) {
	m, _ := newTestManager(t)
	router := newTestRouter(m)

	rec, _ := serve(router, httptest.NewRequest(http.MethodPost, "/write", nil), nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCSRF(t *testing.T) {
	m, _ := newTestManager(t)
	router := newTestRouter(m)

	_, cookies := serve(router, httptest.NewRequest(http.MethodGet, "/as/2", nil), nil)
	rec, cookies := serve(router, httptest.NewRequest(http.MethodGet, "/token", nil), cookies)
	token := rec.Body.String()
	require.NotEmpty(t, token)

	rec, _ = serve(router, httptest.NewRequest(http.MethodPost, "/write", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing token")

	req := httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(url.Values{CSRFField: {"bogus"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, _ = serve(router, req, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code, "wrong token")

	req = httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(url.Values{CSRFField: {token}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, _ = serve(router, req, cookies)
	assert.Equal(t, http.StatusOK, rec.Code, "form token")

	req = httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set(csrfHeader, token)
	rec, _ = serve(router, req, cookies)
	assert.Equal(t, http.StatusOK, rec.Code, "header token")

	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/remove", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code, "GET without token")

	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/remove?"+CSRFField+"="+token, nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code, "GET with query token")
}

func TestLoginRotatesCSRFToken(t *testing.T) {
	m, _ := newTestManager(t)
	router := newTestRouter(m)

	rec, cookies := serve(router, httptest.NewRequest(http.MethodGet, "/token", nil), nil)
	before := rec.Body.String()

	_, cookies = serve(router, httptest.NewRequest(http.MethodGet, "/as/1", nil), cookies)
	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/token", nil), cookies)
	assert.NotEqual(t, before, rec.Body.String())
}
