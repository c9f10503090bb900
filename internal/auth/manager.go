package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/config"
	"github.com/yourusername/bloghub/internal/models"
	"github.com/yourusername/bloghub/internal/storage"
)

const (
	SessionCookieName  = "blog_session"
	sessionKeyUser     = "user_id"
	sessionKeyIssuedAt = "issued_at"
	sessionKeyCSRF     = "csrf_token"

	csrfHeader = "X-CSRF-Token"
	// CSRFField はフォームとクエリで CSRF トークンを受け取るフィールド名です。
	CSRFField = "csrf_token"
)

// ContextUserKey は、ハンドラー間でログイン中のユーザーを共有するためのキーです。
const ContextUserKey = "auth.user"

var (
	// ErrUnknownEmail は入力されたメールアドレスのユーザーが存在しない場合に返ります。
	ErrUnknownEmail = errors.New("unknown email")
	// ErrWrongPassword はパスワードが一致しない場合に返ります。
	ErrWrongPassword = errors.New("wrong password")
)

// UserStore は認証に必要なユーザー操作です。
type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Renderer は HTML ページを描画します。
type Renderer interface {
	HTML(c *gin.Context, status int, name string, data gin.H)
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	cfg   *config.Config
	users UserStore
	view  Renderer
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, users UserStore, view Renderer) *Manager {
	return &Manager{
		cfg:   cfg,
		users: users,
		view:  view,
	}
}

// SessionOptions はセッションクッキーの属性を返します。
func SessionOptions(cfg *config.Config) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	}
}

// Authenticate はメールアドレスとパスワードを検証し、ユーザーを返します。
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := m.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// startSession はセッションを作り直してユーザーをログイン状態にします。
func (m *Manager) startSession(c *gin.Context, user *models.User) error {
	token, err := generateToken()
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionKeyUser, user.ID)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())
	session.Set(sessionKeyCSRF, token)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(ContextUserKey, user)
	return nil
}

// CurrentUser はログイン中のユーザーを返します。未ログインの場合は nil です。
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// AddFlash は次に描画されるページで表示するメッセージを追加します。
func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		log.Printf("failed to save flash message: %v", err)
	}
}

// PageState はページ描画に共通で必要なセッション由来の値です。
type PageState struct {
	User      *models.User
	Flashes   []string
	CSRFToken string
}

// LoadPageState はフラッシュメッセージを取り出し、CSRF トークンを用意します。
// レスポンス本文を書き出す前に呼び出す必要があります。
func LoadPageState(c *gin.Context) PageState {
	session := sessions.Default(c)
	state := PageState{User: CurrentUser(c)}

	for _, f := range session.Flashes() {
		if msg, ok := f.(string); ok {
			state.Flashes = append(state.Flashes, msg)
		}
	}

	token, _ := session.Get(sessionKeyCSRF).(string)
	if token == "" {
		var err error
		token, err = generateToken()
		if err != nil {
			log.Printf("failed to generate csrf token: %v", err)
		} else {
			session.Set(sessionKeyCSRF, token)
		}
	}
	state.CSRFToken = token

	if err := session.Save(); err != nil {
		log.Printf("failed to save session: %v", err)
	}
	return state
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}

func readUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, id > 0
	case uint64:
		return uint(id), id > 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	case float64:
		return uint(id), id > 0
	default:
		return 0, false
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
