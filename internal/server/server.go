// Package server は Gin ルーターの組み立てとルーティングを行います。
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/auth"
	"github.com/yourusername/bloghub/internal/blog"
	"github.com/yourusername/bloghub/internal/config"
	"github.com/yourusername/bloghub/internal/web"
)

// Store はルーター全体で必要なデータ操作です。
type Store interface {
	blog.Store
	auth.UserStore
	Ping(ctx context.Context) error
}

// NewRouter はミドルウェアとルートを登録した Gin エンジンを返します。
func NewRouter(cfg *config.Config, store Store) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.Use(RequestID(), gin.LoggerWithFormatter(logFormatter), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	// セッションストアの設定（クッキー署名鍵は必須）
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(auth.SessionOptions(cfg))
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	if origins := splitOrigins(cfg.CORSAllowedOrigins); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-CSRF-Token",
			requestIDHeader,
		}
		corsConfig.ExposeHeaders = []string{requestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	view := web.NewRenderer()
	authManager := auth.NewManager(cfg, store, view)
	router.Use(authManager.LoadUser())

	setupRoutes(router, authManager, blog.NewHandler(store, view), store, view)
	return router, nil
}

// setupRoutes はページと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, h *blog.Handler, store Store, view *web.Renderer) {
	router.GET("/health", healthHandler(store))

	router.GET("/", h.ListPosts)
	router.GET("/about", h.About)
	router.GET("/contact", h.Contact)
	router.POST("/contact", authManager.VerifyCSRF(), h.SubmitContact)

	router.GET("/register", authManager.RegisterForm)
	router.POST("/register", authManager.VerifyCSRF(), authManager.Register)
	router.GET("/login", authManager.LoginForm)
	router.POST("/login", authManager.VerifyCSRF(), authManager.Login)
	router.GET("/logout", authManager.Logout)

	router.GET("/post/:id", h.ShowPost)
	// ログイン確認を先に行い、未ログインならログイン画面へ戻す
	router.POST("/post/:id",
		authManager.RequireLogin(blog.MsgLoginToComment),
		authManager.VerifyCSRF(),
		h.AddComment,
	)

	admin := router.Group("")
	admin.Use(authManager.RequireAdmin())
	{
		admin.GET("/new-post", h.NewPostForm)
		admin.POST("/new-post", authManager.VerifyCSRF(), h.CreatePost)
		admin.GET("/edit-post/:id", h.EditPostForm)
		admin.POST("/edit-post/:id", authManager.VerifyCSRF(), h.EditPost)
		admin.GET("/delete/:id", authManager.RequireCSRF(), h.DeletePost)
	}

	router.NoRoute(func(c *gin.Context) {
		view.Error(c, http.StatusNotFound)
	})
}

// healthHandler はヘルスチェックエンドポイントのハンドラーです。
func healthHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"service": "bloghub",
				"message": "database is unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bloghub",
			"version": "0.1.0",
		})
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
