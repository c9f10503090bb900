// Package web は HTML テンプレートと描画処理を提供します。
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates は埋め込みテンプレートを読み込みます。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Renderer は共通データ（ログインユーザー、フラッシュ、CSRF トークン、年）を付けてページを描画します。
type Renderer struct {
	now func() time.Time
}

// NewRenderer は Renderer を作成します。
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// HTML はテンプレート name を描画します。
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	state := auth.LoadPageState(c)
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = state.User
	data["Flashes"] = state.Flashes
	data["CSRFToken"] = state.CSRFToken
	data["CSRFField"] = auth.CSRFField
	data["Year"] = r.now().Year()
	c.HTML(status, name, data)
}

// Error はエラーページを描画してリクエストを打ち切ります。
func (r *Renderer) Error(c *gin.Context, status int) {
	r.HTML(c, status, "error.html", gin.H{
		"Status":  status,
		"Message": http.StatusText(status),
	})
	c.Abort()
}
