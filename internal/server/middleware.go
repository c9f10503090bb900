package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID はリクエスト毎に ID を振るミドルウェアです。
// プロキシが付けた X-Request-Id があればそれを引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, id)
		}
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// logFormatter はアクセスログの 1 行を作ります。
// 削除リンクのクエリに CSRF トークンが載るため、パスはクエリを除いて記録します。
func logFormatter(p gin.LogFormatterParams) string {
	return fmt.Sprintf("[GIN] %s | %3d | %13v | %15s | %-7s %#v | req=%s %s\n",
		p.TimeStamp.Format(time.RFC3339),
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		p.Method,
		p.Request.URL.Path,
		p.Request.Header.Get(requestIDHeader),
		p.ErrorMessage,
	)
}
