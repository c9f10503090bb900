package blog

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bloghub/internal/auth"
)

const msgContactReceived = "メッセージを受け付けました。ありがとうございます。"

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone" binding:"max=30"`
	Message string `form:"message" binding:"required,max=5000"`
}

// About は GET /about のハンドラーです。
func (h *Handler) About(c *gin.Context) {
	h.view.HTML(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

// Contact は GET /contact のハンドラーです。
func (h *Handler) Contact(c *gin.Context) {
	h.view.HTML(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact"})
}

// SubmitContact は POST /contact のハンドラーです。送信内容はログに残すだけです。
func (h *Handler) SubmitContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		h.view.HTML(c, http.StatusBadRequest, "contact.html", gin.H{
			"Title": "Contact",
			"Form":  form,
			"Error": "入力内容を確認してください。",
		})
		return
	}

	log.Printf("contact message from %q <%s> (%d bytes)", form.Name, form.Email, len(form.Message))
	auth.AddFlash(c, msgContactReceived)
	c.Redirect(http.StatusFound, "/contact")
}
