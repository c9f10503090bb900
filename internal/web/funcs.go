package web

import (
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

var ugcPolicy = bluemonday.UGCPolicy()

// FuncMap はテンプレート関数です。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"gravatar": Gravatar,
		"sanitize": Sanitize,
	}
}

// Gravatar はメールアドレスからアバター画像の URL を作ります（100px, rating g, 既定画像 mp）。
func Gravatar(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "100")
	q.Set("r", "g")
	q.Set("d", "mp")
	return gravatarBaseURL + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

// Sanitize はリッチテキスト本文から危険なタグや属性を取り除きます。
func Sanitize(s string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(s))
}
