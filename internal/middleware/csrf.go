package middleware

import (
	"crypto/sha256"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/web"
)

const (
	CSRFCookie = "myleasing_csrf"
	CSRFField  = "csrf_token"
)

// CSRFKey derives the 32-byte token key from the application secret.
func CSRFKey(secret string) []byte {
	sum := sha256.Sum256([]byte("myleasing-csrf:" + secret))
	return sum[:]
}

// CSRF rejects unsafe requests that do not carry the token issued in the
// form field and the matching cookie.
func CSRF(key []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName(CSRFCookie),
		csrf.FieldName(CSRFField),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})),
	)

	return func(c *gin.Context) {
		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if passed {
			return
		}

		logger.FromContext(c.Request.Context()).Warn("CSRF token rejected", logger.Fields{"path": c.Request.URL.Path})
		c.HTML(http.StatusForbidden, web.PageNotAuthorized, gin.H{
			"Title":       "Not authorized",
			"CurrentUser": CurrentUser(c),
			"Errors":      []string{"The form has expired. Reload the page and try again."},
			"CSRFField":   CSRFFieldHTML(c),
		})
		c.Abort()
	}
}

// CSRFFieldHTML is the hidden input every POST form embeds.
func CSRFFieldHTML(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}
