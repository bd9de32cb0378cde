package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/web"
)

const (
	SessionCookie  = "myleasing_session"
	LoginPath      = "/Account/Login"
	currentUserKey = "current_user"
)

// Authenticator resolves a session token into claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Authenticate decodes the session cookie. Requests without a valid session
// pass through anonymously and a stale cookie is cleared.
func Authenticate(accounts Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := accounts.Authenticate(ctx, token)
		if err != nil {
			log := logger.FromContext(ctx)
			if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrTokenRevoked) {
				log.Debug("Session rejected", logger.Fields{"reason": err.Error()})
			} else {
				log.Error("Failed to authenticate session", err, nil)
			}
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(currentUserKey, claims)
		reqLogger := logger.FromContext(ctx).WithFields(logger.Fields{"user_id": claims.UserID})
		c.Request = c.Request.WithContext(logger.ContextWithLogger(ctx, reqLogger))
		c.Next()
	}
}

// CurrentUser returns the claims of the signed in user or nil.
func CurrentUser(c *gin.Context) *auth.Claims {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequireRole lets through users holding one of roles. Anonymous users are
// sent to the login page, other users get the not authorized page.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			c.Redirect(http.StatusFound, LoginPath+"?ReturnUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !slices.Contains(roles, claims.Role) {
			logger.FromContext(c.Request.Context()).Warn("Access denied", logger.Fields{"role": claims.Role, "path": c.Request.URL.Path})
			c.HTML(http.StatusForbidden, web.PageNotAuthorized, gin.H{
				"Title":       "Not authorized",
				"CurrentUser": claims,
				"CSRFField":   CSRFFieldHTML(c),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie. A
// maxAge of zero makes it a browser session cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

// LocalURL reports whether target is a path on this site.
func LocalURL(target string) bool {
	if target == "" || target[0] != '/' {
		return false
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	u, err := url.Parse(target)
	return err == nil && u.Host == "" && u.Scheme == ""
}
