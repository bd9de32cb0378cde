package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/middleware"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

// AccountController signs users in and out.
type AccountController struct {
	accounts *auth.AccountService
}

func NewAccountController(accounts *auth.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (ctl *AccountController) LoginForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		redirect(c, "/")
		return
	}
	render(c, http.StatusOK, web.PageLogin, "Login", gin.H{
		"Form": LoginForm{ReturnUrl: c.Query("ReturnUrl")},
	})
}

func (ctl *AccountController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		render(c, http.StatusOK, web.PageLogin, "Login", gin.H{"Form": form, "Errors": validationMessages(err)})
		return
	}

	session, err := ctl.accounts.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		form.Password = ""
		render(c, http.StatusOK, web.PageLogin, "Login", gin.H{"Form": form, "Errors": []string{"Failed to login."}})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	maxAge := 0
	if form.RememberMe {
		maxAge = ctl.accounts.CookieMaxAge()
	}
	middleware.SetSessionCookie(c, session.Token, maxAge)

	if middleware.LocalURL(form.ReturnUrl) {
		redirect(c, form.ReturnUrl)
		return
	}
	redirect(c, "/")
}

func (ctl *AccountController) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if err := ctl.accounts.Logout(c.Request.Context(), token); err != nil {
			logger.FromContext(c.Request.Context()).Error("Failed to revoke session", err, nil)
		}
	}
	middleware.ClearSessionCookie(c)
	redirect(c, "/")
}

func (ctl *AccountController) NotAuthorized(c *gin.Context) {
	render(c, http.StatusOK, web.PageNotAuthorized, "Not authorized", nil)
}

// HomeController renders the landing page. Managers also see the totals.
type HomeController struct {
	dashboard *services.DashboardService
}

func NewHomeController(dashboard *services.DashboardService) *HomeController {
	return &HomeController{dashboard: dashboard}
}

func (ctl *HomeController) Index(c *gin.Context) {
	data := gin.H{}
	if user := middleware.CurrentUser(c); user != nil && user.Role == models.RoleManager {
		totals, err := ctl.dashboard.Totals(c.Request.Context())
		if err != nil {
			serverError(c, err)
			return
		}
		data["Totals"] = totals
	}
	render(c, http.StatusOK, web.PageHome, "Home", data)
}
