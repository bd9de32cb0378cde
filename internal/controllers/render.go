package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/middleware"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

// render executes page with the data every layout expects.
func render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["CSRFField"] = middleware.CSRFFieldHTML(c)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = []string(nil)
	}
	c.HTML(status, page, data)
}

// NotFound is the handler for unknown routes.
func NotFound(c *gin.Context) {
	notFound(c)
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, web.PageNotFound, "Not found", nil)
}

func serverError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("Request failed", err, logger.Fields{"path": c.Request.URL.Path})
	render(c, http.StatusInternalServerError, web.PageError, "Error", gin.H{"TraceID": middleware.TraceID(c)})
}

// failed maps a service error to the not found or error page.
func failed(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		notFound(c)
		return
	}
	serverError(c, err)
}

// parseID reads a positive numeric route parameter, rendering 404 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		notFound(c)
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
