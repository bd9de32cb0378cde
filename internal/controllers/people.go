package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

// peopleService is implemented by the owner, lessee and manager services.
type peopleService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in services.NewUser) (*T, error)
	Update(ctx context.Context, id uint, p services.UserProfile) error
	Delete(ctx context.Context, id uint) error
}

// peopleController serves the Index, Details, Create, Edit and Delete
// actions shared by every entity that wraps a User.
type peopleController[T any] struct {
	svc peopleService[T]

	name        string // route prefix, also the index title
	singular    string
	listKey     string
	detailsPage string
	listPage    string
	inUse       string
	userOf      func(*T) *models.User
}

func (ctl *peopleController[T]) index() string {
	return "/" + ctl.name
}

func (ctl *peopleController[T]) Index(c *gin.Context) {
	items, err := ctl.svc.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, ctl.listPage, ctl.name, gin.H{ctl.listKey: items})
}

func (ctl *peopleController[T]) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	render(c, http.StatusOK, ctl.detailsPage, ctl.singular+" details", gin.H{ctl.singular: item})
}

func (ctl *peopleController[T]) renderCreate(c *gin.Context, form AddUserForm, errs []string) {
	form.Password, form.PasswordConfirm = "", ""
	render(c, http.StatusOK, web.PageUserCreate, "Create "+ctl.singular, gin.H{
		"Controller": ctl.name,
		"Form":       form,
		"Errors":     errs,
	})
}

func (ctl *peopleController[T]) CreateForm(c *gin.Context) {
	ctl.renderCreate(c, AddUserForm{}, nil)
}

func (ctl *peopleController[T]) Create(c *gin.Context) {
	var form AddUserForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderCreate(c, form, validationMessages(err))
		return
	}

	_, err := ctl.svc.Create(c.Request.Context(), form.newUser())
	switch {
	case errors.Is(err, services.ErrEmailInUse):
		ctl.renderCreate(c, form, []string{"This email is already used."})
		return
	case errors.Is(err, services.ErrInvalidInput):
		ctl.renderCreate(c, form, []string{"The submitted form is not valid."})
		return
	case err != nil:
		serverError(c, err)
		return
	}
	redirect(c, ctl.index())
}

func (ctl *peopleController[T]) renderEdit(c *gin.Context, id uint, form EditUserForm, errs []string) {
	render(c, http.StatusOK, web.PageUserEdit, "Edit "+ctl.singular, gin.H{
		"Controller": ctl.name,
		"ID":         id,
		"Form":       form,
		"Errors":     errs,
	})
}

func (ctl *peopleController[T]) EditForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderEdit(c, id, editUserFormOf(ctl.userOf(item)), nil)
}

func (ctl *peopleController[T]) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := ctl.svc.Get(c.Request.Context(), id); err != nil {
		failed(c, err)
		return
	}
	var form EditUserForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderEdit(c, id, form, validationMessages(err))
		return
	}
	if err := ctl.svc.Update(c.Request.Context(), id, form.profile()); err != nil {
		failed(c, err)
		return
	}
	redirect(c, ctl.index())
}

func (ctl *peopleController[T]) renderDelete(c *gin.Context, status int, id uint, user *models.User, errs []string) {
	render(c, status, web.PageUserDelete, "Delete "+ctl.singular, gin.H{
		"Controller": ctl.name,
		"ID":         id,
		"User":       user,
		"Errors":     errs,
	})
}

func (ctl *peopleController[T]) DeleteConfirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ctl.svc.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderDelete(c, http.StatusOK, id, ctl.userOf(item), nil)
}

func (ctl *peopleController[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := ctl.svc.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrHasDependents) {
		item, getErr := ctl.svc.Get(c.Request.Context(), id)
		if getErr != nil {
			failed(c, getErr)
			return
		}
		ctl.renderDelete(c, http.StatusConflict, id, ctl.userOf(item), []string{ctl.inUse})
		return
	}
	if err != nil {
		failed(c, err)
		return
	}
	redirect(c, ctl.index())
}

// register mounts the shared actions under rg.
func (ctl *peopleController[T]) register(rg *gin.RouterGroup) {
	rg.GET("", ctl.Index)
	rg.GET("/Details/:id", ctl.Details)
	rg.GET("/Create", ctl.CreateForm)
	rg.POST("/Create", ctl.Create)
	rg.GET("/Edit/:id", ctl.EditForm)
	rg.POST("/Edit/:id", ctl.Edit)
	rg.GET("/Delete/:id", ctl.DeleteConfirm)
	rg.POST("/Delete/:id", ctl.Delete)
}

type LesseesController struct {
	*peopleController[models.Lessee]
}

func NewLesseesController(lessees *services.LesseeService) *LesseesController {
	return &LesseesController{&peopleController[models.Lessee]{
		svc:         lessees,
		name:        "Lessees",
		singular:    "Lessee",
		listKey:     "Lessees",
		listPage:    web.PageLessees,
		detailsPage: web.PageLesseeDetails,
		inUse:       "The lessee can't be deleted because it has contracts.",
		userOf:      func(l *models.Lessee) *models.User { return l.User },
	}}
}

func (ctl *LesseesController) Register(rg *gin.RouterGroup) {
	ctl.register(rg)
}

type ManagersController struct {
	*peopleController[models.Manager]
}

func NewManagersController(managers *services.ManagerService) *ManagersController {
	return &ManagersController{&peopleController[models.Manager]{
		svc:         managers,
		name:        "Managers",
		singular:    "Manager",
		listKey:     "Managers",
		listPage:    web.PageManagers,
		detailsPage: web.PageManagerDetails,
		inUse:       "The last manager can't be deleted.",
		userOf:      func(m *models.Manager) *models.User { return m.User },
	}}
}

func (ctl *ManagersController) Register(rg *gin.RouterGroup) {
	ctl.register(rg)
}

func detailsURL(prefix string, id uint) string {
	return fmt.Sprintf("/%s/Details/%d", prefix, id)
}
