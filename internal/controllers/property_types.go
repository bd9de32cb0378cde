package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

type PropertyTypesController struct {
	propertyTypes *services.PropertyTypeService
}

func NewPropertyTypesController(propertyTypes *services.PropertyTypeService) *PropertyTypesController {
	return &PropertyTypesController{propertyTypes: propertyTypes}
}

func (ctl *PropertyTypesController) Register(rg *gin.RouterGroup) {
	rg.GET("", ctl.Index)
	rg.GET("/Details/:id", ctl.Details)
	rg.GET("/Create", ctl.CreateForm)
	rg.POST("/Create", ctl.Create)
	rg.GET("/Edit/:id", ctl.EditForm)
	rg.POST("/Edit/:id", ctl.Edit)
	rg.GET("/Delete/:id", ctl.DeleteConfirm)
	rg.POST("/Delete/:id", ctl.Delete)
}

func (ctl *PropertyTypesController) Index(c *gin.Context) {
	types, err := ctl.propertyTypes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, web.PagePropertyTypes, "Property Types", gin.H{"PropertyTypes": types})
}

func (ctl *PropertyTypesController) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pt, err := ctl.propertyTypes.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	render(c, http.StatusOK, web.PagePropertyTypeDetails, "Property Type details", gin.H{"PropertyType": pt})
}

func (ctl *PropertyTypesController) renderForm(c *gin.Context, title, action string, form PropertyTypeForm, errs []string) {
	render(c, http.StatusOK, web.PagePropertyTypeForm, title, gin.H{
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

// saveMessages maps the errors of Create and Update to form messages.
func saveMessages(err error) ([]string, bool) {
	switch {
	case errors.Is(err, services.ErrNameInUse):
		return []string{"There is already a property type with this name."}, true
	case errors.Is(err, services.ErrInvalidInput):
		return []string{"The field Name is mandatory."}, true
	}
	return nil, false
}

func (ctl *PropertyTypesController) CreateForm(c *gin.Context) {
	ctl.renderForm(c, "Create Property Type", "/PropertyTypes/Create", PropertyTypeForm{}, nil)
}

func (ctl *PropertyTypesController) Create(c *gin.Context) {
	var form PropertyTypeForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, "Create Property Type", "/PropertyTypes/Create", form, validationMessages(err))
		return
	}
	if _, err := ctl.propertyTypes.Create(c.Request.Context(), form.Name); err != nil {
		if msgs, ok := saveMessages(err); ok {
			ctl.renderForm(c, "Create Property Type", "/PropertyTypes/Create", form, msgs)
			return
		}
		serverError(c, err)
		return
	}
	redirect(c, "/PropertyTypes")
}

func (ctl *PropertyTypesController) EditForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pt, err := ctl.propertyTypes.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderForm(c, "Edit Property Type", fmt.Sprintf("/PropertyTypes/Edit/%d", id), PropertyTypeForm{Name: pt.Name}, nil)
}

func (ctl *PropertyTypesController) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := ctl.propertyTypes.Get(c.Request.Context(), id); err != nil {
		failed(c, err)
		return
	}
	action := fmt.Sprintf("/PropertyTypes/Edit/%d", id)
	var form PropertyTypeForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, "Edit Property Type", action, form, validationMessages(err))
		return
	}
	if err := ctl.propertyTypes.Update(c.Request.Context(), id, form.Name); err != nil {
		if msgs, ok := saveMessages(err); ok {
			ctl.renderForm(c, "Edit Property Type", action, form, msgs)
			return
		}
		failed(c, err)
		return
	}
	redirect(c, "/PropertyTypes")
}

func (ctl *PropertyTypesController) DeleteConfirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pt, err := ctl.propertyTypes.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	render(c, http.StatusOK, web.PagePropertyTypeDelete, "Delete Property Type", gin.H{"PropertyType": pt})
}

func (ctl *PropertyTypesController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := ctl.propertyTypes.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrHasDependents) {
		pt, getErr := ctl.propertyTypes.Get(c.Request.Context(), id)
		if getErr != nil {
			failed(c, getErr)
			return
		}
		render(c, http.StatusConflict, web.PagePropertyTypeDelete, "Delete Property Type", gin.H{
			"PropertyType": pt,
			"Errors":       []string{"The property type can't be deleted because it has properties."},
		})
		return
	}
	if err != nil {
		failed(c, err)
		return
	}
	redirect(c, "/PropertyTypes")
}
