package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

type ContractsController struct {
	contracts  *services.ContractService
	owners     *services.OwnerService
	lessees    *services.LesseeService
	properties *services.PropertyService
}

func NewContractsController(contracts *services.ContractService, owners *services.OwnerService, lessees *services.LesseeService, properties *services.PropertyService) *ContractsController {
	return &ContractsController{contracts: contracts, owners: owners, lessees: lessees, properties: properties}
}

func (ctl *ContractsController) Register(rg *gin.RouterGroup) {
	rg.GET("", ctl.Index)
	rg.GET("/Details/:id", ctl.Details)
	rg.GET("/Create", ctl.CreateForm)
	rg.POST("/Create", ctl.Create)
	rg.GET("/Edit/:id", ctl.EditForm)
	rg.POST("/Edit/:id", ctl.Edit)
	rg.GET("/Delete/:id", ctl.DeleteConfirm)
	rg.POST("/Delete/:id", ctl.Delete)
}

func (ctl *ContractsController) Index(c *gin.Context) {
	contracts, err := ctl.contracts.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, web.PageContracts, "Contracts", gin.H{"Contracts": contracts})
}

func (ctl *ContractsController) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contract, err := ctl.contracts.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	render(c, http.StatusOK, web.PageContractDetails, "Contract details", gin.H{"Contract": contract})
}

// renderForm fills the owner, property and lessee combos.
func (ctl *ContractsController) renderForm(c *gin.Context, title, action string, form ContractForm, errs []string) {
	ctx := c.Request.Context()
	owners, err := ctl.owners.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	lessees, err := ctl.lessees.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	properties, err := ctl.properties.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, web.PageContractForm, title, gin.H{
		"Action":     action,
		"Form":       form,
		"Owners":     owners,
		"Lessees":    lessees,
		"Properties": properties,
		"Errors":     errs,
	})
}

func contractMessages(err error) ([]string, bool) {
	switch {
	case errors.Is(err, services.ErrPropertyNotOwned):
		return []string{"The property does not belong to the selected owner."}, true
	case errors.Is(err, services.ErrInvalidReference):
		return []string{"The selected owner, lessee or property does not exist."}, true
	case errors.Is(err, services.ErrInvalidInput):
		return []string{"The end date must not be before the start date."}, true
	}
	return nil, false
}

func (ctl *ContractsController) CreateForm(c *gin.Context) {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	form := ContractForm{
		OwnerID:    queryID(c, "ownerId"),
		PropertyID: queryID(c, "propertyId"),
		StartDate:  start,
		EndDate:    start.AddDate(1, 0, 0),
		IsActive:   true,
	}
	ctl.renderForm(c, "Create Contract", "/Contracts/Create", form, nil)
}

func (ctl *ContractsController) Create(c *gin.Context) {
	var form ContractForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, "Create Contract", "/Contracts/Create", form, validationMessages(err))
		return
	}
	contract, err := ctl.contracts.Create(c.Request.Context(), form.input())
	if err != nil {
		if msgs, ok := contractMessages(err); ok {
			ctl.renderForm(c, "Create Contract", "/Contracts/Create", form, msgs)
			return
		}
		serverError(c, err)
		return
	}
	redirect(c, detailsURL("Contracts", contract.ID))
}

func (ctl *ContractsController) EditForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contract, err := ctl.contracts.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderForm(c, "Edit Contract", fmt.Sprintf("/Contracts/Edit/%d", id), contractFormOf(contract), nil)
}

func (ctl *ContractsController) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := ctl.contracts.Get(c.Request.Context(), id); err != nil {
		failed(c, err)
		return
	}
	action := fmt.Sprintf("/Contracts/Edit/%d", id)
	var form ContractForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderForm(c, "Edit Contract", action, form, validationMessages(err))
		return
	}
	if err := ctl.contracts.Update(c.Request.Context(), id, form.input()); err != nil {
		if msgs, ok := contractMessages(err); ok {
			ctl.renderForm(c, "Edit Contract", action, form, msgs)
			return
		}
		failed(c, err)
		return
	}
	redirect(c, detailsURL("Contracts", id))
}

func (ctl *ContractsController) DeleteConfirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contract, err := ctl.contracts.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	render(c, http.StatusOK, web.PageContractDelete, "Delete Contract", gin.H{"Contract": contract})
}

func (ctl *ContractsController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.contracts.Delete(c.Request.Context(), id); err != nil {
		failed(c, err)
		return
	}
	redirect(c, "/Contracts")
}
