package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/internal/web"
)

// OwnersController adds property and image management to the owner pages.
type OwnersController struct {
	*peopleController[models.Owner]
	owners        *services.OwnerService
	properties    *services.PropertyService
	propertyTypes *services.PropertyTypeService
}

func NewOwnersController(owners *services.OwnerService, properties *services.PropertyService, propertyTypes *services.PropertyTypeService) *OwnersController {
	return &OwnersController{
		peopleController: &peopleController[models.Owner]{
			svc:         owners,
			name:        "Owners",
			singular:    "Owner",
			listKey:     "Owners",
			listPage:    web.PageOwners,
			detailsPage: web.PageOwnerDetails,
			inUse:       "The owner can't be deleted because it has properties or contracts.",
			userOf:      func(o *models.Owner) *models.User { return o.User },
		},
		owners:        owners,
		properties:    properties,
		propertyTypes: propertyTypes,
	}
}

func (ctl *OwnersController) Register(rg *gin.RouterGroup) {
	ctl.register(rg)
	rg.GET("/AddProperty/:id", ctl.AddPropertyForm)
	rg.POST("/AddProperty/:id", ctl.AddProperty)
	rg.GET("/DetailsProperty/:id", ctl.DetailsProperty)
	rg.GET("/EditProperty/:id", ctl.EditPropertyForm)
	rg.POST("/EditProperty/:id", ctl.EditProperty)
	rg.POST("/DeleteProperty/:id", ctl.DeleteProperty)
	rg.GET("/AddImage/:id", ctl.AddImageForm)
	rg.POST("/AddImage/:id", ctl.AddImage)
	rg.POST("/DeleteImage/:id", ctl.DeleteImage)
}

func propertyURL(id uint) string {
	return fmt.Sprintf("/Owners/DetailsProperty/%d", id)
}

func (ctl *OwnersController) renderPropertyForm(c *gin.Context, title, action string, form PropertyForm, errs []string) {
	types, err := ctl.propertyTypes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, web.PageOwnerProperty, title, gin.H{
		"Action":        action,
		"CancelURL":     detailsURL("Owners", form.OwnerID),
		"Form":          form,
		"PropertyTypes": types,
		"Errors":        errs,
	})
}

func (ctl *OwnersController) AddPropertyForm(c *gin.Context) {
	ownerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	exists, err := ctl.owners.Exists(c.Request.Context(), ownerID)
	if err != nil {
		serverError(c, err)
		return
	}
	if !exists {
		notFound(c)
		return
	}
	form := PropertyForm{OwnerID: ownerID, IsAvailable: true, Stratum: 1}
	ctl.renderPropertyForm(c, "Add Property", c.Request.URL.Path, form, nil)
}

func (ctl *OwnersController) AddProperty(c *gin.Context) {
	ownerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var form PropertyForm
	bindErr := c.ShouldBind(&form)
	form.OwnerID = ownerID
	if bindErr != nil {
		ctl.renderPropertyForm(c, "Add Property", c.Request.URL.Path, form, validationMessages(bindErr))
		return
	}

	_, err := ctl.properties.Create(c.Request.Context(), form.input())
	switch {
	case errors.Is(err, services.ErrInvalidReference):
		ctl.renderPropertyForm(c, "Add Property", c.Request.URL.Path, form, []string{"You must select a property type."})
		return
	case errors.Is(err, services.ErrInvalidInput):
		ctl.renderPropertyForm(c, "Add Property", c.Request.URL.Path, form, []string{"The submitted form is not valid."})
		return
	case err != nil:
		failed(c, err)
		return
	}
	redirect(c, detailsURL("Owners", ownerID))
}

func (ctl *OwnersController) renderProperty(c *gin.Context, status int, property *models.Property, errs []string) {
	render(c, status, web.PagePropertyDetails, "Property details", gin.H{"Property": property, "Errors": errs})
}

func (ctl *OwnersController) DetailsProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	property, err := ctl.properties.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderProperty(c, http.StatusOK, property, nil)
}

func (ctl *OwnersController) EditPropertyForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	property, err := ctl.properties.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderPropertyForm(c, "Edit Property", c.Request.URL.Path, propertyFormOf(property), nil)
}

func (ctl *OwnersController) EditProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	property, err := ctl.properties.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}

	var form PropertyForm
	bindErr := c.ShouldBind(&form)
	form.OwnerID = property.OwnerID
	if bindErr != nil {
		ctl.renderPropertyForm(c, "Edit Property", c.Request.URL.Path, form, validationMessages(bindErr))
		return
	}

	err = ctl.properties.Update(c.Request.Context(), id, form.input())
	switch {
	case errors.Is(err, services.ErrInvalidReference):
		ctl.renderPropertyForm(c, "Edit Property", c.Request.URL.Path, form, []string{"You must select a property type."})
		return
	case err != nil:
		failed(c, err)
		return
	}
	redirect(c, detailsURL("Owners", property.OwnerID))
}

func (ctl *OwnersController) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ownerID, err := ctl.properties.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrHasDependents) {
		property, getErr := ctl.properties.Get(c.Request.Context(), id)
		if getErr != nil {
			failed(c, getErr)
			return
		}
		ctl.renderProperty(c, http.StatusConflict, property, []string{"The property can't be deleted because it has contracts."})
		return
	}
	if err != nil {
		failed(c, err)
		return
	}
	redirect(c, detailsURL("Owners", ownerID))
}

func (ctl *OwnersController) renderAddImage(c *gin.Context, property *models.Property, errs []string) {
	render(c, http.StatusOK, web.PageAddImage, "Add Image", gin.H{"Property": property, "Errors": errs})
}

func (ctl *OwnersController) AddImageForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	property, err := ctl.properties.Get(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	ctl.renderAddImage(c, property, nil)
}

func (ctl *OwnersController) AddImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	property, err := ctl.properties.Get(ctx, id)
	if err != nil {
		failed(c, err)
		return
	}

	fh, err := c.FormFile("ImageFile")
	if err != nil {
		ctl.renderAddImage(c, property, []string{"You must select an image."})
		return
	}
	file, err := fh.Open()
	if err != nil {
		serverError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	start := time.Now()
	image, err := ctl.properties.AddImage(ctx, id, fh.Filename, file)
	if errors.Is(err, services.ErrInvalidInput) {
		ctl.renderAddImage(c, property, []string{"Only image files can be uploaded."})
		return
	}
	if err != nil {
		failed(c, err)
		return
	}
	logger.FromContext(ctx).Debug("Image uploaded", logger.Fields{
		"file_id":     image.FileID,
		"size":        fh.Size,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	redirect(c, propertyURL(id))
}

func (ctl *OwnersController) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	propertyID, err := ctl.properties.DeleteImage(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	redirect(c, propertyURL(propertyID))
}

// ImagesController streams stored property images.
type ImagesController struct {
	properties *services.PropertyService
}

func NewImagesController(properties *services.PropertyService) *ImagesController {
	return &ImagesController{properties: properties}
}

func (ctl *ImagesController) Show(c *gin.Context) {
	rc, info, err := ctl.properties.OpenImage(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		failed(c, err)
		return
	}
	defer rc.Close()

	contentType, disposition := info.ContentType, "inline"
	if !services.IsImageType(contentType) {
		contentType, disposition = "application/octet-stream", "attachment"
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, info.FileName))
	c.DataFromReader(http.StatusOK, info.Size, contentType, rc, nil)
}
