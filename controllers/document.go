package controllers

import (
	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Documents(router *gin.Engine) {
	docs := router.Group("/documents")
	{
		docs.POST("/upload", ctl.gate.Authorize(models.ModuleDocuments, models.ActionCreate), ctl.UploadDocument)
		docs.GET("/fetchAll", ctl.gate.Authorize(models.ModuleDocuments, models.ActionRead), ctl.FetchDocuments)
		docs.GET("/fetch/:id", ctl.gate.Authorize(models.ModuleDocuments, models.ActionRead), ctl.FetchDocument)
		docs.DELETE("/delete/:id", ctl.gate.Authorize(models.ModuleDocuments, models.ActionDelete), ctl.DeleteDocument)
	}
}

/*
* Multipart form: file, title, category and employeeId
* The file is streamed to the object store
 */
func (ctl *Controller) UploadDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, util.Validation("file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(c, util.Validation("file could not be read"))
		return
	}
	defer file.Close()

	doc, err := ctl.svc.Documents.UploadDocument(c.Request.Context(), authorization.TenantFrom(c), services.UploadInput{
		Title:       c.PostForm("title"),
		Category:    c.PostForm("category"),
		EmployeeID:  c.PostForm("employeeId"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	}, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, doc)
}

func (ctl *Controller) FetchDocuments(c *gin.Context) {
	employeeID, err := optionalID(c.Query("employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	docs, err := ctl.svc.Documents.ListDocuments(c.Request.Context(), authorization.TenantFrom(c), employeeID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, docs)
}

func (ctl *Controller) FetchDocument(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	doc, err := ctl.svc.Documents.GetDocument(c.Request.Context(), authorization.TenantFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, doc)
}

// The stored object goes first; the metadata is removed even if that fails.
func (ctl *Controller) DeleteDocument(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Documents.DeleteDocument(c.Request.Context(), authorization.TenantFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}
