package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/service"
	"github.com/noah-isme/visa-admin/internal/view"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
	"github.com/noah-isme/visa-admin/pkg/response"
)

type applicationService interface {
	List(ctx context.Context, module string, q grid.Query) (*service.ApplicationList, error)
	Detail(ctx context.Context, module, id string, actor service.Actor) (*models.ApplicationDetail, error)
	ChangeStatus(ctx context.Context, module, id string, req models.StatusChangeRequest, actor service.Actor) (*models.StatusChangeResult, error)
	SendReminder(ctx context.Context, module, id string, t models.ReminderType, actor service.Actor) error
	SaveGovRef(ctx context.Context, module string, req models.GovRefRequest) error
	GetGovRef(ctx context.Context, module string, target models.GovRefTarget) (*models.GovRefDetails, error)
	DeleteGovRef(ctx context.Context, module string, target models.GovRefTarget) error
	Table() *grid.Table[models.VisaApplication]
}

type exportService interface {
	Export(ctx context.Context, module string, format service.ExportFormat, q grid.Query) (*service.ExportResult, error)
}

// ApplicationHandler serves the list and detail views and the mutations they trigger.
type ApplicationHandler struct {
	service applicationService
	export  exportService
}

// NewApplicationHandler creates the handler.
func NewApplicationHandler(svc applicationService, export exportService) *ApplicationHandler {
	return &ApplicationHandler{service: svc, export: export}
}

// ListPage renders the table of a module.
func (h *ApplicationHandler) ListPage(c *gin.Context) {
	name := c.Param("module")
	m, ok := models.LookupModule(name)
	if !ok {
		renderPageError(c, appErrors.Clone(appErrors.ErrNotFound, "unknown module"))
		return
	}
	q := grid.ParseQuery(c.Request.URL.Query())
	page := view.ListPage{
		Base:     baseView(c, m.Title+" applications", m.Name),
		Module:   m,
		Columns:  columnHeaders(h.service.Table()),
		ExportQS: q.Encode(),
	}

	list, err := h.service.List(c.Request.Context(), m.Name, q)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrUnauthorized.Code {
			renderPageError(c, err)
			return
		}
		page.Error = appErr.Message
		renderPage(c, appErr.Status, view.ListTemplate, page)
		return
	}
	page.Page = list.Page
	page.ExportQS = list.Page.Query.Encode()
	renderPage(c, http.StatusOK, view.ListTemplate, page)
}

// List godoc
// @Summary List applications of a module
// @Tags Applications
// @Produce json
// @Param module path string true "Module" Enums(india, ethiopia, kenya, egypt)
// @Param q query string false "Free-text filter"
// @Param sort query string false "Column key"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Param("module"), grid.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]models.VisaApplication, 0, len(list.Page.Rows))
	for _, row := range list.Page.Rows {
		items = append(items, row.Item)
	}
	pagination := &models.Pagination{
		Page:       list.Page.Page,
		PageSize:   list.Page.PageSize,
		TotalCount: list.Page.Total,
		TotalPages: list.Page.TotalPages,
	}
	response.JSON(c, http.StatusOK, items, pagination, map[string]interface{}{
		"facets":     list.Page.Facets,
		"unfiltered": list.Page.Unfiltered,
	})
}

// DetailPage renders one application.
func (h *ApplicationHandler) DetailPage(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("module"), c.Param("id"), actorFromContext(c))
	if err != nil {
		renderPageError(c, err)
		return
	}
	_, known := models.ParseApplicationStatus(string(detail.Application.ApplicationStatus))
	renderPage(c, http.StatusOK, view.DetailTemplate, view.DetailPage{
		Base:     baseView(c, fmt.Sprintf("%s application %s", detail.Module.Title, detail.Application.ID), detail.Module.Name),
		Detail:   detail,
		Statuses: models.ApplicationStatuses,
		Known:    known,
	})
}

// Detail godoc
// @Summary Get one application
// @Tags Applications
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id} [get]
func (h *ApplicationHandler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("module"), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ChangeStatus godoc
// @Summary Change application status
// @Description On failure meta.status holds the status the page must revert to.
// @Tags Applications
// @Accept json
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Param payload body models.StatusChangeRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id}/status [put]
func (h *ApplicationHandler) ChangeStatus(c *gin.Context) {
	var req models.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		toastError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"), nil)
		return
	}
	result, err := h.service.ChangeStatus(c.Request.Context(), c.Param("module"), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		extra := map[string]interface{}{}
		if result != nil {
			extra["status"] = result.Status
		}
		toastError(c, err, extra)
		return
	}
	toastOK(c, result, fmt.Sprintf("Status updated to %s", result.Status))
}

// SendReminder godoc
// @Summary Send a reminder email
// @Tags Applications
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Param type path string true "Reminder type" Enums(document, payment, passport, photo, incomplete)
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id}/reminders/{type} [post]
func (h *ApplicationHandler) SendReminder(c *gin.Context) {
	t := models.ReminderType(c.Param("type"))
	if err := h.service.SendReminder(c.Request.Context(), c.Param("module"), c.Param("id"), t, actorFromContext(c)); err != nil {
		toastError(c, err, nil)
		return
	}
	toastOK(c, gin.H{"type": t}, t.Label()+" sent")
}

// SaveGovRef godoc
// @Summary Save government reference details
// @Tags Government references
// @Accept json
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Param payload body models.GovRefRequest true "Reference details"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id}/gov-ref [post]
func (h *ApplicationHandler) SaveGovRef(c *gin.Context) {
	var req models.GovRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		toastError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid government reference"), nil)
		return
	}
	req.ApplicationID = c.Param("id")
	if err := h.service.SaveGovRef(c.Request.Context(), c.Param("module"), req); err != nil {
		toastError(c, err, nil)
		return
	}
	toastOK(c, req, "Government reference saved")
}

// GetGovRef godoc
// @Summary Read government reference details
// @Tags Government references
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Param applicantType path string true "main or additional"
// @Param index path int false "Additional applicant index"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id}/gov-ref/{applicantType}/{index} [get]
func (h *ApplicationHandler) GetGovRef(c *gin.Context) {
	target, err := govRefTarget(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	details, err := h.service.GetGovRef(c.Request.Context(), c.Param("module"), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// DeleteGovRef godoc
// @Summary Delete government reference details
// @Tags Government references
// @Produce json
// @Param module path string true "Module"
// @Param id path string true "Application ID"
// @Param applicantType path string true "main or additional"
// @Param index path int false "Additional applicant index"
// @Success 200 {object} response.Envelope
// @Router /api/v1/modules/{module}/applications/{id}/gov-ref/{applicantType}/{index} [delete]
func (h *ApplicationHandler) DeleteGovRef(c *gin.Context) {
	target, err := govRefTarget(c)
	if err != nil {
		toastError(c, err, nil)
		return
	}
	if err := h.service.DeleteGovRef(c.Request.Context(), c.Param("module"), target); err != nil {
		toastError(c, err, nil)
		return
	}
	toastOK(c, nil, "Government reference deleted")
}

// ExportCSV downloads the filtered list as CSV.
func (h *ApplicationHandler) ExportCSV(c *gin.Context) {
	h.download(c, service.ExportCSV)
}

// ExportPDF downloads the filtered list as PDF.
func (h *ApplicationHandler) ExportPDF(c *gin.Context) {
	h.download(c, service.ExportPDF)
}

func (h *ApplicationHandler) download(c *gin.Context, format service.ExportFormat) {
	result, err := h.export.Export(c.Request.Context(), c.Param("module"), format, grid.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func govRefTarget(c *gin.Context) (models.GovRefTarget, error) {
	target := models.GovRefTarget{
		ApplicationID: c.Param("id"),
		ApplicantType: models.ApplicantType(c.Param("applicantType")),
	}
	if raw := c.Param("index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 {
			return target, appErrors.Clone(appErrors.ErrValidation, "applicant index must be a non-negative number")
		}
		target.Index = &idx
	}
	return target, nil
}

func columnHeaders(table *grid.Table[models.VisaApplication]) []grid.Header {
	cols := table.Columns()
	out := make([]grid.Header, 0, len(cols))
	for _, col := range cols {
		out = append(out, grid.Header{Key: col.Key, Title: col.Header, Sortable: col.Sortable, Filterable: col.Filterable})
	}
	return out
}
