package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/internal/middleware"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/service"
	"github.com/noah-isme/visa-admin/internal/view"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeApplicationSrv struct {
	list        *service.ApplicationList
	listErr     error
	detail      *models.ApplicationDetail
	detailErr   error
	changeRes   *models.StatusChangeResult
	changeErr   error
	reminderErr error
	govRefErr   error

	lastActor  service.Actor
	lastGovRef models.GovRefRequest
	lastTarget models.GovRefTarget
}

func (f *fakeApplicationSrv) List(context.Context, string, grid.Query) (*service.ApplicationList, error) {
	return f.list, f.listErr
}

func (f *fakeApplicationSrv) Detail(_ context.Context, _, _ string, actor service.Actor) (*models.ApplicationDetail, error) {
	f.lastActor = actor
	return f.detail, f.detailErr
}

func (f *fakeApplicationSrv) ChangeStatus(_ context.Context, _, _ string, _ models.StatusChangeRequest, actor service.Actor) (*models.StatusChangeResult, error) {
	f.lastActor = actor
	return f.changeRes, f.changeErr
}

func (f *fakeApplicationSrv) SendReminder(_ context.Context, _, _ string, _ models.ReminderType, actor service.Actor) error {
	f.lastActor = actor
	return f.reminderErr
}

func (f *fakeApplicationSrv) SaveGovRef(_ context.Context, _ string, req models.GovRefRequest) error {
	f.lastGovRef = req
	return f.govRefErr
}

func (f *fakeApplicationSrv) GetGovRef(_ context.Context, _ string, target models.GovRefTarget) (*models.GovRefDetails, error) {
	f.lastTarget = target
	return &models.GovRefDetails{ReferenceNumber: "GOV-1"}, f.govRefErr
}

func (f *fakeApplicationSrv) DeleteGovRef(_ context.Context, _ string, target models.GovRefTarget) error {
	f.lastTarget = target
	return f.govRefErr
}

func (f *fakeApplicationSrv) Table() *grid.Table[models.VisaApplication] {
	return service.NewApplicationTable(10)
}

type fakeExportSrv struct {
	result *service.ExportResult
	err    error
	format service.ExportFormat
}

func (f *fakeExportSrv) Export(_ context.Context, _ string, format service.ExportFormat, _ grid.Query) (*service.ExportResult, error) {
	f.format = format
	return f.result, f.err
}

var testSession = &models.Session{
	ID:   "sess-1",
	User: models.UserProfile{ID: "u-1", Email: "olive@example.com", FullName: "Olive Ops"},
}

func newAppRouter(svc *fakeApplicationSrv, export *fakeExportSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(view.MustTemplates())
	r.Use(middleware.WithResponseMeta())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, testSession)
		c.Next()
	})

	h := NewApplicationHandler(svc, export)
	r.GET("/modules/:module", h.ListPage)
	r.GET("/modules/:module/export.csv", h.ExportCSV)
	r.GET("/modules/:module/applications/:id", h.DetailPage)
	apps := r.Group("/api/v1/modules/:module/applications")
	apps.PUT("/:id/status", h.ChangeStatus)
	apps.POST("/:id/reminders/:type", h.SendReminder)
	apps.POST("/:id/gov-ref", h.SaveGovRef)
	apps.GET("/:id/gov-ref/:applicantType/:index", h.GetGovRef)
	apps.DELETE("/:id/gov-ref/:applicantType", h.DeleteGovRef)
	return r
}

func perform(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListPageUnknownModule(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{}, &fakeExportSrv{})

	w := perform(r, http.MethodGet, "/modules/atlantis", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown module")
}

func TestListPageBackendFailureShowsMessage(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{listErr: appErrors.ErrBackendUnavailable}, &fakeExportSrv{})

	w := perform(r, http.MethodGet, "/modules/india", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "something went wrong, please try again")
}

func TestListPageUnauthorizedRedirects(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{listErr: appErrors.ErrUnauthorized}, &fakeExportSrv{})

	w := perform(r, http.MethodGet, "/modules/india", "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fmodules%2Findia", w.Header().Get("Location"))
}

func TestDetailPageNotFound(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{detailErr: appErrors.Clone(appErrors.ErrNotFound, "application not found")}, &fakeExportSrv{})

	w := perform(r, http.MethodGet, "/modules/kenya/applications/zzz", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "application not found")
}

func TestChangeStatusFailureCarriesRevertStatus(t *testing.T) {
	svc := &fakeApplicationSrv{
		changeRes: &models.StatusChangeResult{Status: models.StatusPending, Previous: models.StatusPending},
		changeErr: appErrors.ErrBackendUnavailable,
	}
	r := newAppRouter(svc, &fakeExportSrv{})

	w := perform(r, http.MethodPut, "/api/v1/modules/india/applications/a1/status", `{"status":"processed","previousStatus":"pending"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "pending", env.Meta["status"])
	assert.Equal(t, "something went wrong, please try again", env.Meta["toast"])
	assert.Equal(t, "olive@example.com", svc.lastActor.Email)
}

func TestChangeStatusSuccessToast(t *testing.T) {
	svc := &fakeApplicationSrv{changeRes: &models.StatusChangeResult{Status: models.StatusProcessed, Previous: models.StatusPending, Applied: true}}
	r := newAppRouter(svc, &fakeExportSrv{})

	w := perform(r, http.MethodPut, "/api/v1/modules/india/applications/a1/status", `{"status":"processed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Status updated to processed", env.Meta["toast"])
}

func TestChangeStatusRejectsMalformedBody(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{}, &fakeExportSrv{})

	w := perform(r, http.MethodPut, "/api/v1/modules/india/applications/a1/status", `{"status":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendReminderInFlight(t *testing.T) {
	r := newAppRouter(&fakeApplicationSrv{reminderErr: appErrors.ErrReminderInFlight}, &fakeExportSrv{})

	w := perform(r, http.MethodPost, "/api/v1/modules/india/applications/a1/reminders/payment", "")

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "REMINDER_IN_FLIGHT", env.Error.Code)
}

func TestSendReminderSuccessToast(t *testing.T) {
	svc := &fakeApplicationSrv{}
	r := newAppRouter(svc, &fakeExportSrv{})

	w := perform(r, http.MethodPost, "/api/v1/modules/india/applications/a1/reminders/document", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Document reminder sent", decodeEnvelope(t, w).Meta["toast"])
	assert.Equal(t, "sess-1", svc.lastActor.SessionID)
}

func TestSaveGovRefTakesIDFromPath(t *testing.T) {
	svc := &fakeApplicationSrv{}
	r := newAppRouter(svc, &fakeExportSrv{})

	w := perform(r, http.MethodPost, "/api/v1/modules/kenya/applications/a7/gov-ref",
		`{"applicationId":"other","applicantType":"main","referenceNumber":"GOV-7"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a7", svc.lastGovRef.ApplicationID)
	assert.Equal(t, "GOV-7", svc.lastGovRef.ReferenceNumber)
}

func TestGovRefIndexParsing(t *testing.T) {
	svc := &fakeApplicationSrv{}
	r := newAppRouter(svc, &fakeExportSrv{})

	w := perform(r, http.MethodGet, "/api/v1/modules/india/applications/a1/gov-ref/additional/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastTarget.Index)
	assert.Equal(t, 2, *svc.lastTarget.Index)

	w = perform(r, http.MethodGet, "/api/v1/modules/india/applications/a1/gov-ref/additional/-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodDelete, "/api/v1/modules/india/applications/a1/gov-ref/main", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.lastTarget.Index)
	assert.Equal(t, "Government reference deleted", decodeEnvelope(t, w).Meta["toast"])
}

func TestExportCSVDownload(t *testing.T) {
	export := &fakeExportSrv{result: &service.ExportResult{
		Filename:    "india-applications-20240301-0930.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Application ID\na1\n"),
	}}
	r := newAppRouter(&fakeApplicationSrv{}, export)

	w := perform(r, http.MethodGet, "/modules/india/export.csv?q=a1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportCSV, export.format)
	assert.Equal(t, `attachment; filename="india-applications-20240301-0930.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Application ID\na1\n", w.Body.String())
}
