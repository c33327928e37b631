// Package view holds the server-rendered pages of the dashboard and the models they render.
package view

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// Template names.
const (
	LoginTemplate  = "login.html"
	HomeTemplate   = "home.html"
	ListTemplate   = "list.html"
	DetailTemplate = "detail.html"
	ErrorTemplate  = "error.html"
)

// Templates parses every page template with the shared helpers.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// MustTemplates is Templates for process startup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"statusTone": func(s models.ApplicationStatus) string { return s.Tone() },
		"paymentTone": func(p models.PaymentStatus) string {
			return p.Tone()
		},
		"dateTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.UTC().Format("02 Jan 2006 15:04 UTC")
		},
		"orDash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return s
		},
		"add": func(a, b int) int { return a + b },
		// qs marks an already encoded query string as safe to splice after "?".
		"qs": func(s string) template.URL { return template.URL(s) },
		"sortMark": func(o grid.SortOrder) string {
			switch o {
			case grid.Asc:
				return "▲"
			case grid.Desc:
				return "▼"
			}
			return ""
		},
	}
}

// Base is embedded by every page model.
type Base struct {
	Title   string
	User    models.UserProfile
	Modules []models.Module
	Active  string
}

// LoginPage renders the login form.
type LoginPage struct {
	Base
	Email string
	Next  string
	Error string
}

// HomePage renders the per-module summary.
type HomePage struct {
	Base
	Summary *models.DashboardSummary
}

// ListPage renders one module's table.
type ListPage struct {
	Base
	Module   models.Module
	Page     grid.Page[models.VisaApplication]
	Columns  []grid.Header
	Error    string
	ExportQS string
}

// DetailPage renders one application.
type DetailPage struct {
	Base
	Detail   *models.ApplicationDetail
	Statuses []models.ApplicationStatus
	// Known is false when the record carries a status outside the selectable set.
	Known bool
}

// ErrorPage renders a full-page failure.
type ErrorPage struct {
	Base
	Status  int
	Message string
}

// IsSelected reports whether s is the application's current status.
func (p DetailPage) IsSelected(s models.ApplicationStatus) bool {
	return p.Detail != nil && p.Detail.Application != nil && p.Detail.Application.ApplicationStatus == s
}

// IsSending reports whether reminder t is pending for this record.
func (p DetailPage) IsSending(t models.ReminderType) bool {
	return p.Detail != nil && p.Detail.Sending == t
}
