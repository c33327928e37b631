package service

import (
	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/internal/models"
)

const dateLayout = "2006-01-02"

// NewApplicationTable defines the list columns shared by every module.
func NewApplicationTable(pageSize int) *grid.Table[models.VisaApplication] {
	return grid.New(pageSize,
		grid.Column[models.VisaApplication]{
			Key:      "id",
			Header:   "Application ID",
			Value:    func(a models.VisaApplication) string { return a.ID },
			Sortable: true,
			Fixed:    true,
		},
		grid.Column[models.VisaApplication]{
			Key:      "name",
			Header:   "Applicant",
			Value:    func(a models.VisaApplication) string { return a.FullName() },
			Sortable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:      "email",
			Header:   "Email",
			Value:    func(a models.VisaApplication) string { return a.Email() },
			Sortable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:        "visaType",
			Header:     "Visa type",
			Value:      func(a models.VisaApplication) string { return a.VisaType },
			Sortable:   true,
			Filterable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:      "price",
			Header:   "Price",
			Value:    func(a models.VisaApplication) string { return a.Price.StringFixed(2) },
			Compare:  func(a, b models.VisaApplication) int { return a.Price.Cmp(b.Price.Decimal) },
			Sortable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:        "status",
			Header:     "Status",
			Value:      func(a models.VisaApplication) string { return string(a.ApplicationStatus) },
			Sortable:   true,
			Filterable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:        "payment",
			Header:     "Payment",
			Value:      func(a models.VisaApplication) string { return string(a.PaymentStatus) },
			Sortable:   true,
			Filterable: true,
		},
		grid.Column[models.VisaApplication]{
			Key:    "created",
			Header: "Submitted",
			Value: func(a models.VisaApplication) string {
				if a.CreatedAt.IsZero() {
					return ""
				}
				return a.CreatedAt.Format(dateLayout)
			},
			Compare:  func(a, b models.VisaApplication) int { return a.CreatedAt.Compare(b.CreatedAt) },
			Sortable: true,
		},
	)
}
