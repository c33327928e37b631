package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus is the human-assigned processing status of an application.
// The set is open: values unknown to the dashboard are kept and shown as-is.
type ApplicationStatus string

const (
	StatusIncomplete        ApplicationStatus = "incomplete"
	StatusSubmitted         ApplicationStatus = "submitted"
	StatusPendingDocument   ApplicationStatus = "pending document"
	StatusOnHold            ApplicationStatus = "on hold"
	StatusPending           ApplicationStatus = "pending"
	StatusFormFilled        ApplicationStatus = "form filled"
	StatusProcessed         ApplicationStatus = "processed"
	StatusFutureProcessing  ApplicationStatus = "future processing"
	StatusVisaGranted       ApplicationStatus = "visa granted"
	StatusVisaEmailSent     ApplicationStatus = "visa email sent"
	StatusEscalated         ApplicationStatus = "escalated"
	StatusVisaDeclined      ApplicationStatus = "visa declined"
	StatusRefundPending     ApplicationStatus = "refund pending"
	StatusRefundCompleted   ApplicationStatus = "refund completed"
	StatusPaymentDisputed   ApplicationStatus = "payment disputed"
	StatusMiscellaneous     ApplicationStatus = "miscellaneous"
	StatusNotInterested     ApplicationStatus = "not interested"
	StatusChargeback        ApplicationStatus = "chargeback"
)

// ApplicationStatuses lists the selectable statuses in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	StatusIncomplete,
	StatusSubmitted,
	StatusPendingDocument,
	StatusOnHold,
	StatusPending,
	StatusFormFilled,
	StatusProcessed,
	StatusFutureProcessing,
	StatusVisaGranted,
	StatusVisaEmailSent,
	StatusEscalated,
	StatusVisaDeclined,
	StatusRefundPending,
	StatusRefundCompleted,
	StatusPaymentDisputed,
	StatusMiscellaneous,
	StatusNotInterested,
	StatusChargeback,
}

// ParseApplicationStatus matches raw against the selectable statuses, ignoring case and
// surrounding whitespace.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, status := range ApplicationStatuses {
		if string(status) == normalized {
			return status, true
		}
	}
	return "", false
}

// Tone groups statuses into badge colours.
func (s ApplicationStatus) Tone() string {
	switch s {
	case StatusVisaGranted, StatusVisaEmailSent, StatusProcessed, StatusRefundCompleted:
		return "success"
	case StatusVisaDeclined, StatusChargeback, StatusPaymentDisputed, StatusNotInterested:
		return "danger"
	case StatusPendingDocument, StatusOnHold, StatusPending, StatusEscalated, StatusRefundPending, StatusIncomplete:
		return "warning"
	default:
		return "neutral"
	}
}

// PaymentStatus is tracked independently of ApplicationStatus.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Tone groups payment statuses into badge colours.
func (p PaymentStatus) Tone() string {
	switch p {
	case PaymentPaid:
		return "success"
	case PaymentFailed:
		return "danger"
	case PaymentPending:
		return "warning"
	default:
		return "neutral"
	}
}

// ReminderType names the missing-item category of a reminder email.
type ReminderType string

const (
	ReminderDocument   ReminderType = "document"
	ReminderPayment    ReminderType = "payment"
	ReminderPassport   ReminderType = "passport"
	ReminderPhoto      ReminderType = "photo"
	ReminderIncomplete ReminderType = "incomplete"
)

// Label is the button caption for the reminder.
func (r ReminderType) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:]) + " reminder"
}

// Amount is a price as sent by the intake forms. Values that are not numbers decode to
// zero and keep the original text in Malformed so one bad record cannot fail a collection.
type Amount struct {
	decimal.Decimal
	Malformed string
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalJSON accepts numbers, numeric strings, empty strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = decimal.Zero
	a.Malformed = ""

	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		return nil
	}
	if err := a.Decimal.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		a.Malformed = strings.Trim(raw, `"`)
	}
	return nil
}

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Address     string `json:"address,omitempty"`
}

// FullName joins first and last name.
func (p *PersonalInfo) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type PassportInfo struct {
	PassportNumber string `json:"passportNumber"`
	IssuingCountry string `json:"issuingCountry,omitempty"`
	IssueDate      string `json:"issueDate,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
}

type VisaDetails struct {
	VisaType string `json:"visaType,omitempty"`
	Duration string `json:"duration,omitempty"`
	Entries  string `json:"entries,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
}

type ArrivalInfo struct {
	ArrivalDate   string `json:"arrivalDate,omitempty"`
	DepartureDate string `json:"departureDate,omitempty"`
	PortOfArrival string `json:"portOfArrival,omitempty"`
	Accommodation string `json:"accommodation,omitempty"`
}

type Documents struct {
	PassportCopy string   `json:"passportCopy,omitempty"`
	Photo        string   `json:"photo,omitempty"`
	Supporting   []string `json:"supporting,omitempty"`
}

type Declaration struct {
	Accepted bool   `json:"accepted"`
	SignedBy string `json:"signedBy,omitempty"`
	SignedAt string `json:"signedAt,omitempty"`
}

// GovRefDetails is staff-entered tracking metadata for the government portal.
type GovRefDetails struct {
	ReferenceEmail  string     `json:"referenceEmail,omitempty"`
	ReferenceNumber string     `json:"referenceNumber"`
	Comment         string     `json:"comment,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// AdditionalApplicant is a secondary traveller on the same application.
type AdditionalApplicant struct {
	PersonalInfo  *PersonalInfo  `json:"personalInfo,omitempty"`
	PassportInfo  *PassportInfo  `json:"passportInfo,omitempty"`
	Documents     *Documents     `json:"documents,omitempty"`
	GovRefDetails *GovRefDetails `json:"govRefDetails,omitempty"`
}

// VisaApplication is one record from a country intake pipeline.
type VisaApplication struct {
	ID                   string                `json:"id"`
	ApplicationStatus    ApplicationStatus     `json:"applicationStatus"`
	PaymentStatus        PaymentStatus         `json:"paymentStatus,omitempty"`
	VisaType             string                `json:"visaType,omitempty"`
	Price                Amount                `json:"price"`
	NoOfVisa             int                   `json:"noOfVisa,omitempty"`
	PersonalInfo         *PersonalInfo         `json:"personalInfo,omitempty"`
	PassportInfo         *PassportInfo         `json:"passportInfo,omitempty"`
	VisaDetails          *VisaDetails          `json:"visaDetails,omitempty"`
	ArrivalInfo          *ArrivalInfo          `json:"arrivalInfo,omitempty"`
	Documents            *Documents            `json:"documents,omitempty"`
	Declaration          *Declaration          `json:"declaration,omitempty"`
	GovRefDetails        *GovRefDetails        `json:"govRefDetails,omitempty"`
	AdditionalApplicants []AdditionalApplicant `json:"additionalApplicants,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// UnmarshalJSON accepts the field spellings used by the different intake pipelines:
// "_id" for "id" and "status" for "applicationStatus".
func (a *VisaApplication) UnmarshalJSON(data []byte) error {
	type plain VisaApplication
	aux := struct {
		*plain
		MongoID     string            `json:"_id"`
		Status      ApplicationStatus `json:"status"`
		VisaTypeAlt string            `json:"visa_type"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.MongoID
	}
	if a.ApplicationStatus == "" {
		a.ApplicationStatus = aux.Status
	}
	if a.VisaType == "" {
		a.VisaType = aux.VisaTypeAlt
	}
	if a.VisaType == "" && a.VisaDetails != nil {
		a.VisaType = a.VisaDetails.VisaType
	}
	return nil
}

// FullName returns the main applicant's name.
func (a VisaApplication) FullName() string {
	return a.PersonalInfo.FullName()
}

// Email returns the main applicant's email.
func (a VisaApplication) Email() string {
	if a.PersonalInfo == nil {
		return ""
	}
	return a.PersonalInfo.Email
}

// ApplicantType addresses the main applicant or one of the additional applicants.
type ApplicantType string

const (
	ApplicantMain       ApplicantType = "main"
	ApplicantAdditional ApplicantType = "additional"
)

// GovRefTarget identifies whose government reference is read or deleted.
type GovRefTarget struct {
	ApplicationID string
	ApplicantType ApplicantType
	Index         *int
}

// GovRefRequest creates or updates government reference details.
type GovRefRequest struct {
	ApplicationID   string        `json:"applicationId" validate:"required"`
	ApplicantType   ApplicantType `json:"applicantType" validate:"required,oneof=main additional"`
	ApplicantIndex  *int          `json:"applicantIndex,omitempty" validate:"omitempty,min=0"`
	ReferenceEmail  string        `json:"referenceEmail,omitempty" validate:"omitempty,email"`
	ReferenceNumber string        `json:"referenceNumber" validate:"required"`
	Comment         string        `json:"comment,omitempty" validate:"max=2000"`
}

// StatusChangeRequest asks for a new application status. PreviousStatus is what the page
// was displaying; it is only used for the transition log.
type StatusChangeRequest struct {
	Status         string `json:"status" validate:"required"`
	PreviousStatus string `json:"previousStatus"`
}

// StatusChangeResult is the status the page should display after the change attempt.
type StatusChangeResult struct {
	Status   ApplicationStatus `json:"status"`
	Previous ApplicationStatus `json:"previous"`
	Applied  bool              `json:"applied"`
}

// ApplicationDetail bundles a record with the dashboard's own transition history.
type ApplicationDetail struct {
	Module      Module             `json:"module"`
	Application *VisaApplication   `json:"application"`
	History     []StatusTransition `json:"history,omitempty"`
	Sending     ReminderType       `json:"sending,omitempty"`
}
