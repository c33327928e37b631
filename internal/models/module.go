package models

import (
	"sort"
	"strings"
)

// EnvelopeStyle tells the gateway how a module's backend wraps response bodies.
type EnvelopeStyle string

const (
	EnvelopeBare EnvelopeStyle = "bare"
	EnvelopeData EnvelopeStyle = "data"
)

// Module describes one country intake pipeline and the shape of its backend endpoints.
type Module struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	ListPath    string         `json:"-"`
	Envelope    EnvelopeStyle  `json:"-"`
	StatusField string         `json:"-"`
	Reminders   []ReminderType `json:"reminders"`
	GovRef      bool           `json:"govRef"`
}

// SupportsReminder reports whether the module backend has a reminder endpoint of type t.
func (m Module) SupportsReminder(t ReminderType) bool {
	for _, r := range m.Reminders {
		if r == t {
			return true
		}
	}
	return false
}

var registry = map[string]Module{
	"india": {
		Name:        "india",
		Title:       "India",
		ListPath:    "india/all",
		Envelope:    EnvelopeBare,
		StatusField: "applicationStatus",
		Reminders:   []ReminderType{ReminderDocument, ReminderPayment, ReminderPassport, ReminderPhoto},
		GovRef:      true,
	},
	"ethiopia": {
		Name:        "ethiopia",
		Title:       "Ethiopia",
		ListPath:    "ethiopia/applications",
		Envelope:    EnvelopeData,
		StatusField: "applicationStatus",
		Reminders:   []ReminderType{ReminderDocument, ReminderPayment, ReminderIncomplete},
		GovRef:      true,
	},
	"kenya": {
		Name:        "kenya",
		Title:       "Kenya",
		ListPath:    "kenya/all",
		Envelope:    EnvelopeData,
		StatusField: "status",
		Reminders:   []ReminderType{ReminderDocument, ReminderPayment, ReminderPassport, ReminderPhoto, ReminderIncomplete},
		GovRef:      true,
	},
	"egypt": {
		Name:        "egypt",
		Title:       "Egypt",
		ListPath:    "egypt/applications",
		Envelope:    EnvelopeBare,
		StatusField: "status",
		Reminders:   []ReminderType{ReminderDocument, ReminderPayment},
		GovRef:      false,
	},
}

// LookupModule returns the module registered under name (case-insensitive).
func LookupModule(name string) (Module, bool) {
	m, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Modules returns every registered module ordered by title.
func Modules() []Module {
	out := make([]Module, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
