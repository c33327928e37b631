package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisaApplicationUnmarshalAliases(t *testing.T) {
	raw := `{"_id":"64f0","status":"on hold","price":"149.50","visa_type":"e-tourist","personalInfo":{"firstName":"Asha","lastName":"Rao","email":"asha@example.com"}}`

	var app VisaApplication
	require.NoError(t, json.Unmarshal([]byte(raw), &app))

	assert.Equal(t, "64f0", app.ID)
	assert.Equal(t, StatusOnHold, app.ApplicationStatus)
	assert.Equal(t, "149.5", app.Price.String())
	assert.Equal(t, "e-tourist", app.VisaType)
	assert.Equal(t, "Asha Rao", app.FullName())
	assert.Equal(t, "asha@example.com", app.Email())
}

func TestVisaApplicationCanonicalFieldsWin(t *testing.T) {
	raw := `{"id":"a1","_id":"ignored","applicationStatus":"submitted","status":"pending","price":20}`

	var app VisaApplication
	require.NoError(t, json.Unmarshal([]byte(raw), &app))

	assert.Equal(t, "a1", app.ID)
	assert.Equal(t, StatusSubmitted, app.ApplicationStatus)
}

func TestVisaApplicationLenientPrice(t *testing.T) {
	cases := []struct {
		raw       string
		want      string
		malformed string
	}{
		{raw: `""`, want: "0.00"},
		{raw: `null`, want: "0.00"},
		{raw: `"USD 50"`, want: "0.00", malformed: "USD 50"},
		{raw: `"12.5"`, want: "12.50"},
		{raw: `99`, want: "99.00"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var apps []VisaApplication
			require.NoError(t, json.Unmarshal([]byte(`[{"_id":"a","price":`+tc.raw+`}]`), &apps))
			require.Len(t, apps, 1)
			assert.Equal(t, tc.want, apps[0].Price.StringFixed(2))
			assert.Equal(t, tc.malformed, apps[0].Price.Malformed)
		})
	}
}

func TestAmountMarshalsAsDecimal(t *testing.T) {
	payload, err := json.Marshal(VisaApplication{ID: "a", Price: NewAmount(decimal.RequireFromString("80.5"))})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"price":"80.5"`)

	var out VisaApplication
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, "80.50", out.Price.StringFixed(2))
}

func TestVisaApplicationRoundTripKeepsUnknownStatus(t *testing.T) {
	in := VisaApplication{ID: "x", ApplicationStatus: ApplicationStatus("legacy state")}
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	var out VisaApplication
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, ApplicationStatus("legacy state"), out.ApplicationStatus)
}

func TestParseApplicationStatus(t *testing.T) {
	status, ok := ParseApplicationStatus("  Visa Granted ")
	assert.True(t, ok)
	assert.Equal(t, StatusVisaGranted, status)

	_, ok = ParseApplicationStatus("approved")
	assert.False(t, ok)
	assert.Len(t, ApplicationStatuses, 18)
}

func TestModuleRegistry(t *testing.T) {
	india, ok := LookupModule("India")
	require.True(t, ok)
	assert.True(t, india.SupportsReminder(ReminderPhoto))
	assert.False(t, india.SupportsReminder(ReminderIncomplete))

	egypt, ok := LookupModule("egypt")
	require.True(t, ok)
	assert.False(t, egypt.GovRef)

	_, ok = LookupModule("atlantis")
	assert.False(t, ok)

	modules := Modules()
	require.Len(t, modules, 4)
	assert.Equal(t, "Egypt", modules[0].Title)
}

func TestReminderLabel(t *testing.T) {
	assert.Equal(t, "Passport reminder", ReminderPassport.Label())
}
