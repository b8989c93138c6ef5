package validation

import (
	"encoding/json"
	"testing"

	"github.com/openbhoukal/emergency-contacts/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func listPtr(values ...string) *[]string { return &values }

func validPayload() *ContactPayload {
	return &ContactPayload{
		FirstName:    strPtr("Jessica"),
		LastName:     strPtr("Pearson"),
		Email:        strPtr("Jessica@Pearson.com"),
		CountryCode:  strPtr("+1"),
		MobileNumber: strPtr("416-555-0199"),
		EventTypes:   listPtr("SOS"),
	}
}

func TestApplyValidPayload(t *testing.T) {
	contact := models.Contact{}
	errs := Apply(validPayload(), &contact, false)

	require.True(t, errs.Empty(), "unexpected errors: %v", errs)
	assert.Equal(t, "Jessica", contact.FirstName)
	assert.Equal(t, "jessica@pearson.com", contact.Email, "email should be lowercased")
	assert.Equal(t, "416-555-0199", contact.MobileNumber, "separators are kept in storage")
	assert.Equal(t, models.ALL_USERS_NOTIFICATION_TYPE, contact.EventNotificationType)
	assert.Equal(t, models.ACTIVE_STATUS, contact.Status)
}

func TestApplyAccumulatesAllFieldErrors(t *testing.T) {
	payload := &ContactPayload{
		FirstName:    strPtr("J3ssica"),
		MobileNumber: strPtr("123"),
	}

	errs := Apply(payload, &models.Contact{}, false)

	// Every violated field shows up at once, not just the first.
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "last_name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "event_types")
	assert.Contains(t, errs, "mobile_number")
	assert.Equal(t, []string{"First name can only contain letters, spaces, hyphens, and apostrophes."}, errs["first_name"])
	assert.Equal(t, []string{"Mobile number must contain between 10 and 15 digits."}, errs["mobile_number"])
}

func TestApplyNameRules(t *testing.T) {
	payload := validPayload()
	payload.FirstName = strPtr("   ")
	errs := Apply(payload, &models.Contact{}, false)
	assert.Equal(t, []string{"First name cannot be empty or whitespace only."}, errs["first_name"])

	payload = validPayload()
	payload.FirstName = strPtr("  O'Brien-Smith  ")
	contact := models.Contact{}
	errs = Apply(payload, &contact, false)
	require.True(t, errs.Empty())
	assert.Equal(t, "O'Brien-Smith", contact.FirstName, "names are trimmed")
}

func TestApplyCountryCodeRules(t *testing.T) {
	for input, message := range map[string]string{
		"1":      "Country code must start with a plus sign (+).",
		"+1a":    "Country code can only contain a plus sign (+) followed by digits.",
		"+12345": "Country code must contain 1 to 4 digits after the plus sign.",
	} {
		payload := validPayload()
		payload.CountryCode = strPtr(input)
		errs := Apply(payload, &models.Contact{}, false)
		assert.Equal(t, []string{message}, errs["country_code"], "input: %v", input)
	}

	// Optional - empty is fine.
	payload := validPayload()
	payload.CountryCode = strPtr("")
	assert.True(t, Apply(payload, &models.Contact{}, false).Empty())
}

func TestApplyEventTypesDedupe(t *testing.T) {
	payload := validPayload()
	payload.EventTypes = listPtr("SOS", "SOS", "911")

	contact := models.Contact{}
	errs := Apply(payload, &contact, false)

	require.True(t, errs.Empty())
	assert.Equal(t, models.StringList{"SOS", "911"}, contact.EventTypes,
		"duplicates removed, first-seen order preserved")
}

func TestApplyEventTypesLimits(t *testing.T) {
	tooMany := make([]string, MAX_EVENT_TYPES+1)
	for i := range tooMany {
		tooMany[i] = "EVENT"
	}

	payload := validPayload()
	payload.EventTypes = &tooMany
	errs := Apply(payload, &models.Contact{}, false)
	assert.Equal(t, []string{"Cannot specify more than 20 event types."}, errs["event_types"])

	payload = validPayload()
	payload.EventTypes = listPtr("SOS", " ")
	errs = Apply(payload, &models.Contact{}, false)
	assert.Equal(t, []string{"Event types cannot be empty strings."}, errs["event_types"])
}

func TestApplyGroupsRequiredForGroupsType(t *testing.T) {
	payload := validPayload()
	payload.EventNotificationType = strPtr(models.GROUPS_NOTIFICATION_TYPE)

	errs := Apply(payload, &models.Contact{}, false)
	assert.Equal(t,
		[]string{"This field is required when event_notification_type is GROUPS."},
		errs["event_notification_groups"])
}

func TestApplyGroupsClearedForAllUsers(t *testing.T) {
	payload := validPayload()
	payload.EventNotificationGroups = &GroupsValue{Items: []string{"legal", "ops"}}

	contact := models.Contact{}
	errs := Apply(payload, &contact, false)

	require.True(t, errs.Empty())
	assert.Empty(t, contact.EventNotificationGroups,
		"groups submitted with ALL_USERS are silently dropped")
}

func TestApplyCrossFieldRunsAfterFieldChecks(t *testing.T) {
	payload := validPayload()
	payload.Email = strPtr("not-an-email")
	payload.EventNotificationType = strPtr(models.GROUPS_NOTIFICATION_TYPE)

	errs := Apply(payload, &models.Contact{}, false)

	assert.Contains(t, errs, "email")
	assert.NotContains(t, errs, "event_notification_groups",
		"cross-field rule waits for individual fields to pass")
}

func TestApplyPartial(t *testing.T) {
	contact := models.Contact{
		FirstName:             "Harvey",
		LastName:              "Specter",
		Email:                 "harvey@specter.com",
		EventNotificationType: models.ALL_USERS_NOTIFICATION_TYPE,
		EventTypes:            models.StringList{"SOS"},
		Status:                models.ACTIVE_STATUS,
	}

	payload := &ContactPayload{Status: strPtr(models.INACTIVE_STATUS)}
	errs := Apply(payload, &contact, true)

	require.True(t, errs.Empty(), "missing fields are fine on a partial update: %v", errs)
	assert.Equal(t, models.INACTIVE_STATUS, contact.Status)
	assert.Equal(t, "Harvey", contact.FirstName, "absent fields keep their values")
}

func TestApplyEnumRules(t *testing.T) {
	payload := validPayload()
	payload.Status = strPtr("PAUSED")
	payload.EventNotificationType = strPtr("SOME_USERS")

	errs := Apply(payload, &models.Contact{}, false)
	assert.Equal(t, []string{"Status must be one of: ACTIVE, INACTIVE."}, errs["status"])
	assert.Equal(t, []string{"Event notification type must be one of: ALL_USERS, GROUPS."}, errs["event_notification_type"])
}

func TestGroupsValueDecoding(t *testing.T) {
	payload := ContactPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"event_notification_groups": ["legal", " ops "]}`), &payload))
	assert.Equal(t, []string{"legal", "ops"}, payload.EventNotificationGroups.Items)

	payload = ContactPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"event_notification_groups": "legal, ops"}`), &payload))
	assert.Equal(t, []string{"legal", "ops"}, payload.EventNotificationGroups.Items,
		"delimited strings are accepted for older clients")

	payload = ContactPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"event_notification_groups": 42}`), &payload))
	errs := Apply(&ContactPayload{EventNotificationGroups: payload.EventNotificationGroups}, &models.Contact{}, true)
	assert.Equal(t,
		[]string{"Event notification groups must be a string or an array of strings."},
		errs["event_notification_groups"])
}
