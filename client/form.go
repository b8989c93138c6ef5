package client

import (
	"regexp"
	"strings"
)

// FormState backs the create & edit views. Validate mirrors the server's
// format/length rules so the user gets instant feedback, but the server
// report stays authoritative - whatever it returns is surfaced as-is.
type FormState struct {
	FirstName    string
	LastName     string
	Email        string
	CountryCode  string
	MobileNumber string

	NotificationType   string
	NotificationGroups []string
	EventTypes         []string
	Status             string

	// Submitting guards against double-submit: while true the submit
	// trigger stays disabled.
	Submitting bool
}

var (
	formNamePattern   = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	formEmailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	formMobileStrip   = regexp.MustCompile(`[\s\-()+]`)
	formDigitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

func NewFormState() FormState {
	return FormState{
		NotificationType: "ALL_USERS",
		Status:           "ACTIVE",
	}
}

// NewFormStateFromContact pre-populates the edit form from a loaded record.
func NewFormStateFromContact(contact *Contact) FormState {
	form := FormState{
		FirstName:          contact.FirstName,
		LastName:           contact.LastName,
		Email:              contact.Email,
		CountryCode:        contact.CountryCode,
		MobileNumber:       contact.MobileNumber,
		NotificationType:   contact.EventNotificationType,
		NotificationGroups: contact.EventNotificationGroups,
		EventTypes:         contact.EventTypes,
		Status:             contact.Status,
	}

	// Older records may hold a combined "+CC number" value; split it back
	// into the separate form fields.
	if form.CountryCode == "" {
		form.CountryCode, form.MobileNumber = SplitMobile(form.MobileNumber)
	}

	return form
}

// SetNotificationType switches the type, clearing the groups whenever the
// user lands back on ALL_USERS - same invariant the server enforces.
func (f *FormState) SetNotificationType(notificationType string) {
	f.NotificationType = notificationType
	if notificationType == "ALL_USERS" {
		f.NotificationGroups = nil
	}
}

// Validate returns the field-keyed problems with the current form values.
// An empty map means the form is submittable.
func (f FormState) Validate() map[string][]string {
	errs := map[string][]string{}
	add := func(field, message string) {
		errs[field] = append(errs[field], message)
	}

	validateFormName(f.FirstName, "first_name", "First name", add)
	validateFormName(f.LastName, "last_name", "Last name", add)

	email := strings.TrimSpace(f.Email)
	if email == "" {
		add("email", "Email field is required.")
	} else if !formEmailPattern.MatchString(strings.ToLower(email)) {
		add("email", "Enter a valid email address.")
	}

	if code := strings.TrimSpace(f.CountryCode); code != "" {
		if !strings.HasPrefix(code, "+") || !formDigitsPattern.MatchString(code[1:]) {
			add("country_code", "Country code can only contain a plus sign (+) followed by digits.")
		} else if len(code) > 5 {
			add("country_code", "Country code must contain 1 to 4 digits after the plus sign.")
		}
	}

	if mobile := strings.TrimSpace(f.MobileNumber); mobile != "" {
		stripped := formMobileStrip.ReplaceAllString(mobile, "")
		if !formDigitsPattern.MatchString(stripped) {
			add("mobile_number", "Mobile number can only contain digits, spaces, hyphens, parentheses, and plus sign.")
		} else if len(stripped) < 10 || len(stripped) > 15 {
			add("mobile_number", "Mobile number must contain between 10 and 15 digits.")
		}
	}

	if len(f.EventTypes) == 0 {
		add("event_types", "At least one event type is required.")
	}

	if f.NotificationType == "GROUPS" && len(f.NotificationGroups) == 0 {
		add("event_notification_groups", "This field is required when event_notification_type is GROUPS.")
	}

	return errs
}

// CanSubmit reports whether the submit trigger should be enabled.
func (f FormState) CanSubmit() bool {
	return !f.Submitting && len(f.Validate()) == 0
}

// Params maps the form to the request body for Create/Update.
func (f FormState) Params() ContactParams {
	return ContactParams{
		FirstName:               strings.TrimSpace(f.FirstName),
		LastName:                strings.TrimSpace(f.LastName),
		Email:                   strings.ToLower(strings.TrimSpace(f.Email)),
		CountryCode:             strings.TrimSpace(f.CountryCode),
		MobileNumber:            strings.TrimSpace(f.MobileNumber),
		EventNotificationType:   f.NotificationType,
		EventNotificationGroups: f.NotificationGroups,
		EventTypes:              f.EventTypes,
		Status:                  f.Status,
	}
}

// SplitMobile splits a combined "+CC number" value into its country-code &
// number parts. Values without a leading +CC come back with an empty code.
func SplitMobile(combined string) (countryCode, number string) {
	combined = strings.TrimSpace(combined)
	if !strings.HasPrefix(combined, "+") {
		return "", combined
	}

	parts := strings.SplitN(combined, " ", 2)
	if len(parts) < 2 {
		return "", combined
	}

	return parts[0], strings.TrimSpace(parts[1])
}

func validateFormName(value, field, label string, add func(field, message string)) {
	name := strings.TrimSpace(value)
	if name == "" {
		add(field, label+" is required.")
		return
	}

	if len(name) > 50 {
		add(field, label+" cannot exceed 50 characters.")
		return
	}

	if !formNamePattern.MatchString(name) {
		add(field, label+" can only contain letters, spaces, hyphens, and apostrophes.")
	}
}
