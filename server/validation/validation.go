// Package validation implements field validation for contact payloads.
//
// Unlike validate.Struct, every field check runs and failures accumulate
// into a single field-keyed report, so a client can fix all of its input
// problems in one round trip. The cross-field rule (notification groups
// required for GROUPS) only runs once every individual field has passed.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
	"github.com/openbhoukal/emergency-contacts/server/models"
)

var (
	namePattern        = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailPattern       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobileStripPattern = regexp.MustCompile(`[\s\-()+]`)
	digitsPattern      = regexp.MustCompile(`^[0-9]+$`)

	validate *validator.Validate
)

const MAX_EVENT_TYPES = 20

func init() {
	validate = New()
}

// New returns a validator with the custom contact rules registered, for
// callers that validate their own structs(e.g. config validation).
func New() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("mobile_digits", func(fl validator.FieldLevel) bool {
		stripped := mobileStripPattern.ReplaceAllString(fl.Field().String(), "")
		return digitsPattern.MatchString(stripped)
	})

	return v
}

// ValidateStruct runs plain struct-tag validation, used for config structs.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Errors maps a field name to the list of problems found with it.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// ContactPayload is a decoded request body. Pointer fields tell a field that
// was omitted apart from one sent as empty, which is what makes partial
// updates possible.
type ContactPayload struct {
	FirstName               *string      `json:"first_name"`
	LastName                *string      `json:"last_name"`
	Email                   *string      `json:"email"`
	CountryCode             *string      `json:"country_code"`
	MobileNumber            *string      `json:"mobile_number"`
	EventNotificationType   *string      `json:"event_notification_type"`
	EventNotificationGroups *GroupsValue `json:"event_notification_groups"`
	EventTypes              *[]string    `json:"event_types"`
	Status                  *string      `json:"status"`
}

// GroupsValue accepts the notification groups as either a JSON array or a
// delimited string, the two shapes older clients send.
type GroupsValue struct {
	Items      []string
	badType    bool
	badItemMsg string
}

func (g *GroupsValue) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item == "" {
				g.badItemMsg = "Group items cannot be empty strings."
				return nil
			}
			g.Items = append(g.Items, item)
		}
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		for _, item := range strings.Split(joined, ",") {
			if item = strings.TrimSpace(item); item != "" {
				g.Items = append(g.Items, item)
			}
		}
		return nil
	}

	if string(data) == "null" {
		return nil
	}

	// Keep decoding alive so the problem lands in the field report instead
	// of aborting the whole payload.
	g.badType = true
	return nil
}

// Apply validates payload fields and writes the normalized values onto
// contact. With partial set, only fields present in the payload are
// validated & applied; the rest of the record is left as loaded.
func Apply(payload *ContactPayload, contact *models.Contact, partial bool) Errors {
	errs := Errors{}

	applyName(payload.FirstName, &contact.FirstName, "first_name", "First name", partial, errs)
	applyName(payload.LastName, &contact.LastName, "last_name", "Last name", partial, errs)
	applyEmail(payload, contact, partial, errs)
	applyCountryCode(payload, contact, errs)
	applyMobileNumber(payload, contact, errs)
	applyNotificationType(payload, contact, partial, errs)
	applyEventTypes(payload, contact, partial, errs)
	applyStatus(payload, contact, partial, errs)
	applyGroups(payload, contact, errs)

	// Cross-field rule runs only once individual fields are clean.
	if errs.Empty() {
		switch contact.EventNotificationType {
		case models.GROUPS_NOTIFICATION_TYPE:
			if len(contact.EventNotificationGroups) == 0 {
				errs.Add("event_notification_groups",
					"This field is required when event_notification_type is GROUPS.")
			}
		case models.ALL_USERS_NOTIFICATION_TYPE:
			// Submitted groups are silently dropped for ALL_USERS.
			contact.EventNotificationGroups = models.GroupList{}
		}
	}

	return errs
}

// ---------------------------------------------------------------------------------//
// Per-field rules
// --------------------------------------------------------------------------------//

func applyName(value *string, target *string, field, label string, partial bool, errs Errors) {
	if value == nil {
		if !partial {
			errs.Add(field, fmt.Sprintf("%v is required.", label))
		}
		return
	}

	name := strings.TrimSpace(*value)
	if name == "" {
		errs.Add(field, fmt.Sprintf("%v cannot be empty or whitespace only.", label))
		return
	}

	if len(name) > 50 {
		errs.Add(field, fmt.Sprintf("%v cannot exceed 50 characters.", label))
		return
	}

	if err := validate.Var(name, "person_name"); err != nil {
		errs.Add(field, fmt.Sprintf("%v can only contain letters, spaces, hyphens, and apostrophes.", label))
		return
	}

	*target = name
}

func applyEmail(payload *ContactPayload, contact *models.Contact, partial bool, errs Errors) {
	if payload.Email == nil {
		if !partial {
			errs.Add("email", "Email field is required.")
		}
		return
	}

	email := strings.ToLower(strings.TrimSpace(*payload.Email))
	if email == "" {
		errs.Add("email", "Email cannot be empty.")
		return
	}

	if err := validate.Var(email, "contact_email"); err != nil {
		errs.Add("email", "Enter a valid email address.")
		return
	}

	contact.Email = email
}

func applyCountryCode(payload *ContactPayload, contact *models.Contact, errs Errors) {
	if payload.CountryCode == nil {
		return
	}

	code := strings.TrimSpace(*payload.CountryCode)
	if code == "" {
		contact.CountryCode = ""
		return
	}

	if !strings.HasPrefix(code, "+") {
		errs.Add("country_code", "Country code must start with a plus sign (+).")
		return
	}

	digits := code[1:]
	if !digitsPattern.MatchString(digits) {
		errs.Add("country_code", "Country code can only contain a plus sign (+) followed by digits.")
		return
	}

	if len(digits) < 1 || len(digits) > 4 {
		errs.Add("country_code", "Country code must contain 1 to 4 digits after the plus sign.")
		return
	}

	contact.CountryCode = code
}

func applyMobileNumber(payload *ContactPayload, contact *models.Contact, errs Errors) {
	if payload.MobileNumber == nil {
		return
	}

	mobile := strings.TrimSpace(*payload.MobileNumber)
	if mobile == "" {
		contact.MobileNumber = ""
		return
	}

	if len(mobile) > 20 {
		errs.Add("mobile_number", "Mobile number cannot exceed 20 characters.")
		return
	}

	if err := validate.Var(mobile, "mobile_digits"); err != nil {
		errs.Add("mobile_number", "Mobile number can only contain digits, spaces, hyphens, parentheses, and plus sign.")
		return
	}

	// Separator characters are stripped for validation only, the submitted
	// form is what gets stored.
	stripped := mobileStripPattern.ReplaceAllString(mobile, "")
	if len(stripped) < 10 || len(stripped) > 15 {
		errs.Add("mobile_number", "Mobile number must contain between 10 and 15 digits.")
		return
	}

	contact.MobileNumber = mobile
}

func applyNotificationType(payload *ContactPayload, contact *models.Contact, partial bool, errs Errors) {
	if payload.EventNotificationType == nil {
		if !partial && contact.EventNotificationType == "" {
			contact.EventNotificationType = models.ALL_USERS_NOTIFICATION_TYPE
		}
		return
	}

	value := *payload.EventNotificationType
	if value != models.ALL_USERS_NOTIFICATION_TYPE && value != models.GROUPS_NOTIFICATION_TYPE {
		errs.Add("event_notification_type", "Event notification type must be one of: ALL_USERS, GROUPS.")
		return
	}

	contact.EventNotificationType = value
}

func applyEventTypes(payload *ContactPayload, contact *models.Contact, partial bool, errs Errors) {
	if payload.EventTypes == nil {
		if !partial {
			errs.Add("event_types", "This field is required.")
		}
		return
	}

	eventTypes := *payload.EventTypes
	if len(eventTypes) == 0 {
		errs.Add("event_types", "At least one event type is required.")
		return
	}

	if len(eventTypes) > MAX_EVENT_TYPES {
		errs.Add("event_types", fmt.Sprintf("Cannot specify more than %v event types.", MAX_EVENT_TYPES))
		return
	}

	validated := []string{}
	for _, eventType := range eventTypes {
		eventType = strings.TrimSpace(eventType)
		if eventType == "" {
			errs.Add("event_types", "Event types cannot be empty strings.")
			return
		}

		if len(eventType) > 50 {
			errs.Add("event_types", "Each event type cannot exceed 50 characters.")
			return
		}

		validated = append(validated, eventType)
	}

	contact.EventTypes = dedupe(validated)
}

func applyStatus(payload *ContactPayload, contact *models.Contact, partial bool, errs Errors) {
	if payload.Status == nil {
		if !partial && contact.Status == "" {
			contact.Status = models.ACTIVE_STATUS
		}
		return
	}

	value := *payload.Status
	if value != models.ACTIVE_STATUS && value != models.INACTIVE_STATUS {
		errs.Add("status", "Status must be one of: ACTIVE, INACTIVE.")
		return
	}

	contact.Status = value
}

func applyGroups(payload *ContactPayload, contact *models.Contact, errs Errors) {
	if payload.EventNotificationGroups == nil {
		return
	}

	groups := payload.EventNotificationGroups
	if groups.badType {
		errs.Add("event_notification_groups", "Event notification groups must be a string or an array of strings.")
		return
	}

	if groups.badItemMsg != "" {
		errs.Add("event_notification_groups", groups.badItemMsg)
		return
	}

	contact.EventNotificationGroups = models.GroupList(groups.Items)
}

// dedupe removes duplicates, preserving first-seen order.
func dedupe(values []string) models.StringList {
	seen := map[string]bool{}
	unique := models.StringList{}

	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}

	return unique
}
