package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	ALL_USERS_NOTIFICATION_TYPE = "ALL_USERS"
	GROUPS_NOTIFICATION_TYPE    = "GROUPS"

	ACTIVE_STATUS   = "ACTIVE"
	INACTIVE_STATUS = "INACTIVE"
)

var ErrDuplicateEmail = errors.New("a contact with this email address already exists")

// orderableContactFields is the whitelist of fields accepted by the
// 'ordering' list param.
var orderableContactFields = map[string]bool{
	"first_name":    true,
	"last_name":     true,
	"email":         true,
	"mobile_number": true,
	"status":        true,
	"created_at":    true,
	"updated_at":    true,
}

type Contact struct {
	BaseModel
	FirstName               string     `json:"first_name" gorm:"size:50;not null"`
	LastName                string     `json:"last_name" gorm:"size:50;not null"`
	Email                   string     `json:"email" gorm:"not null;unique"`
	CountryCode             string     `json:"country_code" gorm:"size:5;default:''"`
	MobileNumber            string     `json:"mobile_number" gorm:"size:20;default:''"`
	EventNotificationType   string     `json:"event_notification_type" gorm:"size:20;default:ALL_USERS"`
	EventNotificationGroups GroupList  `json:"event_notification_groups" gorm:"type:text"`
	EventTypes              StringList `json:"event_types" gorm:"type:text;not null"`
	Status                  string     `json:"status" gorm:"size:10;default:ACTIVE"`
}

// StringList is stored as a JSON-encoded text column but always travels
// over the wire as a plain array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		if v == "" {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]string)(l))
	case []byte:
		if len(v) == 0 {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal(v, (*[]string)(l))
	}
	return fmt.Errorf("unsupported column type %T for StringList", value)
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal([]string(l))
}

// GroupList is stored as a comma-joined text column, and always serialized
// to JSON as an array.
type GroupList []string

func (l GroupList) Value() (driver.Value, error) {
	return strings.Join(l, ", "), nil
}

func (l *GroupList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = GroupList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported column type %T for GroupList", value)
	}

	*l = GroupList{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

func (l GroupList) MarshalJSON() ([]byte, error) {
	if l == nil {
		l = GroupList{}
	}
	return json.Marshal([]string(l))
}

// ---------------------------------------------------------------------------------//
// Queries
// --------------------------------------------------------------------------------//

// ContactListQuery carries the filter/ordering/paging params for FetchContacts.
type ContactListQuery struct {
	Search           string
	Status           string
	NotificationType string
	Ordering         string
	Page             int
	PageSize         int
}

// FetchContacts returns the page of contacts matching the query filters,
// along with paging metadata whose count reflects all matches pre-pagination.
func FetchContacts(query ContactListQuery) ([]Contact, *Paging, error) {
	var total int64
	contacts := []Contact{}

	err := db.Model(&Contact{}).Scopes(contactFilters(query)).Count(&total).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	err = db.Scopes(contactFilters(query), paginate(query.Page, query.PageSize)).
		Order(orderClause(query.Ordering)).Find(&contacts).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return contacts, newPaging(query.Page, query.PageSize, total), nil
}

func FindContact(id interface{}) (*Contact, error) {
	contact := Contact{}
	err := db.First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// CreateContact persists a new contact. A duplicate email - whether caught by
// the application pre-check or by the storage-level UNIQUE constraint during
// a race - surfaces as ErrDuplicateEmail.
func CreateContact(contact *Contact) error {
	taken, err := ContactEmailTaken(contact.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	if err := db.Create(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// Save writes the full record back, refreshing updated_at. The record's own
// email never conflicts with itself; any other duplicate maps to
// ErrDuplicateEmail.
func (contact *Contact) Save() error {
	taken, err := ContactEmailTaken(contact.Email, contact.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	if err := db.Save(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// DeleteContact removes the record and reports how many rows were affected,
// so a repeat delete can be told apart from a first one.
func DeleteContact(id interface{}) (int64, error) {
	result := db.Delete(&Contact{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// ContactEmailTaken reports whether another record already holds the given
// (normalized) email. excludeID lets an update skip its own record.
func ContactEmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	err := db.Model(&Contact{}).
		Where("email = ? AND id <> ?", email, excludeID).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ---------------------------------------------------------------------------------//
// Scopes & helpers
// --------------------------------------------------------------------------------//

func contactFilters(query ContactListQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query.Search != "" {
			like := "%" + strings.ToLower(query.Search) + "%"
			db = db.Where(
				"lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ? OR lower(mobile_number) LIKE ?",
				like, like, like, like,
			)
		}

		if query.Status != "" {
			db = db.Where("status = ?", strings.ToUpper(query.Status))
		}

		if query.NotificationType != "" {
			db = db.Where("event_notification_type = ?", strings.ToUpper(query.NotificationType))
		}

		return db
	}
}

// orderClause maps an 'ordering' param(e.g. "-last_name") to an ORDER BY
// clause. Unknown fields fall back to insertion order.
func orderClause(ordering string) string {
	direction := "asc"
	field := ordering

	if strings.HasPrefix(ordering, "-") {
		direction = "desc"
		field = ordering[1:]
	}

	if !orderableContactFields[field] {
		return "id asc"
	}

	return fmt.Sprintf("%v %v", field, direction)
}

// WARNING: THIS CHECK IS UNIQUE TO SQLITE, REMEMBER TO UPDATE IT IF/WHEN
// OTHER SQL DATABASES ARE SUPPORTED
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
