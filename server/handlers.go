package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openbhoukal/emergency-contacts/server/models"
	"github.com/openbhoukal/emergency-contacts/server/validation"
	"gorm.io/gorm"
)

// listContacts answers GET /items/ with the pagination envelope. Filters:
// 'search' (case-insensitive substring over first_name/last_name/email/
// mobile_number), 'status', 'event_notification_type'; 'ordering' takes a
// whitelisted field name, '-' prefixed for descending. Out-of-range paging
// params are clamped; a page past the end is a valid empty page.
func listContacts(rw http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := models.ContactListQuery{
		Search:           params.Get("search"),
		Status:           params.Get("status"),
		NotificationType: params.Get("event_notification_type"),
		Ordering:         params.Get("ordering"),
		Page:             queryInt(params, "page"),
		PageSize:         queryInt(params, "page_size"),
	}

	contacts, paging, err := models.FetchContacts(query)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while listing contacts.", nil)
		return
	}

	next, previous := pageLinks(r, paging)
	writeResponse(rw, ContactPage{
		Count:      paging.Count,
		Next:       next,
		Previous:   previous,
		Results:    contacts,
		Page:       paging.Page,
		TotalPages: paging.TotalPages,
		PageSize:   paging.PageSize,
	}, http.StatusOK)
}

func createContact(rw http.ResponseWriter, r *http.Request) {
	payload := validation.ContactPayload{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(rw, http.StatusBadRequest, BAD_REQUEST_CODE, "Malformed request body.", nil)
		return
	}

	contact := models.Contact{}
	if errs := validation.Apply(&payload, &contact, false); !errs.Empty() {
		writeValidationError(rw, errs)
		return
	}

	err := models.CreateContact(&contact)
	if errors.Is(err, models.ErrDuplicateEmail) {
		writeIntegrityError(rw)
		return
	}
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while creating the contact.", nil)
		return
	}

	writeResponse(rw, MessagePayload{
		Message: "Contact created successfully.",
		Data:    contact,
	}, http.StatusCreated)
}

func findContact(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	contact, err := models.FindContact(vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeContactNotFound(rw, vars["id"])
		return
	}
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while fetching the contact.", nil)
		return
	}

	writeResponse(rw, contact, http.StatusOK)
}

func replaceContact(rw http.ResponseWriter, r *http.Request) {
	updateContact(rw, r, false)
}

func patchContact(rw http.ResponseWriter, r *http.Request) {
	updateContact(rw, r, true)
}

// updateContact applies a full(PUT) or partial(PATCH) update. A partial
// update validates & applies only the fields present in the body; the rest
// of the record keeps its loaded values.
func updateContact(rw http.ResponseWriter, r *http.Request, partial bool) {
	vars := mux.Vars(r)

	contact, err := models.FindContact(vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeContactNotFound(rw, vars["id"])
		return
	}
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while fetching the contact.", nil)
		return
	}

	payload := validation.ContactPayload{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(rw, http.StatusBadRequest, BAD_REQUEST_CODE, "Malformed request body.", nil)
		return
	}

	if errs := validation.Apply(&payload, contact, partial); !errs.Empty() {
		writeValidationError(rw, errs)
		return
	}

	err = contact.Save()
	if errors.Is(err, models.ErrDuplicateEmail) {
		writeIntegrityError(rw)
		return
	}
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while updating the contact.", nil)
		return
	}

	writeResponse(rw, MessagePayload{
		Message: "Contact updated successfully.",
		Data:    contact,
	}, http.StatusOK)
}

// deleteContact hard-deletes the record. Deleting twice yields a 404 the
// second time, not a silent success.
func deleteContact(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rowsAffected, err := models.DeleteContact(vars["id"])
	if err != nil {
		writeError(rw, http.StatusInternalServerError, INTERNAL_ERROR_CODE,
			"An error occurred while deleting the contact.", nil)
		return
	}

	if rowsAffected == 0 {
		writeContactNotFound(rw, vars["id"])
		return
	}

	writeResponse(rw, MessagePayload{Message: "Contact deleted successfully."}, http.StatusOK)
}
