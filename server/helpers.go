package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/openbhoukal/emergency-contacts/server/models"
	"github.com/openbhoukal/emergency-contacts/utils"
)

// Error codes carried in the error envelope.
const (
	BAD_REQUEST_CODE      = "bad_request"
	NOT_FOUND_CODE        = "not_found"
	INTEGRITY_ERROR_CODE  = "integrity_error"
	VALIDATION_ERROR_CODE = "validation_error"
	INTERNAL_ERROR_CODE   = "internal_server_error"
)

// APIError is the inner 'error' object of the uniform error envelope.
type APIError struct {
	Message    string              `json:"message"`
	Code       string              `json:"code"`
	StatusCode int                 `json:"status_code"`
	Details    map[string][]string `json:"details,omitempty"`
}

// ErrorPayload is the envelope every failure funnels through, whatever its
// kind. 'detail' duplicates the message for backward compatibility.
type ErrorPayload struct {
	Error  APIError `json:"error"`
	Detail string   `json:"detail"`
}

// MessagePayload wraps mutation responses.
type MessagePayload struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ContactPage is the pagination envelope for list responses.
type ContactPage struct {
	Count      int64            `json:"count"`
	Next       *string          `json:"next"`
	Previous   *string          `json:"previous"`
	Results    []models.Contact `json:"results"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	PageSize   int              `json:"page_size"`
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payload interface{}, statusCode int) {
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payload)
}

func writeError(rw http.ResponseWriter, statusCode int, code, message string, details map[string][]string) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(message)
	} else {
		logg.Info(message)
	}

	writeResponse(rw, ErrorPayload{
		Error: APIError{
			Message:    message,
			Code:       code,
			StatusCode: statusCode,
			Details:    details,
		},
		Detail: message,
	}, statusCode)
}

func writeValidationError(rw http.ResponseWriter, details map[string][]string) {
	writeError(rw, http.StatusBadRequest, VALIDATION_ERROR_CODE, "Validation failed", details)
}

func writeIntegrityError(rw http.ResponseWriter) {
	writeError(rw, http.StatusBadRequest, INTEGRITY_ERROR_CODE,
		"A contact with this email address already exists.", nil)
}

func writeContactNotFound(rw http.ResponseWriter, id string) {
	writeError(rw, http.StatusNotFound, NOT_FOUND_CODE,
		fmt.Sprintf("Contact with id %v does not exist.", id), nil)
}

func routeNotFound(rw http.ResponseWriter, r *http.Request) {
	writeError(rw, http.StatusNotFound, NOT_FOUND_CODE, "Not found.", nil)
}

func methodNotAllowed(rw http.ResponseWriter, r *http.Request) {
	writeError(rw, http.StatusBadRequest, BAD_REQUEST_CODE, "Method not allowed.", nil)
}

func queryInt(values url.Values, key string) int {
	number, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return 0
	}

	return number
}

// pageLink rebuilds the request URL with the page param swapped, for the
// next/previous fields of the pagination envelope.
func pageLink(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))

	link := fmt.Sprintf("%v://%v%v?%v", scheme, r.Host, r.URL.Path, query.Encode())
	return &link
}

func pageLinks(r *http.Request, paging *models.Paging) (next, previous *string) {
	if paging.HasNext() {
		next = pageLink(r, paging.Page+1)
	}

	if paging.HasPrevious() {
		previous = pageLink(r, paging.Page-1)
	}

	return next, previous
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Contact store server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server) {
	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Contact store server shutdown failed:%+s", err)
	}

	logg.Infof("Contact store server stopped properly")
}

// configDirectory retrieves the directory holding the server's db & logs
// Or logs an error message and then calls os.Exit if it's unable to.
func configDirectory(devMode bool) string {
	// Use 'emergency-contacts' folder in home directory for prod
	configFolderName := "emergency-contacts"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
