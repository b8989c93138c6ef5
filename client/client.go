// Package client consumes the contact store wire contract: the typed HTTP
// client here, the list view state machine in liststate.go and the form
// state mirror in form.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DEFAULT_TIMEOUT bounds every request; there is no unbounded wait on a
// stuck server.
const DEFAULT_TIMEOUT = 15 * time.Second

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DEFAULT_TIMEOUT},
	}
}

// Contact mirrors the wire shape of a stored record.
type Contact struct {
	ID                      uint      `json:"id"`
	FirstName               string    `json:"first_name"`
	LastName                string    `json:"last_name"`
	Email                   string    `json:"email"`
	CountryCode             string    `json:"country_code"`
	MobileNumber            string    `json:"mobile_number"`
	EventNotificationType   string    `json:"event_notification_type"`
	EventNotificationGroups []string  `json:"event_notification_groups"`
	EventTypes              []string  `json:"event_types"`
	Status                  string    `json:"status"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// ContactParams is the request body for create & full update.
type ContactParams struct {
	FirstName               string   `json:"first_name"`
	LastName                string   `json:"last_name"`
	Email                   string   `json:"email"`
	CountryCode             string   `json:"country_code,omitempty"`
	MobileNumber            string   `json:"mobile_number,omitempty"`
	EventNotificationType   string   `json:"event_notification_type"`
	EventNotificationGroups []string `json:"event_notification_groups,omitempty"`
	EventTypes              []string `json:"event_types"`
	Status                  string   `json:"status"`
}

type ListParams struct {
	Search   string
	Status   string
	Ordering string
	Page     int
	PageSize int
}

// ContactPage is the decoded pagination envelope.
type ContactPage struct {
	Count      int64     `json:"count"`
	Next       *string   `json:"next"`
	Previous   *string   `json:"previous"`
	Results    []Contact `json:"results"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	PageSize   int       `json:"page_size"`
}

// APIError is any failure reported by the server through the uniform error
// envelope. Details is only set for multi-field validation failures.
type APIError struct {
	Message    string              `json:"message"`
	Code       string              `json:"code"`
	StatusCode int                 `json:"status_code"`
	Details    map[string][]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v (%v)", e.Message, e.Code)
}

type errorEnvelope struct {
	Error  APIError `json:"error"`
	Detail string   `json:"detail"`
}

type messageEnvelope struct {
	Message string  `json:"message"`
	Data    Contact `json:"data"`
}

// ---------------------------------------------------------------------------------//
// Operations
// --------------------------------------------------------------------------------//

func (c *Client) List(ctx context.Context, params ListParams) (*ContactPage, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Ordering != "" {
		query.Set("ordering", params.Ordering)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}

	path := "/items/"
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}

	page := ContactPage{}
	if err := c.do(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) Get(ctx context.Context, id uint) (*Contact, error) {
	contact := Contact{}
	if err := c.do(ctx, "GET", fmt.Sprintf("/items/%v/", id), nil, &contact); err != nil {
		return nil, err
	}

	return &contact, nil
}

func (c *Client) Create(ctx context.Context, params ContactParams) (*Contact, error) {
	envelope := messageEnvelope{}
	if err := c.do(ctx, "POST", "/items/", params, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// Update replaces the whole record (PUT); every required field must be set
// in params.
func (c *Client) Update(ctx context.Context, id uint, params ContactParams) (*Contact, error) {
	envelope := messageEnvelope{}
	if err := c.do(ctx, "PUT", fmt.Sprintf("/items/%v/", id), params, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// Patch applies a partial update (PATCH); only the fields present in the
// map are validated & changed server-side.
func (c *Client) Patch(ctx context.Context, id uint, fields map[string]interface{}) (*Contact, error) {
	envelope := messageEnvelope{}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/items/%v/", id), fields, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/items/%v/", id), nil, nil)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "contact store request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}

	return nil
}

// decodeAPIError turns an error envelope into *APIError. Error shapes the
// client doesn't anticipate still come back as an APIError, never as a raw
// decode failure.
func decodeAPIError(resp *http.Response) error {
	envelope := errorEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			Message:    fmt.Sprintf("request failed with status %v", resp.StatusCode),
			Code:       "unknown",
			StatusCode: resp.StatusCode,
		}
	}

	apiErr := envelope.Error
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}

	return &apiErr
}
