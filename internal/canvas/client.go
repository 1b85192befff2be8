// Package canvas is a minimal client for the Canvas LMS calendar_events API.
//
// https://canvas.instructure.com/doc/api/calendar_events.html
// https://canvas.instructure.com/doc/api/file.pagination.html
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/coursetools/canvascal/internal/events"
)

const (
	perPage = 100

	// Safety bound against infinite pagination, hostile or buggy servers
	// included.
	maxPages = 30
)

// Config carries the settings the client needs. The base URL has no trailing
// slash requirement; it is normalized at construction.
type Config struct {
	BaseURL string
}

// Client talks to one Canvas instance with one credential. The HTTP client is
// expected to attach the bearer token itself (see internal/auth).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Event is a remote calendar event as Canvas returns it. Read-only on our
// side except for deletion by ID.
type Event struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	ContextCode string  `json:"context_code"`
}

// Tagged reports whether the event was created by this tool and is therefore
// eligible for automatic deletion. Canvas returns null descriptions for
// events that never had one; those are never ours.
func (e Event) Tagged() bool {
	return e.Description != nil && strings.HasSuffix(*e.Description, events.Marker)
}

// ErrorKind separates failures to reach the server from unhappy responses.
type ErrorKind string

const (
	ErrorKindNetwork ErrorKind = "network"
	ErrorKindHTTP    ErrorKind = "http-status"
)

// APIError is any failed exchange with the Canvas API.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Kind == ErrorKindNetwork {
		return fmt.Sprintf("canvas: network error: %v", e.Err)
	}
	return fmt.Sprintf("canvas: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// ListEvents returns every calendar event of the course, in server order,
// following the Link rel="next" header across pages. It stops when a page has
// no next link, comes back empty, or the page cap is reached; in the last
// case the accumulated partial list is returned with a warning rather than
// an error.
func (c *Client) ListEvents(ctx context.Context, courseID int) ([]Event, error) {
	query := url.Values{}
	query.Set("context_codes[]", fmt.Sprintf("course_%d", courseID))
	query.Set("all_events", "true")
	query.Set("per_page", fmt.Sprint(perPage))
	next := fmt.Sprintf("%s/api/v1/calendar_events/?%s", c.baseURL, query.Encode())

	var all []Event
	for page := 0; page < maxPages; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, &APIError{Kind: ErrorKindNetwork, Err: err}
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &APIError{Kind: ErrorKindNetwork, Err: err}
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &APIError{Kind: ErrorKindNetwork, Err: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{Kind: ErrorKindHTTP, StatusCode: resp.StatusCode, Body: string(body)}
		}

		var batch []Event
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("canvas: decoding event list: %w", err)
		}
		all = append(all, batch...)

		// Canvas documents the next link as a complete URL carrying all
		// parameters for the following page.
		next = nextLink(resp.Header.Get("Link"))
		if next == "" || len(batch) == 0 {
			return all, nil
		}
	}
	log.Printf("reached page limit on event results: %d event(s) in %d pages", len(all), maxPages)
	return all, nil
}

// nextLink extracts the rel="next" target from a Link response header, or ""
// when the header has none.
func nextLink(header string) string {
	for _, entry := range strings.Split(header, ",") {
		parts := strings.Split(entry, ";")
		if len(parts) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(parts[0]), "<>")
		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}

// CreateEvent posts one event to the course calendar, appending the hidden
// Marker to its description so a later run can recognize and delete it.
func (c *Client) CreateEvent(ctx context.Context, courseID int, event events.Event) error {
	form := url.Values{}
	form.Set("calendar_event[context_code]", fmt.Sprintf("course_%d", courseID))
	form.Set("calendar_event[start_at]", event.StartAt)
	form.Set("calendar_event[end_at]", event.EndAt)
	form.Set("calendar_event[title]", event.Title)
	form.Set("calendar_event[description]", event.Description+events.Marker)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/calendar_events", strings.NewReader(form.Encode()))
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Kind: ErrorKindHTTP, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// DeleteEvent removes one event by ID. Callers treat failures here as
// per-event and non-fatal.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/v1/calendar_events/%d", c.baseURL, id), nil)
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Kind: ErrorKindHTTP, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
