package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coursetools/canvascal/internal/events"
)

func serveEvents(t *testing.T, w http.ResponseWriter, evs []Event) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(evs); err != nil {
		t.Errorf("encoding page: %v", err)
	}
}

func makeEvents(firstID int64, n int) []Event {
	evs := make([]Event, n)
	for i := range evs {
		evs[i] = Event{ID: firstID + int64(i), Title: fmt.Sprintf("event-%d", firstID+int64(i))}
	}
	return evs
}

func TestListEventsPagination(t *testing.T) {
	var requests int
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			q := r.URL.Query()
			if got := q.Get("context_codes[]"); got != "course_42" {
				t.Errorf("context_codes[] = %q, want course_42", got)
			}
			if q.Get("all_events") != "true" || q.Get("per_page") != "100" {
				t.Errorf("unexpected query: %v", q)
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/calendar_events/?page=2&per_page=100>; rel="next", <%s/api/v1/calendar_events/?page=3&per_page=100>; rel="last"`, srv.URL, srv.URL))
			serveEvents(t, w, makeEvents(1, 100))
		case 2:
			if r.URL.Query().Get("page") != "2" {
				t.Errorf("second fetch did not follow the next link: %v", r.URL)
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/calendar_events/?page=3&per_page=100>; rel="next"`, srv.URL))
			serveEvents(t, w, makeEvents(101, 100))
		case 3:
			// Last page, no next link.
			serveEvents(t, w, makeEvents(201, 5))
		default:
			t.Errorf("unexpected request %d", requests)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	got, err := c.ListEvents(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 205 {
		t.Fatalf("got %d events, want 205", len(got))
	}
	if got[0].ID != 1 || got[204].ID != 205 {
		t.Errorf("per-page order not preserved: first %d last %d", got[0].ID, got[204].ID)
	}
	if requests != 3 {
		t.Errorf("made %d requests, want 3", requests)
	}
}

func TestListEventsStopsOnEmptyPage(t *testing.T) {
	var requests int
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Always advertise a next page; an empty page must still terminate.
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/calendar_events/?page=%d>; rel="next"`, srv.URL, requests+1))
		if requests == 1 {
			serveEvents(t, w, makeEvents(1, 100))
		} else {
			serveEvents(t, w, nil)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	got, err := c.ListEvents(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Errorf("got %d events, want 100", len(got))
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2 (no extra fetch after the empty page)", requests)
	}
}

func TestListEventsPageCap(t *testing.T) {
	var requests int
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/calendar_events/?page=%d>; rel="next"`, srv.URL, requests+1))
		serveEvents(t, w, makeEvents(int64(requests), 1))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	got, err := c.ListEvents(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if requests != 30 {
		t.Errorf("made %d requests, want exactly 30", requests)
	}
	if len(got) != 30 {
		t.Errorf("got %d events, want the 30-page partial result", len(got))
	}
}

func TestListEventsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"Invalid access token."}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.ListEvents(context.Background(), 7)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Kind != ErrorKindHTTP || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("got kind %q status %d", apiErr.Kind, apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "Invalid access token") {
		t.Errorf("response body not captured: %q", apiErr.Body)
	}
}

func TestListEventsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.ListEvents(context.Background(), 7)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Kind != ErrorKindNetwork {
		t.Errorf("got kind %q, want %q", apiErr.Kind, ErrorKindNetwork)
	}
	if apiErr.Unwrap() == nil {
		t.Error("network error should wrap the transport error")
	}
}

func TestCreateEvent(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/calendar_events" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
			return
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	err := c.CreateEvent(context.Background(), 42, events.Event{
		StartAt:     "2021-09-20T16:00:00Z",
		EndAt:       "2021-09-20T17:00:00Z",
		Title:       "MP2-Hello",
		Description: "<p>ABC</p>",
	})
	if err != nil {
		t.Fatal(err)
	}

	if form["calendar_event[context_code]"] != "course_42" {
		t.Errorf("context_code = %q", form["calendar_event[context_code]"])
	}
	if form["calendar_event[start_at]"] != "2021-09-20T16:00:00Z" || form["calendar_event[end_at]"] != "2021-09-20T17:00:00Z" {
		t.Errorf("dates not posted: %v", form)
	}
	if form["calendar_event[title]"] != "MP2-Hello" {
		t.Errorf("title = %q", form["calendar_event[title]"])
	}
	if want := "<p>ABC</p>" + events.Marker; form["calendar_event[description]"] != want {
		t.Errorf("description = %q, want marker appended: %q", form["calendar_event[description]"], want)
	}
}

func TestCreateEventHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	err := c.CreateEvent(context.Background(), 42, events.Event{Title: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != ErrorKindHTTP {
		t.Fatalf("expected http-status APIError, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"}, nil) // trailing slash must not double up
	if err := c.DeleteEvent(context.Background(), 314); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/calendar_events/314" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

func TestDeleteEventHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	var apiErr *APIError
	if err := c.DeleteEvent(context.Background(), 1); !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
}

func TestNextLink(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{`<https://c.edu/api?page=2>; rel="next"`, "https://c.edu/api?page=2"},
		{`<https://c.edu/api?page=1>; rel="current", <https://c.edu/api?page=2>; rel="next", <https://c.edu/api?page=9>; rel="last"`, "https://c.edu/api?page=2"},
		{`<https://c.edu/api?page=9>; rel="last"`, ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := nextLink(tc.header); got != tc.want {
			t.Errorf("nextLink(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestTagged(t *testing.T) {
	marked := "details" + events.Marker
	plain := "details"
	almost := events.Marker + " trailing"
	cases := []struct {
		desc *string
		want bool
	}{
		{&marked, true},
		{&plain, false},
		{&almost, false}, // marker must be an exact suffix
		{nil, false},
	}
	for _, tc := range cases {
		if got := (Event{Description: tc.desc}).Tagged(); got != tc.want {
			t.Errorf("Tagged(%v) = %v, want %v", tc.desc, got, tc.want)
		}
	}
}
