package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/formwiz/internal/version"
)

const mockFormResponse = `{
  "message": "Form fetched successfully",
  "form": {
    "formTitle": "Student Registration",
    "formId": "form_001",
    "version": "1.0",
    "sections": [
      {
        "sectionId": 1,
        "title": "Personal",
        "description": "Tell us about you",
        "fields": [
          {"fieldId": "name", "type": "text", "label": "Name", "required": true, "minLength": 2}
        ]
      }
    ]
  }
}`

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if client.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", client.MaxRetries)
	}
	if client.UserAgent != version.UserAgent() {
		t.Errorf("UserAgent = %q, want %q", client.UserAgent, version.UserAgent())
	}
}

func TestSetTimeoutAndRetry(t *testing.T) {
	client := NewClient("http://localhost")
	client.SetTimeout(5 * time.Second)
	client.SetRetry(2, 10*time.Millisecond)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
	if client.MaxRetries != 2 || client.RetryDelay != 10*time.Millisecond {
		t.Errorf("retry = %d/%v, want 2/10ms", client.MaxRetries, client.RetryDelay)
	}
}

func TestRegisterUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create-user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "formwiz/") {
			t.Errorf("User-Agent = %q", ua)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if body["rollNumber"] != "21CS042" || body["name"] != "Ada" {
			t.Errorf("body = %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"User created successfully"}`)
	}))
	defer server.Close()

	ack, err := NewClient(server.URL).RegisterUser(context.Background(), Identity{ID: "21CS042", Name: "Ada"})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if ack.Message != "User created successfully" {
		t.Errorf("Message = %q", ack.Message)
	}
}

func TestRegisterUser_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantUser    string
	}{
		{
			name:        "server message",
			status:      http.StatusBadRequest,
			body:        `{"message":"Roll number already taken"}`,
			wantMessage: "Roll number already taken",
			wantUser:    "Failed to create user: Roll number already taken",
		},
		{
			name:        "no message",
			status:      http.StatusBadRequest,
			body:        `{}`,
			wantMessage: "Failed to create user",
			wantUser:    "Failed to create user: Failed to create user",
		},
		{
			name:        "non-json body",
			status:      http.StatusInternalServerError,
			body:        `<html>oops</html>`,
			wantMessage: "Failed to create user",
			wantUser:    "Failed to create user: Failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL).RegisterUser(context.Background(), Identity{ID: "1", Name: "A"})

			var gwErr *GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("error = %v, want *GatewayError", err)
			}
			if gwErr.Type != ErrTypeRegistration {
				t.Errorf("Type = %v, want %v", gwErr.Type, ErrTypeRegistration)
			}
			if gwErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", gwErr.StatusCode, tt.status)
			}
			if gwErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", gwErr.Message, tt.wantMessage)
			}
			if got := UserMessage(err); got != tt.wantUser {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestFetchSchema(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/get-form" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("rollNumber")
		_, _ = io.WriteString(w, mockFormResponse)
	}))
	defer server.Close()

	form, err := NewClient(server.URL).FetchSchema(context.Background(), "21 CS&042")
	if err != nil {
		t.Fatalf("FetchSchema() error = %v", err)
	}
	if gotQuery != "21 CS&042" {
		t.Errorf("rollNumber query = %q, want it escaped and round-tripped", gotQuery)
	}
	if form == nil {
		t.Fatal("FetchSchema() returned nil form")
	}
	if form.Title != "Student Registration" || len(form.Sections) != 1 {
		t.Errorf("form = %+v", form)
	}
	if form.Sections[0].ID != "1" {
		t.Errorf("section ID = %q, want numeric id as string", form.Sections[0].ID)
	}
}

func TestFetchSchema_NoForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"No form assigned"}`)
	}))
	defer server.Close()

	form, err := NewClient(server.URL).FetchSchema(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchSchema() error = %v", err)
	}
	if form != nil {
		t.Errorf("FetchSchema() = %+v, want nil form", form)
	}
}

func TestFetchSchema_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
		wantUser string
	}{
		{"not found", http.StatusNotFound, `{"message":"User not found"}`, ErrTypeFetch, "Failed to fetch form: User not found"},
		{"fallback", http.StatusNotFound, ``, ErrTypeFetch, "Failed to fetch form: Failed to fetch form data"},
		{"malformed", http.StatusOK, `{"form":`, ErrTypeParse, "Failed to fetch form: unexpected response from gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL).FetchSchema(context.Background(), "1")

			var gwErr *GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("error = %v, want *GatewayError", err)
			}
			if gwErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", gwErr.Type, tt.wantType)
			}
			if got := UserMessage(err); got != tt.wantUser {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestRetry_ServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, mockFormResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetRetry(3, time.Millisecond)

	if _, err := client.FetchSchema(context.Background(), "1"); err != nil {
		t.Fatalf("FetchSchema() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestRetry_NotForClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetRetry(3, time.Millisecond)

	if _, err := client.RegisterUser(context.Background(), Identity{ID: "1", Name: "A"}); err == nil {
		t.Fatal("RegisterUser() should fail")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).FetchSchema(context.Background(), "1"); err == nil {
		t.Fatal("FetchSchema() should fail")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewClient(addr).RegisterUser(context.Background(), Identity{ID: "1", Name: "A"})
	if !IsNetworkError(err) {
		t.Fatalf("error = %v, want a network error", err)
	}
	if got := UserMessage(err); !strings.HasPrefix(got, "Failed to create user: ") {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL)
	client.SetTimeout(50 * time.Millisecond)

	_, err := client.FetchSchema(context.Background(), "1")

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Type != ErrTypeTimeout {
		t.Fatalf("error = %v, want timeout", err)
	}
	if got := UserMessage(err); got != "Failed to fetch form: gateway not responding (timeout)" {
		t.Errorf("UserMessage() = %q", got)
	}
}
