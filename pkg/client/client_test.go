package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/client"
	"github.com/goliatone/go-intake/pkg/intake"
)

func testSubmission() intake.Submission {
	return intake.Submission{
		Title:       "Support bot",
		Description: "A chatbot for support.",
		Budget:      5000,
	}
}

func TestCreate_Success(t *testing.T) {
	var received intake.Submission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"proj-123"}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	id, err := c.Create(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "proj-123" {
		t.Fatalf("unexpected project id: %s", id)
	}
	if diff := cmp.Diff(testSubmission(), received); diff != "" {
		t.Fatalf("request payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_ServerErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"budget exceeds department limit"}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	_, err = c.Create(context.Background(), testSubmission())
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *client.APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.UserMessage() != "budget exceeds department limit" {
		t.Fatalf("unexpected user message: %q", apiErr.UserMessage())
	}
}

func TestCreate_ServerErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	_, err = c.Create(context.Background(), testSubmission())
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *client.APIError, got %v", err)
	}
	if apiErr.UserMessage() != "" {
		t.Fatalf("expected empty user message, got %q", apiErr.UserMessage())
	}
}

func TestCreate_CustomHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`{"id":"proj-1"}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL,
		client.WithHTTPClient(server.Client()),
		client.WithHeader("Authorization", "Bearer token"),
	)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	if _, err := c.Create(context.Background(), testSubmission()); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestNew_RejectsBadEndpoint(t *testing.T) {
	if _, err := client.New("ftp://example.com/projects"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestCreate_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	if _, err := c.Create(context.Background(), testSubmission()); err == nil {
		t.Fatal("expected error for response without id")
	}
}
