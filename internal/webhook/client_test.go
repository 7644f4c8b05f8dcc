package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/export"
)

func testPayload() export.Payload {
	return export.Payload{
		Employee:   export.EmployeeInfo{ID: "u-1", Name: "Jo"},
		Week:       export.WeekRange{Start: "2026-03-02", End: "2026-03-08"},
		TotalHours: 7,
		SiteTotals: map[string]float64{"Riverside Depot": 7},
	}
}

func TestSubmitPayload(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, zap.NewNop())
	if err := c.SubmitPayload(context.Background(), srv.URL, testPayload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "text/plain;charset=utf-8" {
		t.Errorf("content type = %q", gotContentType)
	}
	if len(gotBody) == 0 {
		t.Error("expected a JSON body")
	}
}

// A non-2xx response still counts as a successful dispatch: the receiver's
// status is not part of the contract.
func TestSubmitPayloadIgnoresStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, zap.NewNop())
	if err := c.SubmitPayload(context.Background(), srv.URL, testPayload()); err != nil {
		t.Fatalf("non-2xx status should not fail the dispatch: %v", err)
	}
}

func TestSubmitPayloadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(time.Second, zap.NewNop())
	err := c.SubmitPayload(context.Background(), srv.URL, testPayload())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var te *apperr.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %T", err)
	}
}
