package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"survey-insights-go/internal/types"
)

func TestSurveyFetch(t *testing.T) {
	want := types.Survey{
		ID:    "s1",
		Title: "Feedback",
		Questions: []types.Question{
			{ID: "q1", Text: "Rate us", Type: types.Rating},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surveys/s1" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Survey(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Survey: %v", err)
	}
	if got.ID != want.ID || len(got.Questions) != 1 || got.Questions[0].Type != types.Rating {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Survey(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]types.Response{{ID: "r1"}})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Responses(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Responses: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("got %v", got)
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want a retry after the 500", calls.Load())
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Responses(context.Background(), "s1"); err == nil {
		t.Fatal("expected error on 403")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retry on 4xx)", calls.Load())
	}
}

func TestFetchUnconfigured(t *testing.T) {
	c := New("", time.Second)
	if _, err := c.Survey(context.Background(), "s1"); err == nil {
		t.Fatal("expected error with no base URL")
	}
}
