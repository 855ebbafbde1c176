package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terra-clan/skillsprint/internal/mentor"
)

func TestClient_SendsIdentityAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/learners/learner-3/enrollments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RoleHeader) != "learner" || r.Header.Get(UserHeader) != "learner-3" {
			t.Errorf("missing identity headers: %v", r.Header)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["trackId"] != "track-1" {
			t.Errorf("unexpected body %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":"enroll-x","learnerId":"learner-3","trackId":"track-1","stageNum":1,"status":"ACTIVE"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", WithIdentity("learner", "learner-3"))
	e, err := c.StartTrack(context.Background(), "learner-3", "track-1")
	if err != nil {
		t.Fatalf("StartTrack failed: %v", err)
	}
	if e.ID != "enroll-x" || e.StageNum != 1 {
		t.Errorf("unexpected enrollment %+v", e)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"not_found","message":"enrollment not found: nope"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.CompleteStage(context.Background(), "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || !IsNotFound(err) {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL).Health(context.Background())
	if err == nil || IsNotFound(err) {
		t.Errorf("expected plain HTTP error, got %v", err)
	}
}

func TestClient_Suggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/mentor/concept" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"kind":"concept","success":false,"content":"fallback","fallback":true,"remaining":0}}`))
	}))
	defer server.Close()

	s, err := NewClient(server.URL).Suggest(context.Background(), mentor.KindConcept, mentor.Request{Concept: "IAM"})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if !s.Fallback || s.Content != "fallback" {
		t.Errorf("unexpected suggestion %+v", s)
	}
}
