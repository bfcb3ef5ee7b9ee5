package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuspulse/campuspulse/internal/models"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.FeedbackSession{})
	}))
	defer srv.Close()

	client := New(srv.URL, func() string { return "tok-xyz" })
	if _, err := client.ActiveFeedback(context.Background()); err != nil {
		t.Fatalf("ActiveFeedback() failed: %v", err)
	}
	if gotAuth != "Bearer tok-xyz" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-xyz")
	}
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.ActiveFeedback(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestSubmitConflictIsAlreadySubmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	err := client.Submit(context.Background(), []models.SubmissionItem{{ScheduleID: 1}})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitAlreadyCompletedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "already_completed"})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	err := client.Submit(context.Background(), []models.SubmissionItem{{ScheduleID: 1}})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "feedback window has closed"})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	err := client.Submit(context.Background(), []models.SubmissionItem{{ScheduleID: 1}})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Message != "feedback window has closed" {
		t.Errorf("message = %q, want %q", verr.Message, "feedback window has closed")
	}
}

func TestSubmitSendsFlatPayload(t *testing.T) {
	var got []models.SubmissionItem
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	items := []models.SubmissionItem{
		{ScheduleID: 10, QuestionID: 1, OptionID: 4, Marks: 8, StaffID: 3, BatchID: "B1", SubjectID: 7},
		{ScheduleID: 10, QuestionID: 2, OptionID: 5, Marks: 10, StaffID: 3, BatchID: "B1", SubjectID: 7},
	}
	client := New(srv.URL, nil)
	if err := client.Submit(context.Background(), items); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if len(got) != 2 || got[0].ScheduleID != 10 || got[1].Marks != 10 {
		t.Errorf("server received %+v, want the submitted items", got)
	}
}

func TestTemplateQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedback/templates/42/questions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.Template{
			TemplateID:   42,
			TemplateName: "Teaching Quality",
			Sections: []models.Section{{
				SectionName: "Part A",
				Questions: []models.Question{
					{ID: 1, QuestionText: "Clarity", Options: []models.Option{{ID: 11, Marks: 10}}},
					{ID: 2, QuestionText: "Pace", Options: []models.Option{{ID: 12, Marks: 8}}},
				},
			}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	tmpl, err := client.TemplateQuestions(context.Background(), 42)
	if err != nil {
		t.Fatalf("TemplateQuestions() failed: %v", err)
	}
	if tmpl.QuestionCount() != 2 {
		t.Errorf("QuestionCount() = %d, want 2", tmpl.QuestionCount())
	}
	if opt, ok := tmpl.FindOption(2, 12); !ok || opt.Marks != 8 {
		t.Errorf("FindOption(2, 12) = (%+v, %v), want marks 8", opt, ok)
	}
	if _, ok := tmpl.FindOption(2, 99); ok {
		t.Error("FindOption(2, 99) found an option that does not exist")
	}
}

func TestAnalyticsQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]models.AnalyticsRow{})
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.Analytics(context.Background(), 5, AnalyticsFilter{
		BatchIDs:   []string{"B1", "B2"},
		Phases:     []string{"Phase 1"},
		TemplateID: "all",
		FromDate:   "2026-01-01",
	})
	if err != nil {
		t.Fatalf("Analytics() failed: %v", err)
	}
	if gotQuery != "batchIds=B1&batchIds=B2&fromDate=2026-01-01&phases=Phase+1" {
		t.Errorf("query = %q", gotQuery)
	}
}
