package api

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

	"github.com/google/uuid"

	"github.com/campuspulse/campuspulse/internal/constants"
	"github.com/campuspulse/campuspulse/internal/models"
)

// TokenSource supplies the current bearer token, or "" when none is stored.
// Requests without a token proceed unauthenticated; the service answers 401.
type TokenSource func() string

// Client talks to the remote feedback service.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenSource
}

func New(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: constants.SubmitTimeout},
		token:   token,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.New().String())

	res, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return res.StatusCode, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return res.StatusCode, nil
	}

	// Error responses may carry a {message} body.
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&payload)

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return res.StatusCode, ErrUnauthorized
	case http.StatusBadRequest:
		msg := payload.Message
		if msg == "" {
			msg = "request rejected"
		}
		return res.StatusCode, &ValidationError{Message: msg}
	default:
		return res.StatusCode, &StatusError{StatusCode: res.StatusCode, Message: payload.Message}
	}
}

// Login exchanges credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, username, password string) (models.User, string, error) {
	var res struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		Batch    string `json:"batch"`
		Token    string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/feedback/auth/login", body, &res); err != nil {
		return models.User{}, "", err
	}
	return models.User{Username: res.Username, Role: res.Role, Batch: res.Batch}, res.Token, nil
}

// Logout invalidates the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/feedback/auth/logout", nil, nil)
	return err
}

// CurrentUser returns the identity behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodGet, "/api/feedback/auth/user", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ActiveFeedback lists the student's feedback sessions, completed and not.
func (c *Client) ActiveFeedback(ctx context.Context) ([]models.FeedbackSession, error) {
	var sessions []models.FeedbackSession
	if _, err := c.do(ctx, http.MethodGet, "/api/feedback/student/active-feedback", nil, &sessions); err != nil {
		return nil, fmt.Errorf("failed to fetch feedback list: %w", err)
	}
	return sessions, nil
}

// TemplateQuestions fetches the question structure for one template.
func (c *Client) TemplateQuestions(ctx context.Context, templateID int) (models.Template, error) {
	var tmpl models.Template
	path := fmt.Sprintf("/api/feedback/templates/%d/questions", templateID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &tmpl); err != nil {
		return models.Template{}, fmt.Errorf("failed to fetch template %d: %w", templateID, err)
	}
	return tmpl, nil
}

// Submit posts the full flattened payload in one call. A 409, or a 200 whose
// body reports already_completed, maps to ErrAlreadySubmitted.
func (c *Client) Submit(ctx context.Context, items []models.SubmissionItem) error {
	var res struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	status, err := c.do(ctx, http.MethodPost, "/api/feedback/student/submit", items, &res)
	if err != nil {
		if status == http.StatusConflict {
			return ErrAlreadySubmitted
		}
		return err
	}
	if res.Status == "already_completed" {
		return ErrAlreadySubmitted
	}
	return nil
}

// Metadata returns the admin scheduling lookup data.
func (c *Client) Metadata(ctx context.Context) (models.Metadata, error) {
	var md models.Metadata
	if _, err := c.do(ctx, http.MethodGet, "/api/feedback/admin/metadata", nil, &md); err != nil {
		return models.Metadata{}, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return md, nil
}

// CreateSchedule schedules feedback sessions for a batch.
func (c *Client) CreateSchedule(ctx context.Context, req models.ScheduleRequest) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/feedback/admin/schedule", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Schedules lists existing schedules. The shape is service-defined, so the
// rows stay loosely typed.
func (c *Client) Schedules(ctx context.Context) ([]map[string]any, error) {
	var rows []map[string]any
	if _, err := c.do(ctx, http.MethodGet, "/api/feedback/admin/schedules", nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	return rows, nil
}

// AnalyticsFilter narrows an analytics query. Zero values are omitted.
type AnalyticsFilter struct {
	BatchIDs   []string
	Phases     []string
	SubjectIDs []string
	TemplateID string
	FromDate   string
	ToDate     string
}

// Analytics fetches aggregates for one staff member, or all staff when
// staffID is 0.
func (c *Client) Analytics(ctx context.Context, staffID int, filter AnalyticsFilter) ([]models.AnalyticsRow, error) {
	params := url.Values{}
	for _, id := range filter.BatchIDs {
		params.Add("batchIds", id)
	}
	for _, p := range filter.Phases {
		params.Add("phases", p)
	}
	for _, id := range filter.SubjectIDs {
		params.Add("subjectIds", id)
	}
	if filter.TemplateID != "" && filter.TemplateID != "all" {
		params.Add("templateId", filter.TemplateID)
	}
	if filter.FromDate != "" {
		params.Add("fromDate", filter.FromDate)
	}
	if filter.ToDate != "" {
		params.Add("toDate", filter.ToDate)
	}

	path := "/api/feedback/admin/analytics/" + strconv.Itoa(staffID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var rows []models.AnalyticsRow
	if _, err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch analytics: %w", err)
	}
	return rows, nil
}
