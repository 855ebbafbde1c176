package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terra-clan/skillsprint/internal/mentor"
	"github.com/terra-clan/skillsprint/internal/models"
)

// Role switch headers understood by the server
const (
	RoleHeader = "X-SkillSprint-Role"
	UserHeader = "X-SkillSprint-User"
)

// Client is a Go SDK for the skillsprint API
type Client struct {
	baseURL    string
	role       string
	user       string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithIdentity sets the role switch sent with every request
func WithIdentity(role, user string) Option {
	return func(c *Client) {
		c.role = role
		c.user = user
	}
}

// NewClient creates a new skillsprint client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-success envelope returned by the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a not_found API error
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "not_found"
}

// MentorQuota is the caller's remaining mentor budget
type MentorQuota struct {
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Available bool `json:"available"`
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ListTracks retrieves every track
func (c *Client) ListTracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	err := c.do(ctx, http.MethodGet, "/api/v1/tracks", nil, &tracks)
	return tracks, err
}

// GetTrack retrieves a track by ID
func (c *Client) GetTrack(ctx context.Context, id string) (*models.Track, error) {
	var t models.Track
	if err := c.do(ctx, http.MethodGet, "/api/v1/tracks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TrackStages retrieves the stages of a track, in order
func (c *Client) TrackStages(ctx context.Context, trackID string) ([]models.Stage, error) {
	var stages []models.Stage
	err := c.do(ctx, http.MethodGet, "/api/v1/tracks/"+url.PathEscape(trackID)+"/stages", nil, &stages)
	return stages, err
}

// StartTrack enrolls a learner in a track
func (c *Client) StartTrack(ctx context.Context, learnerID, trackID string) (*models.Enrollment, error) {
	var e models.Enrollment
	body := map[string]string{"trackId": trackID}
	if err := c.do(ctx, http.MethodPost, learnerPath(learnerID, "enrollments"), body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// LearnerEnrollments lists a learner's enrollments
func (c *Client) LearnerEnrollments(ctx context.Context, learnerID string) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := c.do(ctx, http.MethodGet, learnerPath(learnerID, "enrollments"), nil, &list)
	return list, err
}

// GetEnrollment retrieves an enrollment by ID
func (c *Client) GetEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := c.do(ctx, http.MethodGet, "/api/v1/enrollments/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CheckIn logs a study session against an enrollment
func (c *Client) CheckIn(ctx context.Context, enrollmentID string, minutes int, note string) (*models.CheckIn, error) {
	var ci models.CheckIn
	body := map[string]interface{}{"minutes": minutes, "note": note}
	if err := c.do(ctx, http.MethodPost, enrollmentPath(enrollmentID, "check-ins"), body, &ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// CompleteStage advances an enrollment by one stage
func (c *Client) CompleteStage(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := c.do(ctx, http.MethodPost, enrollmentPath(enrollmentID, "complete-stage"), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CompleteCourse records a scored course completion
func (c *Client) CompleteCourse(ctx context.Context, learnerID, courseID string, score int) (*models.CourseCompletion, error) {
	var cc models.CourseCompletion
	body := map[string]interface{}{"courseId": courseID, "score": score}
	if err := c.do(ctx, http.MethodPost, learnerPath(learnerID, "completions"), body, &cc); err != nil {
		return nil, err
	}
	return &cc, nil
}

// UpdateResume replaces a learner's resume
func (c *Client) UpdateResume(ctx context.Context, learnerID string, resume models.Resume) (*models.Learner, error) {
	var l models.Learner
	if err := c.do(ctx, http.MethodPut, learnerPath(learnerID, "resume"), resume, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Skills retrieves the learner's full, sorted skill set
func (c *Client) Skills(ctx context.Context, learnerID string) ([]string, error) {
	var skills []string
	err := c.do(ctx, http.MethodGet, learnerPath(learnerID, "skills"), nil, &skills)
	return skills, err
}

// SkillsProfile retrieves base skills plus skills earned from stages
func (c *Client) SkillsProfile(ctx context.Context, learnerID string) ([]string, error) {
	var skills []string
	err := c.do(ctx, http.MethodGet, learnerPath(learnerID, "skills-profile"), nil, &skills)
	return skills, err
}

// LearnerSummary retrieves the learner dashboard profile
func (c *Client) LearnerSummary(ctx context.Context, learnerID string) (*models.LearnerSummary, error) {
	var sum models.LearnerSummary
	if err := c.do(ctx, http.MethodGet, learnerPath(learnerID, "summary"), nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// JobMatches evaluates the learner against every job
func (c *Client) JobMatches(ctx context.Context, learnerID string) (*models.JobMatches, error) {
	var m models.JobMatches
	if err := c.do(ctx, http.MethodGet, learnerPath(learnerID, "job-matches"), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CompanyEnrollments lists a company's enrollments with their risk
func (c *Client) CompanyEnrollments(ctx context.Context, companyID string) ([]models.EnrollmentWithRisk, error) {
	var list []models.EnrollmentWithRisk
	err := c.do(ctx, http.MethodGet, "/api/v1/companies/"+url.PathEscape(companyID)+"/enrollments", nil, &list)
	return list, err
}

// SendOutreach sends a message from a company to a learner
func (c *Client) SendOutreach(ctx context.Context, companyID, learnerID, message string) (*models.OutreachMessage, error) {
	var m models.OutreachMessage
	body := map[string]string{"learnerId": learnerID, "message": message}
	if err := c.do(ctx, http.MethodPost, "/api/v1/companies/"+url.PathEscape(companyID)+"/outreach", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Suggest asks the mentor for a suggestion of the given kind
func (c *Client) Suggest(ctx context.Context, kind mentor.Kind, req mentor.Request) (*mentor.Suggestion, error) {
	var s mentor.Suggestion
	if err := c.do(ctx, http.MethodPost, "/api/v1/mentor/"+url.PathEscape(string(kind)), req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MentorQuota retrieves the caller's remaining mentor calls for today
func (c *Client) MentorQuota(ctx context.Context) (*MentorQuota, error) {
	var q MentorQuota
	if err := c.do(ctx, http.MethodGet, "/api/v1/mentor/quota", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func learnerPath(learnerID, sub string) string {
	return "/api/v1/learners/" + url.PathEscape(learnerID) + "/" + sub
}

func enrollmentPath(enrollmentID, sub string) string {
	return "/api/v1/enrollments/" + url.PathEscape(enrollmentID) + "/" + sub
}

// do performs an HTTP request and unwraps the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.role != "" {
		req.Header.Set(RoleHeader, c.role)
	}
	if c.user != "" {
		req.Header.Set(UserHeader, c.user)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		apiErr := &APIError{Status: resp.StatusCode, Code: "unknown", Message: http.StatusText(resp.StatusCode)}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return apiErr
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
