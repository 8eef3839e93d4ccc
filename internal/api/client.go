// Package api is the HTTP client for the planning/verification collaborator.
// The collaborator is a black box: this package owns only the request
// shapes, the decoding of responses into domain types, and the resilience
// policy around the transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/store"
)

// Config configures the collaborator client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
}

// Client talks to the collaborator. Safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	breakers *breakerRegistry
	retry    RetryConfig
}

// New creates a collaborator client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		breakers: newBreakerRegistry(),
		retry:    cfg.Retry,
	}
}

// Dashboard fetches the user snapshot and the current task collection.
func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	var resp dashboardResponse
	err := callWithRetry(ctx, c.breakers.get("dashboard"), c.retry, func() error {
		return c.get(ctx, "/dashboard", &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching dashboard: %w", err)
	}

	return &DashboardData{
		User: store.UserSnapshot{
			Name:   resp.User.Name,
			XP:     resp.User.XP,
			Streak: resp.User.Streak,
		},
		Tasks: toTasks(resp.Tasks),
	}, nil
}

// Calendar fetches the full task collection regardless of date; windowing
// is the dashboard aggregator's job.
func (c *Client) Calendar(ctx context.Context) ([]*lifecycle.Task, error) {
	var resp []wireTask
	err := callWithRetry(ctx, c.breakers.get("calendar"), c.retry, func() error {
		return c.get(ctx, "/calendar", &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	return toTasks(resp), nil
}

// Refresh fetches the dashboard and the calendar concurrently and merges
// the task collections, calendar entries winning only for ids the
// dashboard doesn't know about.
func (c *Client) Refresh(ctx context.Context) (*DashboardData, error) {
	var dash *DashboardData
	var calendar []*lifecycle.Task

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash, err = c.Dashboard(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		calendar, err = c.Calendar(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(dash.Tasks))
	for _, t := range dash.Tasks {
		seen[t.ID] = true
	}
	for _, t := range calendar {
		if !seen[t.ID] {
			dash.Tasks = append(dash.Tasks, t)
		}
	}
	return dash, nil
}

// PlanDay submits a goal to the planning collaborator. The returned tasks
// are appended to the existing collection by the caller, never replacing it.
func (c *Client) PlanDay(ctx context.Context, goal string, availableMinutes int) ([]*lifecycle.Task, error) {
	var resp planResponse
	err := callOnce(c.breakers.get("plan"), func() error {
		return c.post(ctx, "/plan", planRequest{Goal: goal, AvailableTime: availableMinutes}, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("submitting plan: %w", err)
	}

	if resp.Status == "error" {
		return nil, fmt.Errorf("planner rejected goal: %s", resp.Message)
	}
	return toTasks(resp.Tasks), nil
}

// VerifyTask submits proof for a task and returns the interpreted outcome.
// Never retried: replaying a graded submission could double-award or
// double-penalize.
func (c *Client) VerifyTask(ctx context.Context, taskID, proofText, proofImage string) (lifecycle.Outcome, error) {
	var resp verifyResponse
	err := callOnce(c.breakers.get("verify"), func() error {
		return c.post(ctx, "/verify", verifyRequest{
			TaskID:       taskID,
			ProofContent: proofText,
			ProofImage:   proofImage,
		}, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("submitting proof: %w", err)
	}

	outcome, err := resp.outcome()
	if err != nil {
		return nil, fmt.Errorf("interpreting verification response: %w", err)
	}
	return outcome, nil
}

// GetAnalytics fetches completion statistics.
func (c *Client) GetAnalytics(ctx context.Context) (*Analytics, error) {
	var resp Analytics
	err := callWithRetry(ctx, c.breakers.get("analytics"), c.retry, func() error {
		return c.get(ctx, "/analytics", &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching analytics: %w", err)
	}
	return &resp, nil
}

// OnboardUser creates the user profile.
func (c *Client) OnboardUser(ctx context.Context, profile Profile) error {
	err := callOnce(c.breakers.get("onboard"), func() error {
		return c.post(ctx, "/user/onboard", profile, nil)
	})
	if err != nil {
		return fmt.Errorf("onboarding user: %w", err)
	}
	return nil
}

// SaveKey stores the collaborator's API key.
func (c *Client) SaveKey(ctx context.Context, apiKey string) error {
	err := callOnce(c.breakers.get("settings"), func() error {
		return c.post(ctx, "/settings/key", keyRequest{APIKey: apiKey}, nil)
	})
	if err != nil {
		return fmt.Errorf("saving key: %w", err)
	}
	return nil
}

// KeyConfigured reports whether the collaborator has a stored API key.
// Planning is gated on this.
func (c *Client) KeyConfigured(ctx context.Context) (bool, error) {
	var resp keyStatusResponse
	err := callWithRetry(ctx, c.breakers.get("settings"), c.retry, func() error {
		return c.get(ctx, "/settings/key", &resp)
	})
	if err != nil {
		return false, fmt.Errorf("checking key status: %w", err)
	}
	return resp.Configured, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
