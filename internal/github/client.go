// Package github is a minimal GitHub REST API client covering the two
// endpoints the release tooling needs: tag listing and milestone
// management. Authentication is a plain token header; unauthenticated
// access works for public repositories at a lower rate limit.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every API request.
const DefaultTimeout = 15 * time.Second

// Client talks to the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL (e.g.
// "https://api.github.com"). token may be empty for unauthenticated
// access.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Tag is one entry of a repository's tag listing, newest first as the
// API returns them.
type Tag struct {
	Name string `json:"name"`
}

// ListTags returns the tags of repo ("owner/name"), preserving the
// API's newest-first order.
func (c *Client) ListTags(ctx context.Context, repo string) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/tags", repo), nil, &tags); err != nil {
		return nil, fmt.Errorf("listing tags of %s: %w", repo, err)
	}
	return tags, nil
}

// Milestone is a GitHub milestone.
type Milestone struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
}

// MilestoneRequest is the payload for creating or editing a milestone.
// Zero fields are omitted so partial edits leave the rest untouched.
type MilestoneRequest struct {
	Title       string `json:"title,omitempty"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
	DueOn       string `json:"due_on,omitempty"`
}

// ListMilestones returns all open milestones of repo.
func (c *Client) ListMilestones(ctx context.Context, repo string) ([]Milestone, error) {
	var milestones []Milestone
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/milestones", repo), nil, &milestones); err != nil {
		return nil, fmt.Errorf("listing milestones of %s: %w", repo, err)
	}
	return milestones, nil
}

// CreateMilestone creates a milestone in repo.
func (c *Client) CreateMilestone(ctx context.Context, repo string, req MilestoneRequest) (*Milestone, error) {
	var milestone Milestone
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/milestones", repo), req, &milestone); err != nil {
		return nil, fmt.Errorf("creating milestone in %s: %w", repo, err)
	}
	return &milestone, nil
}

// UpdateMilestone patches an existing milestone in repo.
func (c *Client) UpdateMilestone(ctx context.Context, repo string, number int, req MilestoneRequest) (*Milestone, error) {
	var milestone Milestone
	path := fmt.Sprintf("/repos/%s/milestones/%d", repo, number)
	if err := c.do(ctx, http.MethodPatch, path, req, &milestone); err != nil {
		return nil, fmt.Errorf("updating milestone %d in %s: %w", number, repo, err)
	}
	return &milestone, nil
}

// do performs one API request, encoding payload as JSON when non-nil
// and decoding the response body into out.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(message))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
