// Package review implements the terminal review loop against the HTTP API.
package review

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"catalognorm/internal/models"
	"catalognorm/internal/validation"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("api returned HTTP %d: %s", e.Status, e.Message)
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// Client talks to the catalognorm HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL. token may be empty.
func NewClient(baseURL, token string) (*Client, error) {
	if ok, msg := validation.ValidateURL(baseURL); !ok {
		return nil, fmt.Errorf("invalid API URL %q: %s", baseURL, msg)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ReviewQueue fetches up to limit pending products, oldest first.
func (c *Client) ReviewQueue(ctx context.Context, limit int) (*models.ReviewQueueResponse, error) {
	var out models.ReviewQueueResponse
	path := "/api/products/review?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type feedbackRequest struct {
	ProductID  int64   `json:"product_id"`
	IsApproved bool    `json:"is_approved"`
	Correction *string `json:"correction,omitempty"`
}

// SubmitFeedback records a reviewer decision.
func (c *Client) SubmitFeedback(ctx context.Context, productID int64, approved bool, correction *string) (*models.Feedback, error) {
	var out models.Feedback
	body := feedbackRequest{ProductID: productID, IsApproved: approved, Correction: correction}
	if err := c.do(ctx, http.MethodPost, "/api/feedback", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Retrain dispatches a background retrain.
func (c *Client) Retrain(ctx context.Context) (*models.RetrainAcceptedResponse, error) {
	var out models.RetrainAcceptedResponse
	if err := c.do(ctx, http.MethodPost, "/api/retrain", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReloadModel asks the server to reload the classifier artifact.
func (c *Client) ReloadModel(ctx context.Context) (*models.ModelInfoResponse, error) {
	var out models.ModelInfoResponse
	if err := c.do(ctx, http.MethodPost, "/api/model/reload", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
