// internal/content/client.go
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quizstage/gameshow/internal/models"
)

// Client talks to the external brand/content service that serves both the
// event catalog and per-event question banks.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// NewClient builds a content client with a default timeout.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

// eventsResponse mirrors the catalog wire shape.
type eventsResponse struct {
	Events []models.Event `json:"events"`
}

// questionsResponse mirrors the question-bank wire shape. The upstream keeps
// its historical underscore-prefixed field name.
type questionsResponse struct {
	Success   bool              `json:"success"`
	Questions []models.Question `json:"_questions"`
}

// FetchEvents retrieves the full event catalog. Unlike question fetches,
// a failure here is a real error: without a catalog there is nothing to
// schedule and the caller decides how to proceed.
func (c *Client) FetchEvents(ctx context.Context) ([]models.Event, error) {
	url := c.BaseURL + "/brand/api/event/allevent"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching event catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event catalog returned status %d", resp.StatusCode)
	}

	var body eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding event catalog: %w", err)
	}
	return body.Events, nil
}

// FetchQuestions retrieves the question bank for one event. This call fails
// open: on any transport error, bad status, malformed payload, or an explicit
// success=false it logs and returns an empty slice so the session lifecycle
// can continue (the round controller ends a zero-question game immediately).
func (c *Client) FetchQuestions(ctx context.Context, eventID string) []models.Question {
	url := c.BaseURL + "/brand/api/event/fetchquestion/" + eventID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.Logger.Warnf("content: building question request for event %s: %v", eventID, err)
		return []models.Question{}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warnf("content: fetching questions for event %s: %v", eventID, err)
		return []models.Question{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warnf("content: question fetch for event %s returned status %d", eventID, resp.StatusCode)
		return []models.Question{}
	}

	var body questionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.Logger.Warnf("content: decoding questions for event %s: %v", eventID, err)
		return []models.Question{}
	}
	if !body.Success || body.Questions == nil {
		c.Logger.Warnf("content: question fetch for event %s reported success=%v", eventID, body.Success)
		return []models.Question{}
	}
	return body.Questions
}
