// internal/points/client.go
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Result is one finishing player's outcome, posted to the external
// user-profile/points service.
type Result struct {
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId"`
	EventID  string `json:"eventId"`
	Score    int    `json:"score"`
	Point    int    `json:"point"`
}

// Client posts final scores to the points sink. One request per distinct
// player; a failed report is returned to the caller to log and never affects
// other players' reports.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a points client with a default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Report posts one player's result. credential is the opaque bearer token
// captured at join time; when empty, no Authorization header is sent.
func (c *Client) Report(ctx context.Context, result Result, credential string) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling points result for player %s: %w", result.PlayerID, err)
	}

	url := c.BaseURL + "/api/user/points"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building points request for player %s: %w", result.PlayerID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting points for player %s: %w", result.PlayerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("points sink returned status %d for player %s", resp.StatusCode, result.PlayerID)
	}
	return nil
}
