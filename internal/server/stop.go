package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hevolve/companion/internal/logging"
)

// StopClient notifies the backend that the user ended the remote
// control session.
type StopClient struct {
	url    string
	client *http.Client
	log    *logging.Logger
}

// NewStopClient returns a client posting to url. log may be nil.
func NewStopClient(url string, log *logging.Logger) *StopClient {
	return &StopClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Stop posts the stop request. The payload narrows the stop to the
// stored user, and to the specific prompt when one is known; with no
// session it is a global stop. Returns nil only when the backend
// acknowledged with status "success" or "warning".
func (c *StopClient) Stop(ctx context.Context, userData map[string]string) error {
	payload := map[string]string{}
	if userID := userData["user_id"]; userID != "" {
		payload["user_id"] = userID
		if promptID := userData["prompt_id"]; promptID != "" {
			payload["prompt_id"] = promptID
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize stop payload: %w", err)
	}
	c.log.Info("Calling stop API at %s with payload: %s", c.url, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build stop request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("stop request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stop request returned HTTP %d", resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode stop response: %w", err)
	}
	if result.Status != "success" && result.Status != "warning" {
		return fmt.Errorf("stop request not acknowledged: status %q", result.Status)
	}
	return nil
}
