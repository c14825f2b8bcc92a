package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MakeClient forwards content requests to a Make.com scenario webhook and
// passes the scenario's response through unmodified.
type MakeClient struct {
	http *http.Client
}

// NewMakeClient returns a webhook client with the given timeout.
func NewMakeClient(timeout time.Duration) *MakeClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MakeClient{
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Trigger posts the payload to the webhook and returns the raw JSON response.
func (c *MakeClient) Trigger(ctx context.Context, webhookURL string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(webhookURL) == "" {
		return nil, errors.New("make: webhook URL required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("make: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("make: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make: webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("make: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("make: webhook failed: %s", resp.Status)
	}
	if !json.Valid(data) {
		// Webhooks configured without a JSON response module answer with
		// plain text ("Accepted"); wrap it so the envelope stays JSON.
		quoted, _ := json.Marshal(strings.TrimSpace(string(data)))
		return quoted, nil
	}
	return data, nil
}
