package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks the hosted key-value REST API: single-key reads via
// GET <base>/get/<key> and commands posted to the base URL as a JSON
// array, both authenticated with a static bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type result struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

// Get reads the value stored under key. The second return is false when
// the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.kv.Get"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get/"+key, nil)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var res result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", false, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if res.Error != "" {
		return "", false, fmt.Errorf("%s: backend error: %s", op, res.Error)
	}
	if res.Result == nil {
		return "", false, nil
	}

	return *res.Result, true, nil
}

// Set unconditionally overwrites the value stored under key. The backend
// must acknowledge with "OK"; anything else is a failed write.
func (c *Client) Set(ctx context.Context, key, value string) error {
	const op = "storage.kv.Set"

	body, err := json.Marshal([]string{"SET", key, value})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var res result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if res.Result == nil || *res.Result != "OK" {
		if res.Error != "" {
			return fmt.Errorf("%s: backend error: %s", op, res.Error)
		}
		return fmt.Errorf("%s: write not acknowledged", op)
	}

	return nil
}
