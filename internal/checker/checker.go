// Package checker talks to the remote cookie validation service. One
// credential per request; pacing between requests is the pipeline's job.
package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cookiegate/entity"
	"cookiegate/lib/sl"
)

type Config struct {
	Url    string
	ApiKey string
}

type Client struct {
	hc     *http.Client
	url    string
	apiKey string
	log    *slog.Logger
}

type verdict struct {
	Valid bool `json:"valid"`
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		hc:     &http.Client{Timeout: 10 * time.Second},
		url:    cfg.Url,
		apiKey: cfg.ApiKey,
		log:    logger.With(sl.Module("checker")),
	}
}

// Check reports whether the remote service accepts the credential.
// A transport failure or a non-2xx status is returned as an error, not
// as a negative verdict; the caller decides how to count it.
func (c *Client) Check(ctx context.Context, cred *entity.Credential) (bool, error) {
	log := c.log.With(sl.Secret("netflix_id", cred.NetflixId))

	var err error
	status := "ERROR"
	t1 := time.Now()
	defer func() {
		log.Debug("checker request completed",
			slog.String("duration", fmt.Sprintf("%.3fms", float64(time.Since(t1))/float64(time.Millisecond))),
			slog.String("status", status))
	}()

	data, err := json.Marshal(cred)
	if err != nil {
		return false, fmt.Errorf("marshal credential: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Warn("checker request failed", sl.Err(err))
		return false, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	status = resp.Status
	if resp.StatusCode >= 300 {
		log.Warn("checker returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return false, fmt.Errorf("checker %s: %s", resp.Status, body)
	}

	var v verdict
	if err = json.Unmarshal(body, &v); err != nil {
		return false, fmt.Errorf("decode verdict: %w", err)
	}
	return v.Valid, nil
}
