// Package remote talks to the remote table store that backs up the local
// cache. The store exposes two logical tables, daily_records and goal_sets,
// each with bulk read and upsert-by-primary-key.
package remote

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

// ErrUnavailable marks a transport or server-side failure. Callers treat it
// as non-fatal: the local store stays authoritative and the sync self-heals
// on the next successful pull.
var ErrUnavailable = errors.New("remote store unavailable")

// DailyRow is a daily_records table row.
type DailyRow struct {
	Date string          `json:"date"`
	Data json.RawMessage `json:"data"`
}

// GoalRow is a goal_sets table row.
type GoalRow struct {
	Scope string          `json:"scope"`
	Data  json.RawMessage `json:"data"`
}

// Client is an HTTP client for the remote store.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
}

// NewClient builds a client for baseURL. apiKeyHeader defaults to X-API-Key.
func NewClient(baseURL, apiKey, apiKeyHeader string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("remote base url is empty")
	}
	if strings.TrimSpace(apiKeyHeader) == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// ListRecords reads the full daily_records table.
func (c *Client) ListRecords(ctx context.Context) ([]DailyRow, error) {
	var rows []DailyRow
	if err := c.get(ctx, "/daily_records", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertRecord inserts-or-replaces one daily record by date.
func (c *Client) UpsertRecord(ctx context.Context, date string, data json.RawMessage) error {
	return c.upsert(ctx, "/daily_records", []DailyRow{{Date: date, Data: data}})
}

// ListGoals reads the full goal_sets table.
func (c *Client) ListGoals(ctx context.Context) ([]GoalRow, error) {
	var rows []GoalRow
	if err := c.get(ctx, "/goal_sets", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertGoals inserts-or-replaces one goal singleton by scope.
func (c *Client) UpsertGoals(ctx context.Context, scope string, data json.RawMessage) error {
	return c.upsert(ctx, "/goal_sets", []GoalRow{{Scope: scope, Data: data}})
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %d: %s", ErrUnavailable, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) upsert(ctx context.Context, path string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %d: %s", ErrUnavailable, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
