// Package client provides an HTTP client for the nidhi pipeline API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Maturity is one upcoming maturity from the notification feed.
type Maturity struct {
	OwnerID       string          `json:"owner_id"`
	Type          string          `json:"type"`
	AssetClass    string          `json:"asset_class"`
	PositionID    string          `json:"position_id"`
	StakeID       string          `json:"stake_id,omitempty"`
	Name          string          `json:"name"`
	MaturityDate  time.Time       `json:"maturity_date"`
	DaysRemaining int             `json:"days_remaining"`
	Amount        decimal.Decimal `json:"amount"`
}

// PipelineClient calls the API-key protected pipeline endpoints.
type PipelineClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPipelineClient creates a new pipeline API client.
func NewPipelineClient(baseURL, apiKey string, httpClient *http.Client) *PipelineClient {
	return &PipelineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// ComputeSnapshots records a snapshot for every owner at recordedAt and
// returns the count recorded.
func (c *PipelineClient) ComputeSnapshots(ctx context.Context, recordedAt time.Time) (int, error) {
	body := struct {
		RecordedAt string `json:"recorded_at"`
	}{RecordedAt: recordedAt.UTC().Format(time.RFC3339)}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/pipeline/snapshots", bytes.NewReader(jsonBody))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		SnapshotsRecorded int `json:"snapshots_recorded"`
	}
	if err := c.do(req, "computing snapshots", &result); err != nil {
		return 0, err
	}
	return result.SnapshotsRecorded, nil
}

// Maturities fetches the maturities ending within the next withinDays days
// across every owner.
func (c *PipelineClient) Maturities(ctx context.Context, withinDays int) ([]Maturity, error) {
	q := url.Values{}
	if withinDays > 0 {
		q.Set("within_days", strconv.Itoa(withinDays))
	}
	endpoint := c.baseURL + "/api/v1/pipeline/maturities"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var result struct {
		Maturities []Maturity `json:"maturities"`
	}
	if err := c.do(req, "fetching maturities", &result); err != nil {
		return nil, err
	}
	return result.Maturities, nil
}

func (c *PipelineClient) do(req *http.Request, action string, out any) error {
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", action, err)
	}
	return nil
}
