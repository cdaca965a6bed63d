package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"trendcheck-go/pkg/logger"
)

// TrendData is one keyword's remote trend metrics.
type TrendData struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int     `json:"search_volume"`
	Competition  float64 `json:"competition"`
}

// Client is a thin wrapper around a remote trends API. The core scoring
// pipeline never depends on it; it exists as the boundary real
// deployments would swap in for the heuristic scorer.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *fasthttp.Client
	log     *logger.Logger
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: 30 * time.Second,
		http: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
		log: logger.GetLogger().Component("trends_client"),
	}
}

// Query fetches trend metrics for a batch of keywords in one request,
// comma-joined on the keyword parameter.
func (c *Client) Query(ctx context.Context, keywords []string) ([]TrendData, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords provided")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("trends API URL not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "?keyword=" + url.QueryEscape(strings.Join(keywords, ",")))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", "trendcheck-go/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("trends API returned status %d: %s", resp.StatusCode(), resp.Body())
	}

	data, err := ParseResponse(resp.Body())
	if err != nil {
		return nil, err
	}

	c.log.WithFields(map[string]interface{}{
		"keywords":    len(keywords),
		"results":     len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Trends query completed")

	return data, nil
}

// ParseResponse decodes the API payload into TrendData records.
func ParseResponse(body []byte) ([]TrendData, error) {
	var payload struct {
		Status string `json:"status"`
		Data   []struct {
			Keyword string `json:"keyword"`
			Metrics struct {
				AvgMonthlySearches int    `json:"avg_monthly_searches"`
				Competition        string `json:"competition"`
			} `json:"metrics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("trends API status %q", payload.Status)
	}

	data := make([]TrendData, 0, len(payload.Data))
	for _, d := range payload.Data {
		competition := 0.5
		switch d.Metrics.Competition {
		case "LOW":
			competition = 0.3
		case "HIGH":
			competition = 0.8
		}
		data = append(data, TrendData{
			Keyword:      d.Keyword,
			SearchVolume: d.Metrics.AvgMonthlySearches,
			Competition:  competition,
		})
	}
	return data, nil
}
