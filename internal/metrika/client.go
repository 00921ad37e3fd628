package metrika

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api-metrika.yandex.net"

// APIError carries the upstream status so callers can propagate it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("metrika api error: status %d", e.StatusCode)
}

// Totals are counter-wide sums for a reporting period.
type Totals struct {
	Visits    float64
	Users     float64
	Pageviews float64
}

// Client talks to the Yandex Metrika reporting API with a server-held
// OAuth token.
type Client struct {
	BaseURL    string
	Token      string
	CounterID  string
	HTTPClient *http.Client
}

func NewClient(token, counterID string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		CounterID:  counterID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type statResponse struct {
	Totals []float64 `json:"totals"`
	Data   []struct {
		Dimensions []struct {
			Name string `json:"name"`
		} `json:"dimensions"`
		Metrics []float64 `json:"metrics"`
	} `json:"data"`
}

func (c *Client) fetch(ctx context.Context, metrics, dimensions, dateStart, dateEnd string) (*statResponse, error) {
	query := url.Values{
		"ids":      {c.CounterID},
		"metrics":  {metrics},
		"date1":    {dateStart},
		"date2":    {dateEnd},
		"accuracy": {"full"},
	}

	if dimensions != "" {
		query.Set("dimensions", dimensions)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/stat/v1/data?"+query.Encode(), nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "OAuth "+c.Token)

	resp, err := c.HTTPClient.Do(req)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var stats statResponse

	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// FetchTotals returns visit/user/pageview sums for the period.
func (c *Client) FetchTotals(ctx context.Context, dateStart, dateEnd string) (*Totals, error) {
	stats, err := c.fetch(ctx, "ym:s:visits,ym:s:users,ym:s:pageviews", "", dateStart, dateEnd)

	if err != nil {
		return nil, err
	}

	totals := &Totals{}

	if len(stats.Totals) > 0 {
		totals.Visits = stats.Totals[0]
	}
	if len(stats.Totals) > 1 {
		totals.Users = stats.Totals[1]
	}
	if len(stats.Totals) > 2 {
		totals.Pageviews = stats.Totals[2]
	}

	return totals, nil
}

// FetchGoals returns goal-completion counts keyed by goal name.
func (c *Client) FetchGoals(ctx context.Context, dateStart, dateEnd string) (map[string]float64, error) {
	metrics := fmt.Sprintf("ym:s:goal%sreaches", c.CounterID)

	stats, err := c.fetch(ctx, metrics, "ym:s:goalDimension", dateStart, dateEnd)

	if err != nil {
		return nil, err
	}

	goals := make(map[string]float64)

	for _, item := range stats.Data {
		if len(item.Dimensions) > 0 && len(item.Metrics) > 0 {
			goals[item.Dimensions[0].Name] = item.Metrics[0]
		}
	}

	return goals, nil
}
