package fred

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/time/rate"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	pkghttp "EconPull/pkg/http"
)

const (
	DefaultBaseURL = "https://api.stlouisfed.org/fred"
	// FRED allows 120 requests per minute per key.
	defaultRate  = rate.Limit(2)
	defaultBurst = 4
)

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// Client reads series observations from the FRED API.
type Client struct {
	http    *pkghttp.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

func NewClient(httpClient *pkghttp.Client, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest returns up to n observations of seriesID, newest first.
// Missing values are returned as the "." marker.
func (c *Client) Latest(ctx context.Context, seriesID, units string, n int) ([]models.Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fred rate limit: %w", err)
	}

	params := map[string][]string{
		"series_id":  {seriesID},
		"api_key":    {c.apiKey},
		"file_type":  {"json"},
		"sort_order": {"desc"},
		"limit":      {strconv.Itoa(n)},
	}
	if units != "" {
		params["units"] = []string{units}
	}

	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + "/series/observations",
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}

	if len(resp.Observations) == 0 {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, domrepo.ErrSeriesUnavailable)
	}

	out := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		out = append(out, models.Observation{Date: o.Date, Value: o.Value})
	}
	return out, nil
}

var _ domrepo.SeriesFetcher = (*Client)(nil)
