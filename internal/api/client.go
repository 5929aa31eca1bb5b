package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Defaults the app ships with: the Umm Al-Qura calculation method and the
// per-prayer minute offsets applied on top of it.
const (
	DefaultMethod = 4
	DefaultTune   = "0,2,0,1,1,1,1,1,0"
)

// Options selects the calculation parameters for a fetch. -1 for the ints
// and "" for Tune leave the parameter to the API default.
type Options struct {
	Method int    // calculation method ID (0-23), -1 for API default
	School int    // 0=Shafi, 1=Hanafi, -1 for API default
	Tune   string // comma-separated per-prayer minute offsets
}

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchByCity fetches prayer times for the given date, city, and country.
func (c *Client) FetchByCity(date time.Time, city, country string, opts Options) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timingsByCity/%s", c.BaseURL, date.Format("02-01-2006"))

	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	opts.apply(params)

	return c.doRequest(endpoint, params)
}

// FetchByCoordinates fetches prayer times for the given date and coordinates.
func (c *Client) FetchByCoordinates(date time.Time, lat, lon float64, opts Options) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	opts.apply(params)

	return c.doRequest(endpoint, params)
}

func (o Options) apply(params url.Values) {
	if o.Method >= 0 {
		params.Set("method", fmt.Sprintf("%d", o.Method))
	}
	if o.School >= 0 {
		params.Set("school", fmt.Sprintf("%d", o.School))
	}
	if o.Tune != "" {
		params.Set("tune", o.Tune)
	}
}

func (c *Client) doRequest(endpoint string, params url.Values) (*Response, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if apiResp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	return &apiResp, nil
}
