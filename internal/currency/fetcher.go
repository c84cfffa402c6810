package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Fetcher loads a fresh rate table.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// HTTPFetcher reads rates from an open exchange-rate API that answers
// GET <BaseURL>/latest/RON with {"rates": {"USD": 0.219, ...}}, the value of
// one RON in each currency.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates a fetcher with a ten second timeout.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type latestResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Fetch returns the RON value of one unit of each listed currency.
func (f *HTTPFetcher) Fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/latest/"+Base, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %s", resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("fetch rates: result %q", body.Result)
	}

	out := map[string]float64{Base: 1}
	for code, perRON := range body.Rates {
		if perRON > 0 {
			out[strings.ToUpper(code)] = 1 / perRON
		}
	}
	if len(out) == 1 {
		return nil, fmt.Errorf("fetch rates: empty table")
	}
	return out, nil
}
