package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rentnest/internal/adapters/observability"
	"rentnest/internal/domain"
)

// Client talks to a Google-Maps-shaped geocoding API. Callers treat
// every failure as "no coordinates"; nothing here is load-bearing for
// a write.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

var ErrNoResults = errors.New("geocode: no results")

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, address string) (domain.Coords, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Coords{}, err
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.key)
	u := c.base + "/maps/api/geocode/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Coords{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("geocode", "/maps/api/geocode/json", 0, time.Since(start))
		return domain.Coords{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("geocode", "/maps/api/geocode/json", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Coords{}, fmt.Errorf("geocode: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Coords{}, err
	}
	if out.Status == "ZERO_RESULTS" || len(out.Results) == 0 {
		return domain.Coords{}, ErrNoResults
	}
	if out.Status != "OK" {
		return domain.Coords{}, fmt.Errorf("geocode: status %s", out.Status)
	}
	loc := out.Results[0].Geometry.Location
	return domain.Coords{Lat: loc.Lat, Lon: loc.Lng}, nil
}
