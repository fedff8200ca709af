// Package geocode is a minimal client for a Nominatim-compatible reverse
// geocoding endpoint. Lookups are best-effort enrichment for the wizard's
// destination step: failures are reported but never block progression, and
// results never overwrite values the user already entered.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Place is the subset of a reverse-geocode result the destination step can
// use to prefill empty fields.
type Place struct {
	Name string
	City string
}

// Reverse resolves coordinates to a named place.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("User-Agent", "itinera-console/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocode: status %d", resp.StatusCode)
	}

	var body struct {
		Name    string `json:"name"`
		Address struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Place{}, fmt.Errorf("reverse geocode: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	return Place{Name: body.Name, City: city}, nil
}
