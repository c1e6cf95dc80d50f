// Package geoip resolves client IPs to coarse locations via an external
// HTTP lookup service (ipapi.co compatible).
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Location is the subset of the lookup response the scan recorder stores.
type Location struct {
	CountryCode string   `json:"country"`
	CountryName string   `json:"country_name"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type Client struct {
	endpoint string // %s is replaced with the IP
	http     *http.Client
}

// New builds a client with a bounded per-lookup timeout so a slow lookup
// service cannot pin recorder workers indefinitely.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Lookup resolves ip to a location. It returns (nil, nil) for addresses
// that cannot meaningfully be geolocated: empty, unparseable, loopback and
// private-range IPs.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	if !Routable(ip) {
		return nil, nil
	}

	url := fmt.Sprintf(c.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, fmt.Errorf("decode geo lookup response: %v", err)
	}
	return &loc, nil
}

// Routable reports whether ip is a public address worth looking up.
func Routable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified() && !parsed.IsLinkLocalUnicast()
}
