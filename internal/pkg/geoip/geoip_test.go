package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutable(t *testing.T) {
	cases := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", true},
		{"203.0.113.9", true},
		{"2001:4860:4860::8888", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.0.0.5", false},
		{"172.16.3.4", false},
		{"192.168.1.1", false},
		{"169.254.1.1", false},
		{"0.0.0.0", false},
		{"", false},
		{"not-an-ip", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Routable(tc.ip), "ip %q", tc.ip)
	}
}

func TestLookup(t *testing.T) {
	t.Run("successful lookup", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"country": "US",
				"country_name": "United States",
				"city": "Mountain View",
				"latitude": 37.386,
				"longitude": -122.0838
			}`))
		}))
		defer srv.Close()

		client := New(srv.URL+"/%s/json/", 2*time.Second)
		loc, err := client.Lookup(context.Background(), "8.8.8.8")
		require.NoError(t, err)
		require.NotNil(t, loc)

		assert.Equal(t, "US", loc.CountryCode)
		assert.Equal(t, "United States", loc.CountryName)
		assert.Equal(t, "Mountain View", loc.City)
		require.NotNil(t, loc.Latitude)
		assert.InDelta(t, 37.386, *loc.Latitude, 0.001)
	})

	t.Run("loopback and private addresses are skipped", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		client := New(srv.URL+"/%s/json/", 2*time.Second)
		for _, ip := range []string{"127.0.0.1", "192.168.0.10", ""} {
			loc, err := client.Lookup(context.Background(), ip)
			assert.NoError(t, err, "ip %q", ip)
			assert.Nil(t, loc, "ip %q", ip)
		}
		assert.False(t, called, "no HTTP request should be made for unroutable IPs")
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := New(srv.URL+"/%s/json/", 2*time.Second)
		_, err := client.Lookup(context.Background(), "8.8.8.8")
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := New(srv.URL+"/%s/json/", 2*time.Second)
		_, err := client.Lookup(context.Background(), "8.8.8.8")
		assert.Error(t, err)
	})

	t.Run("slow service hits the timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		client := New(srv.URL+"/%s/json/", 50*time.Millisecond)
		start := time.Now()
		_, err := client.Lookup(context.Background(), "8.8.8.8")
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 250*time.Millisecond, "lookup should abort at the timeout")
	})
}
