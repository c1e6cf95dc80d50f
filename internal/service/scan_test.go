package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattzwebdesign/simply-qr/internal/model"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/geoip"
)

const (
	uaChromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaIPhone        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

type fakeStore struct {
	mu         sync.Mutex
	scans      []*model.Scan
	increments atomic.Int64
	failCreate bool
	failIncr   bool
}

func (f *fakeStore) CreateScan(scan *model.Scan) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans = append(f.scans, scan)
	return nil
}

func (f *fakeStore) IncrementScan(id uint) error {
	if f.failIncr {
		return errors.New("increment failed")
	}
	f.increments.Add(1)
	return nil
}

func (f *fakeStore) recorded() []*model.Scan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Scan(nil), f.scans...)
}

type fakeGeo struct {
	loc *geoip.Location
	err error
}

func (f *fakeGeo) Lookup(ctx context.Context, ip string) (*geoip.Location, error) {
	return f.loc, f.err
}

func newTestRecorder(store *fakeStore, geo GeoLookup) *ScanRecorder {
	return NewScanRecorder(store, geo, 64, 2, time.Second)
}

func TestBuildScanUserAgent(t *testing.T) {
	r := newTestRecorder(&fakeStore{}, nil)

	t.Run("desktop browser", func(t *testing.T) {
		scan := r.buildScan(ScanJob{CodeID: 1, UserAgent: uaChromeDesktop})

		require.NotNil(t, scan.Browser)
		assert.Equal(t, "Chrome", *scan.Browser)
		require.NotNil(t, scan.OS)
		assert.Equal(t, "Windows", *scan.OS)
		require.NotNil(t, scan.DeviceType)
		assert.Equal(t, model.DeviceDesktop, *scan.DeviceType)
	})

	t.Run("phone", func(t *testing.T) {
		scan := r.buildScan(ScanJob{CodeID: 1, UserAgent: uaIPhone})

		require.NotNil(t, scan.DeviceType)
		assert.Equal(t, model.DeviceMobile, *scan.DeviceType)
	})

	t.Run("tablet", func(t *testing.T) {
		scan := r.buildScan(ScanJob{CodeID: 1, UserAgent: uaIPad})

		require.NotNil(t, scan.DeviceType)
		assert.Equal(t, model.DeviceTablet, *scan.DeviceType)
	})

	t.Run("garbage yields null attributes, not an error", func(t *testing.T) {
		scan := r.buildScan(ScanJob{CodeID: 1, UserAgent: "definitely-not-a-browser"})

		assert.Nil(t, scan.Browser)
		assert.Nil(t, scan.OS)
		assert.Nil(t, scan.DeviceType)
		// The raw string is still kept.
		require.NotNil(t, scan.UserAgent)
		assert.Equal(t, "definitely-not-a-browser", *scan.UserAgent)
	})

	t.Run("missing user agent", func(t *testing.T) {
		scan := r.buildScan(ScanJob{CodeID: 1})

		assert.Nil(t, scan.UserAgent)
		assert.Nil(t, scan.Browser)
		assert.Nil(t, scan.OS)
		assert.Nil(t, scan.DeviceType)
	})
}

func TestBuildScanTruncation(t *testing.T) {
	r := newTestRecorder(&fakeStore{}, nil)

	longUA := strings.Repeat("x", 2000)
	longReferer := "https://example.com/" + strings.Repeat("y", 2000)

	scan := r.buildScan(ScanJob{
		CodeID:    1,
		IPAddress: strings.Repeat("1", 100),
		UserAgent: longUA,
		Referer:   longReferer,
	})

	require.NotNil(t, scan.IPAddress)
	assert.Len(t, *scan.IPAddress, model.ScanIPMaxLen)
	require.NotNil(t, scan.UserAgent)
	assert.Len(t, *scan.UserAgent, model.ScanUAMaxLen)
	require.NotNil(t, scan.Referer)
	assert.Len(t, *scan.Referer, model.ScanRefererMaxLen)
}

func TestBuildScanGeo(t *testing.T) {
	lat, lon := 48.8566, 2.3522

	t.Run("successful lookup fills geo fields", func(t *testing.T) {
		geo := &fakeGeo{loc: &geoip.Location{
			CountryCode: "FR",
			CountryName: "France",
			City:        "Paris",
			Latitude:    &lat,
			Longitude:   &lon,
		}}
		r := newTestRecorder(&fakeStore{}, geo)

		scan := r.buildScan(ScanJob{CodeID: 1, IPAddress: "203.0.113.9"})

		require.NotNil(t, scan.CountryCode)
		assert.Equal(t, "FR", *scan.CountryCode)
		require.NotNil(t, scan.City)
		assert.Equal(t, "Paris", *scan.City)
		require.NotNil(t, scan.Latitude)
		assert.InDelta(t, lat, *scan.Latitude, 0.001)
	})

	t.Run("lookup failure leaves geo fields null", func(t *testing.T) {
		r := newTestRecorder(&fakeStore{}, &fakeGeo{err: errors.New("timeout")})

		scan := r.buildScan(ScanJob{CodeID: 1, IPAddress: "203.0.113.9"})

		assert.Nil(t, scan.CountryCode)
		assert.Nil(t, scan.CountryName)
		assert.Nil(t, scan.City)
		assert.Nil(t, scan.Latitude)
		assert.Nil(t, scan.Longitude)
	})

	t.Run("unroutable lookup result is ignored", func(t *testing.T) {
		// The real client returns (nil, nil) for private addresses.
		r := newTestRecorder(&fakeStore{}, &fakeGeo{})

		scan := r.buildScan(ScanJob{CodeID: 1, IPAddress: "192.168.0.10"})
		assert.Nil(t, scan.CountryCode)
	})

	t.Run("long values are truncated to column limits", func(t *testing.T) {
		geo := &fakeGeo{loc: &geoip.Location{
			CountryCode: "FRANCE", // over the 2-char column
			CountryName: strings.Repeat("a", 500),
			City:        strings.Repeat("b", 500),
		}}
		r := newTestRecorder(&fakeStore{}, geo)

		scan := r.buildScan(ScanJob{CodeID: 1, IPAddress: "203.0.113.9"})

		require.NotNil(t, scan.CountryCode)
		assert.Len(t, *scan.CountryCode, 2)
		require.NotNil(t, scan.CountryName)
		assert.Len(t, *scan.CountryName, model.ScanCountryMaxLen)
		require.NotNil(t, scan.City)
		assert.Len(t, *scan.City, model.ScanCityMaxLen)
	})
}

func TestRecorderConcurrentIncrements(t *testing.T) {
	const n = 200

	store := &fakeStore{}
	r := NewScanRecorder(store, nil, n, 4, time.Second)
	r.Start()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := r.Enqueue(ScanJob{CodeID: 42, IPAddress: "203.0.113.9", UserAgent: uaChromeDesktop})
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	r.Stop()

	assert.Equal(t, int64(n), store.increments.Load(), "N scans must produce exactly +N")
	assert.Len(t, store.recorded(), n)
}

func TestRecorderCounterSurvivesInsertFailures(t *testing.T) {
	const n = 50

	store := &fakeStore{failCreate: true}
	r := NewScanRecorder(store, nil, n, 2, time.Second)
	r.Start()

	for i := 0; i < n; i++ {
		require.True(t, r.Enqueue(ScanJob{CodeID: 7}))
	}
	r.Stop()

	// Event inserts all failed; the counter increment is independent.
	assert.Equal(t, int64(n), store.increments.Load())
	assert.Empty(t, store.recorded())
}

func TestRecorderBackpressure(t *testing.T) {
	store := &fakeStore{}
	// Workers never started, so the queue fills and stays full.
	r := NewScanRecorder(store, nil, 2, 1, time.Second)

	assert.True(t, r.Enqueue(ScanJob{CodeID: 1}))
	assert.True(t, r.Enqueue(ScanJob{CodeID: 2}))
	assert.False(t, r.Enqueue(ScanJob{CodeID: 3}), "full queue must drop, not block")
	assert.Equal(t, int64(1), r.Dropped())
}

func TestRecorderRejectsAfterStop(t *testing.T) {
	store := &fakeStore{}
	r := NewScanRecorder(store, nil, 8, 1, time.Second)
	r.Start()
	r.Stop()

	assert.False(t, r.Enqueue(ScanJob{CodeID: 1}))
}
