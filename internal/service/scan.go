package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mileusna/useragent"

	"github.com/wattzwebdesign/simply-qr/internal/model"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/geoip"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/logger"
)

// ScanJob carries the raw request metadata handed off by the redirect
// handler. Everything derived from it happens off the request path.
type ScanJob struct {
	CodeID    uint
	IPAddress string
	UserAgent string
	Referer   string
}

// scanStore is the slice of the registry the recorder writes through.
type scanStore interface {
	CreateScan(scan *model.Scan) error
	IncrementScan(id uint) error
}

// GeoLookup resolves an IP to a location. *geoip.Client satisfies it.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (*geoip.Location, error)
}

// ScanRecorder converts raw scan metadata into analytics rows on a fixed
// pool of workers behind a bounded queue. Jobs are dropped, not queued
// unboundedly, when ingestion falls behind; a redirect must never block or
// fail because of analytics.
type ScanRecorder struct {
	store      scanStore
	geo        GeoLookup // nil disables geolocation
	geoTimeout time.Duration

	jobs    chan ScanJob
	workers int
	wg      sync.WaitGroup
	stopped atomic.Bool

	dropped atomic.Int64
}

func NewScanRecorder(store scanStore, geo GeoLookup, queueSize, workers int, geoTimeout time.Duration) *ScanRecorder {
	return &ScanRecorder{
		store:      store,
		geo:        geo,
		geoTimeout: geoTimeout,
		jobs:       make(chan ScanJob, queueSize),
		workers:    workers,
	}
}

// Start launches the worker pool.
func (r *ScanRecorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for job := range r.jobs {
				r.record(job)
			}
		}()
	}
}

// Enqueue hands a job to the pool without blocking. It reports false when
// the job was dropped because the queue is full or the recorder stopped.
func (r *ScanRecorder) Enqueue(job ScanJob) bool {
	if r.stopped.Load() {
		return false
	}
	select {
	case r.jobs <- job:
		return true
	default:
		n := r.dropped.Add(1)
		logger.Warnf("scan queue full, dropped job for qr code %d (%d dropped total)", job.CodeID, n)
		return false
	}
}

// Stop rejects new jobs, drains the queue and waits for the workers.
func (r *ScanRecorder) Stop() {
	if r.stopped.Swap(true) {
		return
	}
	close(r.jobs)
	r.wg.Wait()
}

// Dropped returns how many jobs were discarded due to backpressure.
func (r *ScanRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// record performs the full ingestion for one scan. Every failure mode in
// here is terminal-but-local: logged and discarded, never propagated. The
// redirect response this job belongs to has already been sent.
func (r *ScanRecorder) record(job ScanJob) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic recording scan for qr code %d: %v", job.CodeID, rec)
		}
	}()

	scan := r.buildScan(job)

	// Event insert and counter increment are two independent writes with no
	// compensating transaction; the counter and COUNT(scans) may transiently
	// disagree and converge eventually.
	if err := r.store.CreateScan(scan); err != nil {
		logger.Errorf("failed to insert scan for qr code %d: %v", job.CodeID, err)
	}
	if err := r.store.IncrementScan(job.CodeID); err != nil {
		logger.Errorf("failed to increment scan count for qr code %d: %v", job.CodeID, err)
	}
}

// buildScan derives the structured attributes from the raw metadata.
// Parsing and lookup failures leave the affected fields nil.
func (r *ScanRecorder) buildScan(job ScanJob) *model.Scan {
	scan := &model.Scan{QRCodeID: job.CodeID}

	if job.IPAddress != "" {
		scan.IPAddress = truncPtr(job.IPAddress, model.ScanIPMaxLen)
	}
	if job.Referer != "" {
		scan.Referer = truncPtr(job.Referer, model.ScanRefererMaxLen)
	}
	if job.UserAgent != "" {
		scan.UserAgent = truncPtr(job.UserAgent, model.ScanUAMaxLen)
		applyUserAgent(scan, job.UserAgent)
	}

	if r.geo != nil && job.IPAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), r.geoTimeout)
		defer cancel()

		loc, err := r.geo.Lookup(ctx, job.IPAddress)
		if err != nil {
			logger.Warnf("geo lookup for %s failed: %v", job.IPAddress, err)
		} else if loc != nil {
			applyLocation(scan, loc)
		}
	}

	return scan
}

// applyUserAgent fills browser, OS and device classification from the raw
// user agent. Input the parser cannot make sense of leaves all fields nil.
func applyUserAgent(scan *model.Scan, raw string) {
	ua := useragent.Parse(raw)

	if ua.Name != "" {
		scan.Browser = truncPtr(ua.Name, model.ScanBrowserMaxLen)
		if ua.Version != "" {
			scan.BrowserVersion = truncPtr(ua.Version, model.ScanBrowserMaxLen)
		}
	}
	if ua.OS != "" {
		scan.OS = truncPtr(ua.OS, model.ScanOSMaxLen)
		if ua.OSVersion != "" {
			scan.OSVersion = truncPtr(ua.OSVersion, model.ScanOSMaxLen)
		}
	}

	switch {
	case ua.Tablet:
		scan.DeviceType = strPtr(model.DeviceTablet)
	case ua.Mobile:
		scan.DeviceType = strPtr(model.DeviceMobile)
	case ua.Desktop:
		scan.DeviceType = strPtr(model.DeviceDesktop)
	}
}

func applyLocation(scan *model.Scan, loc *geoip.Location) {
	if loc.CountryCode != "" {
		scan.CountryCode = truncPtr(loc.CountryCode, 2)
	}
	if loc.CountryName != "" {
		scan.CountryName = truncPtr(loc.CountryName, model.ScanCountryMaxLen)
	}
	if loc.City != "" {
		scan.City = truncPtr(loc.City, model.ScanCityMaxLen)
	}
	scan.Latitude = loc.Latitude
	scan.Longitude = loc.Longitude
}

func strPtr(s string) *string {
	return &s
}

// truncPtr truncates s to max bytes and returns a pointer, silently
// dropping the excess rather than failing the insert.
func truncPtr(s string, max int) *string {
	if len(s) > max {
		s = s[:max]
	}
	return &s
}
