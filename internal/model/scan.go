package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage limits for free-text scan attributes. The recorder truncates to
// these before persisting instead of failing the insert.
const (
	ScanIPMaxLen      = 45
	ScanUAMaxLen      = 500
	ScanBrowserMaxLen = 50
	ScanOSMaxLen      = 50
	ScanCityMaxLen    = 100
	ScanCountryMaxLen = 100
	ScanRefererMaxLen = 500
)

// Device type classification derived from the user agent.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Scan is one recorded resolution of a short code. Rows are append-only and
// removed only when the parent QR code is deleted. All request-derived
// attributes are nullable because parsing or lookup can fail silently.
type Scan struct {
	ID        string    `gorm:"primaryKey;size:36"`
	QRCodeID  uint      `gorm:"not null;index"`
	ScannedAt time.Time `gorm:"index"`

	IPAddress      *string `gorm:"size:45"`
	UserAgent      *string `gorm:"size:500"`
	DeviceType     *string `gorm:"size:20"`
	Browser        *string `gorm:"size:50"`
	BrowserVersion *string `gorm:"size:50"`
	OS             *string `gorm:"size:50"`
	OSVersion      *string `gorm:"size:50"`
	CountryCode    *string `gorm:"size:2"`
	CountryName    *string `gorm:"size:100"`
	City           *string `gorm:"size:100"`
	Latitude       *float64
	Longitude      *float64
	Referer        *string `gorm:"size:500"`
}

func (s *Scan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now()
	}
	return nil
}
