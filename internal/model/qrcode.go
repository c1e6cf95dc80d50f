package model

import (
	"time"
)

// QR code content types. Only url codes redirect; the other types encode
// their payload directly into the image.
const (
	TypeURL   = "url"
	TypeText  = "text"
	TypeEmail = "email"
	TypePhone = "phone"
	TypeSMS   = "sms"
	TypeWiFi  = "wifi"
	TypeVCard = "vcard"
)

type QRCode struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"not null;index"`

	Name    string `gorm:"size:255;not null"`
	Type    string `gorm:"size:20;not null"`
	Content string `gorm:"type:text"` // formatted payload encoded into the image

	// ShortCode is immutable once assigned; the unique index is the final
	// arbiter against concurrent generation races.
	ShortCode   string `gorm:"size:16;uniqueIndex;not null"`
	RedirectURL string `gorm:"size:2048"` // scan destination for url codes
	IsActive    bool   `gorm:"default:true"`

	// Denormalized scan stats, eventually consistent with the scans table.
	ScanCount     int64 `gorm:"default:0"`
	LastScannedAt *time.Time

	// Appearance, applied when rendering the image.
	ColorDark       string `gorm:"size:7;default:'#000000'"`
	ColorLight      string `gorm:"size:7;default:'#ffffff'"`
	Size            int    `gorm:"default:300"`
	ErrorCorrection string `gorm:"size:1;default:'M'"` // L, M, Q, H

	// Organization.
	Tags       string `gorm:"type:text"` // JSON array of strings
	Folder     string `gorm:"size:100"`
	Notes      string `gorm:"type:text"`
	IsFavorite bool   `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDynamic reports whether scans of this code go through the redirect
// endpoint. All url codes are dynamic.
func (q *QRCode) IsDynamic() bool {
	return q.Type == TypeURL
}
