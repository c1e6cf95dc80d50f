package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

func TestFormatContent(t *testing.T) {
	t.Run("url and text pass through", func(t *testing.T) {
		assert.Equal(t, "https://example.com", formatContent(model.TypeURL, "https://example.com", ContentFields{}))
		assert.Equal(t, "hello world", formatContent(model.TypeText, "hello world", ContentFields{}))
	})

	t.Run("email builds a mailto link", func(t *testing.T) {
		got := formatContent(model.TypeEmail, "", ContentFields{
			Email:   "team@example.com",
			Subject: "hello there",
		})
		assert.Equal(t, "mailto:team@example.com?subject=hello+there", got)
	})

	t.Run("preformatted email content wins", func(t *testing.T) {
		got := formatContent(model.TypeEmail, "mailto:x@y.z", ContentFields{Email: "other@example.com"})
		assert.Equal(t, "mailto:x@y.z", got)
	})

	t.Run("phone and sms", func(t *testing.T) {
		assert.Equal(t, "tel:+15551234567", formatContent(model.TypePhone, "", ContentFields{Phone: "+15551234567"}))
		assert.Equal(t, "smsto:+15551234567:hi", formatContent(model.TypeSMS, "", ContentFields{Phone: "+15551234567", Message: "hi"}))
	})

	t.Run("wifi string", func(t *testing.T) {
		got := formatContent(model.TypeWiFi, "", ContentFields{
			SSID:         "guest",
			WiFiPassword: "s3cret",
		})
		assert.Equal(t, "WIFI:T:WPA;S:guest;P:s3cret;H:false;;", got)
	})

	t.Run("preformatted wifi content wins", func(t *testing.T) {
		raw := "WIFI:T:WEP;S:old;P:pw;;"
		assert.Equal(t, raw, formatContent(model.TypeWiFi, raw, ContentFields{SSID: "ignored"}))
	})

	t.Run("vcard from fields", func(t *testing.T) {
		got := formatContent(model.TypeVCard, "", ContentFields{
			FullName:     "Ada Lovelace",
			Phone:        "+15551234567",
			Email:        "ada@example.com",
			Organization: "Analytical Engines",
		})
		assert.Contains(t, got, "BEGIN:VCARD")
		assert.Contains(t, got, "FN:Ada Lovelace")
		assert.Contains(t, got, "TEL:+15551234567")
		assert.Contains(t, got, "ORG:Analytical Engines")
		assert.Contains(t, got, "END:VCARD")
	})

	t.Run("preformatted vcard content wins", func(t *testing.T) {
		raw := "BEGIN:VCARD\nVERSION:3.0\nFN:X\nEND:VCARD"
		assert.Equal(t, raw, formatContent(model.TypeVCard, raw, ContentFields{FullName: "ignored"}))
	})
}

func TestValidators(t *testing.T) {
	t.Run("qr types", func(t *testing.T) {
		for _, valid := range []string{"url", "text", "email", "phone", "sms", "wifi", "vcard"} {
			assert.True(t, isValidQRType(valid), valid)
		}
		assert.False(t, isValidQRType("hologram"))
	})

	t.Run("error correction levels", func(t *testing.T) {
		for _, valid := range []string{"L", "M", "Q", "H"} {
			assert.True(t, isValidErrorCorrection(valid), valid)
		}
		assert.False(t, isValidErrorCorrection("X"))
		assert.False(t, isValidErrorCorrection("m"))
	})

	t.Run("hex colors", func(t *testing.T) {
		assert.True(t, isValidHexColor("#000000"))
		assert.True(t, isValidHexColor("#FfAa00"))
		assert.True(t, isValidHexColor("#0af"))
		assert.False(t, isValidHexColor("000000"))
		assert.False(t, isValidHexColor("#00zz00"))
		assert.False(t, isValidHexColor("#0000"))
	})

	t.Run("urls", func(t *testing.T) {
		assert.True(t, isValidURL("https://example.com/path?q=1"))
		assert.True(t, isValidURL("http://localhost:3000"))
		assert.False(t, isValidURL("not a url"))
		assert.False(t, isValidURL("/relative/only"))
	})
}
