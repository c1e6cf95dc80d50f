package service

import (
	"fmt"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

// ScanURL builds the canonical scan target encoded into a dynamic code's
// image: {origin}/r/{shortCode}.
func ScanURL(baseURL, sc string) string {
	return strings.TrimRight(baseURL, "/") + "/r/" + sc
}

// RenderPNG renders the code's image with its stored appearance settings.
// Dynamic codes encode the scan URL so the destination stays editable;
// static codes encode their payload directly.
func RenderPNG(code *model.QRCode, baseURL string) ([]byte, error) {
	payload := code.Content
	if code.IsDynamic() {
		payload = ScanURL(baseURL, code.ShortCode)
	}
	if payload == "" {
		return nil, fmt.Errorf("qr code %d has no payload to encode", code.ID)
	}

	qr, err := qrcode.New(payload, recoveryLevel(code.ErrorCorrection))
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %v", err)
	}

	qr.ForegroundColor = parseHexColor(code.ColorDark, color.Black)
	qr.BackgroundColor = parseHexColor(code.ColorLight, color.White)

	size := code.Size
	if size <= 0 {
		size = 300
	}
	return qr.PNG(size)
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// parseHexColor supports #rgb and #rrggbb, falling back on bad input.
func parseHexColor(s string, fallback color.Color) color.Color {
	if !isValidHexColor(s) {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
