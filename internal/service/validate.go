package service

import (
	"net/mail"
	"net/url"
	"regexp"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

var validTypes = map[string]bool{
	model.TypeURL:   true,
	model.TypeText:  true,
	model.TypeEmail: true,
	model.TypePhone: true,
	model.TypeSMS:   true,
	model.TypeWiFi:  true,
	model.TypeVCard: true,
}

var validErrorCorrection = map[string]bool{
	"L": true, "M": true, "Q": true, "H": true,
}

func isValidQRType(t string) bool {
	return validTypes[t]
}

func isValidErrorCorrection(level string) bool {
	return validErrorCorrection[level]
}

func isValidHexColor(color string) bool {
	return hexColorRe.MatchString(color)
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
