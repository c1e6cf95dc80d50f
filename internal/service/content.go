package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

// ContentFields carries the optional per-type fields used to build the
// encoded payload when the raw content is not already formatted.
type ContentFields struct {
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	SSID         string `json:"ssid"`
	WiFiPassword string `json:"wifi_password"`
	Security     string `json:"security"`
	Hidden       bool   `json:"hidden"`
	FullName     string `json:"full_name"`
	Organization string `json:"organization"`
	URL          string `json:"url"`
	Address      string `json:"address"`
}

// formatContent renders the payload that gets encoded into the image.
// For url and text codes the content is used as-is.
func formatContent(qrType, content string, f ContentFields) string {
	switch qrType {
	case model.TypeURL, model.TypeText:
		return content

	case model.TypeVCard:
		if strings.HasPrefix(content, "BEGIN:VCARD") {
			return content
		}
		return buildVCard(f)

	case model.TypeWiFi:
		if strings.HasPrefix(content, "WIFI:") {
			return content
		}
		return buildWiFiString(f)

	case model.TypeEmail:
		if content != "" {
			return content
		}
		s := "mailto:" + f.Email
		sep := "?"
		if f.Subject != "" {
			s += sep + "subject=" + url.QueryEscape(f.Subject)
			sep = "&"
		}
		if f.Body != "" {
			s += sep + "body=" + url.QueryEscape(f.Body)
		}
		return s

	case model.TypeSMS:
		if content != "" {
			return content
		}
		return fmt.Sprintf("smsto:%s:%s", f.Phone, f.Message)

	case model.TypePhone:
		if content != "" {
			return content
		}
		return "tel:" + f.Phone

	default:
		return content
	}
}

func buildVCard(f ContentFields) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	if f.FullName != "" {
		fmt.Fprintf(&b, "FN:%s\n", f.FullName)
	}
	if f.Phone != "" {
		fmt.Fprintf(&b, "TEL:%s\n", f.Phone)
	}
	if f.Email != "" {
		fmt.Fprintf(&b, "EMAIL:%s\n", f.Email)
	}
	if f.Organization != "" {
		fmt.Fprintf(&b, "ORG:%s\n", f.Organization)
	}
	if f.URL != "" {
		fmt.Fprintf(&b, "URL:%s\n", f.URL)
	}
	if f.Address != "" {
		fmt.Fprintf(&b, "ADR:;;%s\n", f.Address)
	}
	b.WriteString("END:VCARD")
	return b.String()
}

func buildWiFiString(f ContentFields) string {
	security := f.Security
	if security == "" {
		security = "WPA"
	}
	hidden := "false"
	if f.Hidden {
		hidden = "true"
	}
	return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;H:%s;;", security, f.SSID, f.WiFiPassword, hidden)
}
