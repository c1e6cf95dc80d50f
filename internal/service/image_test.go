package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

func TestScanURL(t *testing.T) {
	assert.Equal(t, "https://qr.example.com/r/ab12cd34", ScanURL("https://qr.example.com", "ab12cd34"))
	assert.Equal(t, "https://qr.example.com/r/ab12cd34", ScanURL("https://qr.example.com/", "ab12cd34"))
}

func TestRenderPNG(t *testing.T) {
	pngMagic := []byte{0x89, 'P', 'N', 'G'}

	t.Run("dynamic code encodes the scan url", func(t *testing.T) {
		code := &model.QRCode{
			Type:            model.TypeURL,
			ShortCode:       "ab12cd34",
			Content:         "https://example.com",
			Size:            256,
			ErrorCorrection: "M",
			ColorDark:       "#000000",
			ColorLight:      "#ffffff",
		}

		png, err := RenderPNG(code, "https://qr.example.com")
		require.NoError(t, err)
		require.Greater(t, len(png), 4)
		assert.Equal(t, pngMagic, png[:4])
	})

	t.Run("static code encodes its payload", func(t *testing.T) {
		code := &model.QRCode{
			Type:            model.TypeText,
			ShortCode:       "ab12cd34",
			Content:         "hello world",
			Size:            128,
			ErrorCorrection: "H",
			ColorDark:       "#112233",
			ColorLight:      "#fff",
		}

		png, err := RenderPNG(code, "https://qr.example.com")
		require.NoError(t, err)
		assert.Equal(t, pngMagic, png[:4])
	})

	t.Run("empty payload fails", func(t *testing.T) {
		code := &model.QRCode{Type: model.TypeText}
		_, err := RenderPNG(code, "https://qr.example.com")
		assert.Error(t, err)
	})
}
