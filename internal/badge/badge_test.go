package badge

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitor-kiosk/internal/model"
)

func TestLayoutFor(t *testing.T) {
	l := LayoutFor(model.Visitor{VisitorID: 42, GuestName: "A. Rossi", CompanyName: "Acme", SponsorGuy: "M. Bianchi"})

	assert.Equal(t, "A. Rossi", l.GuestName)
	assert.Equal(t, "Acme", l.CompanyName)
	assert.Equal(t, "42", l.QRPayload())
	assert.Equal(t, "Sponsor: M. Bianchi", l.SponsorLine())
	assert.Empty(t, Layout{}.SponsorLine())
}

func TestRender_Size(t *testing.T) {
	r, err := NewRenderer(100, "")
	require.NoError(t, err)

	out, err := r.Render(Layout{VisitorID: 42, GuestName: "A. Rossi", CompanyName: "Acme", Sponsor: "M. Bianchi"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 315, 276), img.Bounds())
	assert.True(t, hasDarkPixel(img), "badge should contain text and a QR code")
}

func TestRender_WithLogo(t *testing.T) {
	logoPath := filepath.Join(t.TempDir(), "logo.png")
	dc := gg.NewContext(40, 20)
	dc.SetRGB(0, 0, 1)
	dc.Clear()
	require.NoError(t, dc.SavePNG(logoPath))

	r, err := NewRenderer(150, logoPath)
	require.NoError(t, err)
	_, err = r.Render(Layout{VisitorID: 7, GuestName: "B"})
	assert.NoError(t, err)
}

func TestNewRenderer_Errors(t *testing.T) {
	_, err := NewRenderer(0, "")
	assert.Error(t, err)

	_, err = NewRenderer(300, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func hasDarkPixel(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y < 64 {
				return true
			}
		}
	}
	return false
}
