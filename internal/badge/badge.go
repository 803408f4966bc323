// Package badge renders the printed visitor badge.
package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"visitor-kiosk/internal/model"
)

// Badge size in centimetres.
const (
	widthCM  = 8.0
	heightCM = 7.0
)

// Font sizes in points.
const (
	nameFontSize    = 16.0
	companyFontSize = 11.0
	sponsorFontSize = 9.0
)

var (
	bgColor     = color.White
	textColor   = color.RGBA{20, 24, 28, 255}
	mutedColor  = color.RGBA{90, 95, 100, 255}
	borderColor = color.RGBA{200, 200, 200, 255}
)

// Layout is everything printed on a badge.
type Layout struct {
	VisitorID   int64
	GuestName   string
	CompanyName string
	Sponsor     string
}

// LayoutFor builds the badge layout of a visitor.
func LayoutFor(v model.Visitor) Layout {
	return Layout{
		VisitorID:   v.VisitorID,
		GuestName:   v.GuestName,
		CompanyName: v.CompanyName,
		Sponsor:     v.SponsorGuy,
	}
}

// QRPayload is the content encoded in the badge's QR code.
func (l Layout) QRPayload() string {
	return strconv.FormatInt(l.VisitorID, 10)
}

// SponsorLine is the sponsor caption, empty when there is no sponsor.
func (l Layout) SponsorLine() string {
	if l.Sponsor == "" {
		return ""
	}
	return "Sponsor: " + l.Sponsor
}

// Renderer draws badges at a fixed resolution.
type Renderer struct {
	dpi  float64
	logo image.Image

	once    sync.Once
	regular *opentype.Font
	bold    *opentype.Font
}

// NewRenderer creates a renderer. logoPath is optional.
func NewRenderer(dpi int, logoPath string) (*Renderer, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid badge dpi %d", dpi)
	}
	r := &Renderer{dpi: float64(dpi)}
	if logoPath != "" {
		logo, err := gg.LoadImage(logoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load badge logo: %w", err)
		}
		r.logo = logo
	}
	return r, nil
}

// Size returns the badge size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.px(widthCM), r.px(heightCM)
}

// Render draws the layout and returns it as PNG.
func (r *Renderer) Render(l Layout) ([]byte, error) {
	qr, err := qrcode.New(l.QRPayload(), qrcode.High)
	if err != nil {
		return nil, fmt.Errorf("failed to encode badge QR code: %w", err)
	}
	qr.DisableBorder = true

	w, h := r.Size()
	dc := gg.NewContext(w, h)
	dc.SetColor(bgColor)
	dc.Clear()

	margin := float64(r.px(0.4))
	dc.SetColor(borderColor)
	dc.SetLineWidth(2)
	dc.DrawRectangle(margin/2, margin/2, float64(w)-margin, float64(h)-margin)
	dc.Stroke()

	y := margin
	if r.logo != nil {
		logoHeight := float64(r.px(1.0))
		scale := logoHeight / float64(r.logo.Bounds().Dy())
		dc.Push()
		dc.Scale(scale, scale)
		dc.DrawImageAnchored(r.logo, int(float64(w)/2/scale), int(y/scale), 0.5, 0)
		dc.Pop()
		y += logoHeight + margin/2
	}

	textWidth := float64(w) - 2*margin

	r.setFont(dc, nameFontSize, true)
	dc.SetColor(textColor)
	y = r.drawWrapped(dc, l.GuestName, y, textWidth)

	r.setFont(dc, companyFontSize, false)
	dc.SetColor(mutedColor)
	y = r.drawWrapped(dc, l.CompanyName, y, textWidth)

	if line := l.SponsorLine(); line != "" {
		r.setFont(dc, sponsorFontSize, false)
		y = r.drawWrapped(dc, line, y, textWidth)
	}

	qrSize := int(math.Min(float64(h)-y-margin, float64(w)*0.45))
	if qrSize < 21 {
		return nil, fmt.Errorf("badge has no room for the QR code")
	}
	dc.DrawImageAnchored(qr.Image(qrSize), w/2, h-int(margin), 0.5, 1)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawWrapped(dc *gg.Context, text string, y, width float64) float64 {
	if text == "" {
		return y
	}
	lines := dc.WordWrap(text, width)
	lineHeight := dc.FontHeight() * 1.3
	for _, line := range lines {
		y += lineHeight
		dc.DrawStringAnchored(line, float64(dc.Width())/2, y, 0.5, 0)
	}
	return y + lineHeight*0.3
}

func (r *Renderer) setFont(dc *gg.Context, size float64, bold bool) {
	r.once.Do(func() {
		r.regular, _ = opentype.Parse(goregular.TTF)
		r.bold, _ = opentype.Parse(gobold.TTF)
	})

	f := r.regular
	if bold {
		f = r.bold
	}
	if f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     r.dpi,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func (r *Renderer) px(cm float64) int {
	return int(math.Round(cm / 2.54 * r.dpi))
}
