package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // avatar decoding
	_ "image/png"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/runnerr0/grass/internal/grid"
)

// Logical size of the summary image before scaling.
const (
	SummaryWidth  = 600
	SummaryHeight = 800
)

const (
	pad        = 32.0
	avatarR    = 40.0
	monthCols  = 4
	monthGap   = 16.0
	monthLabel = 24.0
	cellGap    = 1.5
)

// CanvasRasterizer draws the summary with fogleman/gg.
type CanvasRasterizer struct {
	HTTPClient *http.Client
	fontPath   string
	logger     *zap.Logger

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewCanvasRasterizer picks the first available system TrueType font and
// falls back to the built-in bitmap face.
func NewCanvasRasterizer(logger *zap.Logger) *CanvasRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasRasterizer{
		HTTPClient: http.DefaultClient,
		fontPath:   findFont(),
		logger:     logger,
		faces:      make(map[float64]font.Face),
	}
}

func findFont() string {
	var candidates []string
	switch runtime.GOOS {
	case "windows":
		candidates = []string{"C:/Windows/Fonts/arial.ttf"}
	case "darwin":
		candidates = []string{"/System/Library/Fonts/Supplemental/Arial.ttf"}
	default:
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/ubuntu/Ubuntu-R.ttf",
		}
	}
	for _, fp := range candidates {
		if _, err := os.Stat(fp); err == nil {
			return fp
		}
	}
	return ""
}

type canvasSurface struct {
	dc *gg.Context
}

func (s canvasSurface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rasterize draws view at opts.Scale times the logical size.
func (r *CanvasRasterizer) Rasterize(ctx context.Context, view *SummaryView, opts Options) (Surface, error) {
	if view == nil {
		return nil, fmt.Errorf("render: nil view")
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	pal := PaletteFor(opts.Theme)

	w, h := int(SummaryWidth*scale), int(SummaryHeight*scale)
	dc := gg.NewContext(w, h)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
	} else {
		dc.SetColor(pal.Background)
	}
	dc.Clear()
	dc.Scale(scale, scale)

	r.drawHeader(ctx, dc, view, pal, opts, scale)
	r.drawBanner(dc, view, pal, scale)
	r.drawMonths(dc, view, pal, scale)

	r.setFont(dc, 14, scale)
	dc.SetColor(pal.Muted)
	dc.DrawStringAnchored("as of "+view.AsOf.Format("January 2, 2006"), SummaryWidth/2, SummaryHeight-24, 0.5, 0.5)

	return canvasSurface{dc: dc}, nil
}

func (r *CanvasRasterizer) setFont(dc *gg.Context, points, scale float64) {
	dc.SetFontFace(r.face(points * scale))
}

// face returns a cached TrueType face at size, or the bitmap fallback.
func (r *CanvasRasterizer) face(size float64) font.Face {
	if r.fontPath == "" {
		return basicfont.Face7x13
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f
	}
	f, err := gg.LoadFontFace(r.fontPath, size)
	if err != nil {
		r.logger.Debug("Font load failed, using bitmap font", zap.String("path", r.fontPath), zap.Error(err))
		r.fontPath = ""
		return basicfont.Face7x13
	}
	if r.faces == nil {
		r.faces = make(map[float64]font.Face)
	}
	r.faces[size] = f
	return f
}

func (r *CanvasRasterizer) drawHeader(ctx context.Context, dc *gg.Context, view *SummaryView, pal Palette, opts Options, scale float64) {
	cx, cy := pad+avatarR, pad+avatarR

	dc.SetColor(pal.Accent)
	dc.DrawCircle(cx, cy, avatarR+3)
	dc.Fill()

	if img := r.loadAvatar(ctx, view.AvatarURL, opts.CrossOrigin); img != nil {
		d := int(2 * avatarR * scale)
		scaled := image.NewRGBA(image.Rect(0, 0, d, d))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

		dc.Push()
		dc.Identity()
		dc.DrawCircle(cx*scale, cy*scale, avatarR*scale)
		dc.Clip()
		dc.DrawImage(scaled, int((cx-avatarR)*scale), int((cy-avatarR)*scale))
		dc.ResetClip()
		dc.Pop()
	} else {
		dc.SetColor(pal.Cells[grid.Level1])
		dc.DrawCircle(cx, cy, avatarR)
		dc.Fill()
		r.setFont(dc, 28, scale)
		dc.SetColor(pal.Text)
		dc.DrawStringAnchored(initial(view.DisplayName), cx, cy, 0.5, 0.35)
	}

	r.setFont(dc, 13, scale)
	dc.SetColor(pal.Muted)
	dc.DrawStringAnchored(fmt.Sprintf("%d km", view.TotalKm), cx, cy+avatarR+18, 0.5, 0.5)

	tx := cx + avatarR + 28
	r.setFont(dc, 26, scale)
	dc.SetColor(pal.Text)
	dc.DrawString(possessive(view.DisplayName), tx, pad+34)
	dc.SetColor(pal.Accent)
	dc.DrawString("Running Grass "+view.Year, tx, pad+72)
}

func (r *CanvasRasterizer) drawBanner(dc *gg.Context, view *SummaryView, pal Palette, scale float64) {
	top := 160.0
	dc.SetColor(pal.Banner)
	dc.DrawRoundedRectangle(pad, top, SummaryWidth-2*pad, 52, 10)
	dc.Fill()

	r.setFont(dc, 18, scale)
	dc.SetColor(pal.Accent)
	dc.DrawStringAnchored(view.Message, SummaryWidth/2, top+26, 0.5, 0.35)

	r.setFont(dc, 20, scale)
	dc.SetColor(pal.Text)
	dc.DrawStringAnchored(fmt.Sprintf("Planted %d patches of grass in %d days!", view.RunDays, view.TotalDays), SummaryWidth/2, top+88, 0.5, 0.5)
	r.setFont(dc, 15, scale)
	dc.SetColor(pal.Muted)
	dc.DrawStringAnchored(fmt.Sprintf("(achievement: %d%%)", view.Percent), SummaryWidth/2, top+114, 0.5, 0.5)
}

func (r *CanvasRasterizer) drawMonths(dc *gg.Context, view *SummaryView, pal Palette, scale float64) {
	top := 310.0
	colW := (SummaryWidth - 2*pad - (monthCols-1)*monthGap) / monthCols
	cell := colW / 7
	rowH := monthLabel + 6*cell + monthGap

	for i, g := range view.Months {
		x := pad + float64(i%monthCols)*(colW+monthGap)
		y := top + float64(i/monthCols)*rowH

		r.setFont(dc, 14, scale)
		dc.SetColor(pal.Muted)
		dc.DrawStringAnchored(g.Dates[0].Format("Jan"), x+colW/2, y+monthLabel/2, 0.5, 0.5)

		layout := grid.Layout(g)
		gy := y + monthLabel
		dc.SetColor(pal.Frame)
		dc.DrawRoundedRectangle(x-1, gy-1, colW+2, float64(layout.RowSpan)*cell+2, 3)
		dc.Fill()

		for slot := 0; slot < layout.RowSpan*7; slot++ {
			cx := x + float64(slot%7)*cell
			cy := gy + float64(slot/7)*cell
			di := slot - layout.StartCol
			if di < 0 || di >= len(g.Dates) {
				dc.SetColor(pal.Empty)
			} else {
				dc.SetColor(pal.CellColor(view.Bucket[g.Dates[di].Format("2006-01-02")]))
			}
			dc.DrawRoundedRectangle(cx+cellGap/2, cy+cellGap/2, cell-cellGap, cell-cellGap, 1.5)
			dc.Fill()
		}
	}
}

// loadAvatar reads a local file, or fetches a remote URL when crossOrigin is
// set. Any failure yields nil and the placeholder is drawn instead.
func (r *CanvasRasterizer) loadAvatar(ctx context.Context, src string, crossOrigin bool) image.Image {
	if src == "" {
		return nil
	}
	if !isRemote(src) {
		img, err := gg.LoadImage(src)
		if err != nil {
			r.logger.Debug("Avatar file unreadable", zap.String("path", src), zap.Error(err))
			return nil
		}
		return img
	}
	if !crossOrigin {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil
	}
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		r.logger.Debug("Avatar fetch failed", zap.String("url", src), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("Avatar fetch failed", zap.String("url", src), zap.Int("status", resp.StatusCode))
		return nil
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		r.logger.Debug("Avatar decode failed", zap.String("url", src), zap.Error(err))
		return nil
	}
	return img
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func possessive(name string) string {
	if name == "" {
		return "My"
	}
	if strings.HasSuffix(name, "s") {
		return name + "'"
	}
	return name + "'s"
}
