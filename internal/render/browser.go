package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image/color"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/grid"
)

// BrowserRasterizer renders the summary as HTML in headless Chrome and
// screenshots the #summary element.
type BrowserRasterizer struct {
	// Bin is the Chrome binary. Empty lets the launcher find or download one.
	Bin string
	// ControlURL connects to an already running browser instead of launching.
	ControlURL string

	logger *zap.Logger
}

func NewBrowserRasterizer(bin string, logger *zap.Logger) *BrowserRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserRasterizer{Bin: bin, logger: logger}
}

func (r *BrowserRasterizer) connect(ctx context.Context) (*rod.Browser, func(), error) {
	controlURL := r.ControlURL
	cleanup := func() {}
	if controlURL == "" {
		l := launcher.New().Headless(true).Context(ctx)
		if r.Bin != "" {
			l = l.Bin(r.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
		cleanup = l.Kill
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return b, func() {
		_ = b.Close()
		cleanup()
	}, nil
}

// Rasterize implements Rasterizer.
func (r *BrowserRasterizer) Rasterize(ctx context.Context, view *SummaryView, opts Options) (Surface, error) {
	if view == nil {
		return nil, fmt.Errorf("render: nil view")
	}
	doc, err := SummaryHTML(view, opts)
	if err != nil {
		return nil, err
	}

	b, closeBrowser, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer closeBrowser()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             SummaryWidth,
		Height:            SummaryHeight,
		DeviceScaleFactor: scale,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(doc); err != nil {
		return nil, fmt.Errorf("load summary document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		r.logger.Debug("Summary page did not finish loading", zap.Error(err))
	}

	el, err := page.Element("#summary")
	if err != nil {
		return nil, fmt.Errorf("find summary element: %w", err)
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot summary: %w", err)
	}
	return bytesSurface(png), nil
}

type htmlCell struct {
	Color template.CSS
}

type htmlMonth struct {
	Label string
	Cells []htmlCell
}

type htmlLegend struct {
	Color template.CSS
}

type htmlData struct {
	View        *SummaryView
	Background  template.CSS
	Text        template.CSS
	Muted       template.CSS
	Accent      template.CSS
	Banner      template.CSS
	Frame       template.CSS
	Avatar      string
	Initial     string
	Title       string
	Months      []htmlMonth
	Legend      []htmlLegend
	AsOf        string
	CrossOrigin bool
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
body{margin:0;background:{{.Background}};font-family:-apple-system,"Segoe UI",Roboto,sans-serif}
#summary{width:600px;box-sizing:border-box;padding:32px;background:{{.Background}};color:{{.Text}}}
.head{display:flex;align-items:center;gap:28px}
.avatar{width:80px;height:80px;border-radius:50%;border:3px solid {{.Accent}};object-fit:cover}
.placeholder{display:flex;align-items:center;justify-content:center;font-size:28px;background:{{.Frame}}}
.km{color:{{.Muted}};font-size:13px;text-align:center;margin-top:6px}
h1{font-size:26px;margin:0}
h2{font-size:26px;margin:8px 0 0;color:{{.Accent}}}
.banner{margin-top:24px;padding:14px;border-radius:10px;background:{{.Banner}};color:{{.Accent}};text-align:center;font-size:18px}
.stats{text-align:center;margin:18px 0}
.stats p{margin:4px 0;font-size:20px}
.stats .pct{font-size:15px;color:{{.Muted}}}
.months{display:grid;grid-template-columns:repeat(4,1fr);gap:16px}
.month span{display:block;text-align:center;color:{{.Muted}};font-size:14px;margin-bottom:4px}
.cells{display:grid;grid-template-columns:repeat(7,1fr);gap:1.5px;background:{{.Frame}};border-radius:3px;padding:1px}
.cells i{aspect-ratio:1;border-radius:1.5px}
.legend{display:flex;justify-content:flex-end;align-items:center;gap:4px;margin-top:16px;color:{{.Muted}};font-size:12px}
.legend i{width:12px;height:12px;border-radius:2px}
footer{text-align:center;color:{{.Muted}};font-size:14px;margin-top:20px}
</style></head><body>
<div id="summary">
 <div class="head">
  <div>
   {{if .Avatar}}<img class="avatar" src="{{.Avatar}}"{{if .CrossOrigin}} crossorigin="anonymous"{{end}} alt="">{{else}}<div class="avatar placeholder">{{.Initial}}</div>{{end}}
   <div class="km">{{.View.TotalKm}} km</div>
  </div>
  <div><h1>{{.Title}}</h1><h2>Running Grass {{.View.Year}}</h2></div>
 </div>
 <div class="banner">{{.View.Message}}</div>
 <div class="stats">
  <p>Planted {{.View.RunDays}} patches of grass in {{.View.TotalDays}} days!</p>
  <p class="pct">(achievement: {{.View.Percent}}%)</p>
 </div>
 <div class="months">
 {{range .Months}}<div class="month"><span>{{.Label}}</span><div class="cells">{{range .Cells}}<i style="background:{{.Color}}"></i>{{end}}</div></div>
 {{end}}</div>
 <div class="legend">Less {{range .Legend}}<i style="background:{{.Color}}"></i>{{end}} More</div>
 <footer>as of {{.AsOf}}</footer>
</div>
</body></html>`))

// SummaryHTML renders view as a standalone HTML document.
func SummaryHTML(view *SummaryView, opts Options) (string, error) {
	pal := PaletteFor(opts.Theme)
	css := func(c color.Color) template.CSS {
		return template.CSS(Hex(c))
	}

	var bg color.Color = pal.Background
	if opts.Background != nil {
		bg = opts.Background
	}
	data := htmlData{
		View:        view,
		Background:  css(bg),
		Text:        css(pal.Text),
		Muted:       css(pal.Muted),
		Accent:      css(pal.Accent),
		Banner:      css(pal.Banner),
		Frame:       css(pal.Frame),
		Initial:     initial(view.DisplayName),
		Title:       possessive(view.DisplayName),
		AsOf:        view.AsOf.Format("January 2, 2006"),
		CrossOrigin: opts.CrossOrigin,
	}
	if view.AvatarURL != "" && (opts.CrossOrigin || !isRemote(view.AvatarURL)) {
		data.Avatar = view.AvatarURL
	}

	for _, g := range view.Months {
		layout := grid.Layout(g)
		m := htmlMonth{Label: g.Dates[0].Format("Jan")}
		for slot := 0; slot < layout.RowSpan*7; slot++ {
			di := slot - layout.StartCol
			if di < 0 || di >= len(g.Dates) {
				m.Cells = append(m.Cells, htmlCell{Color: css(pal.Empty)})
				continue
			}
			m.Cells = append(m.Cells, htmlCell{Color: css(pal.CellColor(view.Bucket[g.Dates[di].Format("2006-01-02")]))})
		}
		data.Months = append(data.Months, m)
	}
	for _, km := range grid.LegendSamples {
		data.Legend = append(data.Legend, htmlLegend{Color: css(pal.CellColor(km))})
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render summary html: %w", err)
	}
	return buf.String(), nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
