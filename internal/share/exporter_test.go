package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
)

type fakeSurface struct {
	data []byte
	err  error
}

func (s fakeSurface) PNG() ([]byte, error) { return s.data, s.err }

type fakeRasterizer struct {
	surface render.Surface
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
	opts    render.Options
}

func (r *fakeRasterizer) Rasterize(ctx context.Context, _ *render.SummaryView, opts render.Options) (render.Surface, error) {
	r.calls++
	r.opts = opts
	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	return r.surface, r.err
}

type fakeSharer struct {
	err   error
	calls int
	got   ShareData
}

func (s *fakeSharer) Share(_ context.Context, data ShareData) error {
	s.calls++
	s.got = data
	return s.err
}

type checkingSharer struct {
	fakeSharer
	can bool
}

func (s *checkingSharer) CanShare(ShareData) bool { return s.can }

type fakeDownloader struct {
	err   error
	calls int
	got   File
}

func (d *fakeDownloader) Download(_ context.Context, f File) (string, error) {
	d.calls++
	d.got = f
	if d.err != nil {
		return "", d.err
	}
	return "/tmp/" + f.Name, nil
}

type harness struct {
	rast     *fakeRasterizer
	dl       *fakeDownloader
	rec      *notify.Recorder
	logs     *observer.ObservedLogs
	exporter *Exporter
}

func newHarness(t *testing.T, sharer NativeSharer) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{
		rast: &fakeRasterizer{surface: fakeSurface{data: []byte("\x89PNG")}},
		dl:   &fakeDownloader{},
		rec:  notify.NewRecorder(nil),
		logs: logs,
	}
	h.exporter = NewExporter(Options{
		Rasterizer: h.rast,
		Sharer:     sharer,
		Downloader: h.dl,
		Notifier:   h.rec,
		Logger:     zap.New(core),
		Render:     render.OptionsFor("dark", 2, true),
		Title:      "My running grass",
		Text:       "hello",
	})
	return h
}

// onlyEntry asserts the single create-then-update lifecycle.
func (h *harness) onlyEntry(t *testing.T) notify.Entry {
	t.Helper()
	entries := h.rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Updates)
	return entries[0]
}

func TestExportAndShare_NativeShareSucceeds(t *testing.T) {
	sharer := &fakeSharer{}
	h := newHarness(t, sharer)

	out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

	assert.Equal(t, Shared, out)
	assert.Equal(t, 1, sharer.calls)
	assert.Equal(t, 0, h.dl.calls)
	require.Len(t, sharer.got.Files, 1)
	assert.Equal(t, "running-grass.png", sharer.got.Files[0].Name)
	assert.Equal(t, "image/png", sharer.got.Files[0].ContentType)
	assert.Equal(t, "My running grass", sharer.got.Title)
	assert.Equal(t, "Share complete", h.onlyEntry(t).Message.Title)
	assert.Equal(t, Idle, h.exporter.State())

	assert.Equal(t, 2.0, h.rast.opts.Scale)
	assert.Equal(t, "#1a1a1a", render.Hex(h.rast.opts.Background))
}

func TestExportAndShare_ReentrantTriggerDropped(t *testing.T) {
	h := newHarness(t, &fakeSharer{})
	h.rast.started = make(chan struct{})
	h.rast.release = make(chan struct{})

	done := make(chan Outcome)
	go func() { done <- h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}) }()

	<-h.rast.started
	assert.Equal(t, Exporting, h.exporter.State())

	assert.Equal(t, None, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
	assert.Len(t, h.rec.Entries(), 1, "second trigger must not create a notification")

	close(h.rast.release)
	select {
	case out := <-done:
		assert.Equal(t, Shared, out)
	case <-time.After(5 * time.Second):
		t.Fatal("export did not finish")
	}
	assert.Equal(t, 1, h.rast.calls)
	assert.Equal(t, Idle, h.exporter.State())
	h.onlyEntry(t)
}

func TestExportAndShare_NoNativeShareDownloads(t *testing.T) {
	h := newHarness(t, nil)

	out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

	assert.Equal(t, DownloadedFallback, out)
	assert.Equal(t, 1, h.dl.calls)
	assert.Equal(t, []byte("\x89PNG"), h.dl.got.Data)
	e := h.onlyEntry(t)
	assert.Equal(t, "Image downloaded", e.Message.Title)
	assert.Contains(t, e.Message.Description, "not supported")
	assert.NotContains(t, e.Message.Description, "failed")
	assert.Equal(t, "default", e.Variant)
}

func TestExportAndShare_CapabilityCheckDenies(t *testing.T) {
	sharer := &checkingSharer{can: false}
	h := newHarness(t, sharer)

	out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

	assert.Equal(t, DownloadedFallback, out)
	assert.Equal(t, 0, sharer.calls)
	assert.Contains(t, h.onlyEntry(t).Message.Description, "not supported")
}

func TestExportAndShare_CapabilityCheckAffirms(t *testing.T) {
	sharer := &checkingSharer{can: true}
	h := newHarness(t, sharer)

	assert.Equal(t, Shared, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
	assert.Equal(t, 1, sharer.calls)
}

func TestExportAndShare_CancelledSkipsDownload(t *testing.T) {
	sharer := &fakeSharer{err: ErrShareCancelled}
	h := newHarness(t, sharer)

	out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

	assert.Equal(t, Cancelled, out)
	assert.Equal(t, 0, h.dl.calls)
	e := h.onlyEntry(t)
	assert.Equal(t, "Share cancelled", e.Message.Title)
	assert.Equal(t, "default", e.Variant)
	assert.Zero(t, h.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, h.logs.FilterMessage("Share cancelled by user").Len())
}

func TestExportAndShare_WrappedCancellation(t *testing.T) {
	sharer := &fakeSharer{err: errors.Join(errors.New("sheet closed"), ErrShareCancelled)}
	h := newHarness(t, sharer)

	assert.Equal(t, Cancelled, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
}

func TestExportAndShare_ShareFailureFallsBack(t *testing.T) {
	sharer := &fakeSharer{err: errors.New("target unavailable")}
	h := newHarness(t, sharer)

	out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

	assert.Equal(t, DownloadedFallback, out)
	assert.Equal(t, 1, h.dl.calls)
	e := h.onlyEntry(t)
	assert.Contains(t, e.Message.Description, "Sharing failed")
	assert.Equal(t, "default", e.Variant)

	warns := h.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	logged, ok := warns[0].ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Contains(t, logged, "native share failed: target unavailable")
}

func TestExportAndShare_EmptyImageFails(t *testing.T) {
	tests := []struct {
		name    string
		surface render.Surface
		err     error
	}{
		{"empty bytes", fakeSurface{data: []byte{}}, nil},
		{"nil surface", nil, nil},
		{"encode error", fakeSurface{err: errors.New("boom")}, nil},
		{"rasterizer error", nil, errors.New("no canvas")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sharer := &fakeSharer{}
			h := newHarness(t, sharer)
			h.rast.surface = tt.surface
			h.rast.err = tt.err

			out := h.exporter.ExportAndShare(context.Background(), &render.SummaryView{})

			assert.Equal(t, Failed, out)
			assert.Equal(t, Idle, h.exporter.State())
			assert.Equal(t, 0, sharer.calls)
			assert.Equal(t, 0, h.dl.calls)
			e := h.onlyEntry(t)
			assert.Equal(t, "Share failed", e.Message.Title)
			assert.Contains(t, e.Message.Description, "Check the logs")
			assert.Equal(t, "destructive", e.Variant)
			assert.Equal(t, 1, h.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		})
	}
}

func TestExportAndShare_DownloadFailureFails(t *testing.T) {
	h := newHarness(t, &fakeSharer{err: errors.New("nope")})
	h.dl.err = errors.New("disk full")

	assert.Equal(t, Failed, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
	assert.Equal(t, "destructive", h.onlyEntry(t).Variant)
	assert.Equal(t, Idle, h.exporter.State())
}

func TestExportAndShare_PanicReleasesState(t *testing.T) {
	h := newHarness(t, nil)
	h.exporter.rasterizer = panicRasterizer{}

	assert.Equal(t, Failed, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
	assert.Equal(t, Idle, h.exporter.State())
	h.onlyEntry(t)

	// A later trigger is a fresh attempt.
	h.exporter.rasterizer = h.rast
	assert.Equal(t, DownloadedFallback, h.exporter.ExportAndShare(context.Background(), &render.SummaryView{}))
}

type panicRasterizer struct{}

func (panicRasterizer) Rasterize(context.Context, *render.SummaryView, render.Options) (render.Surface, error) {
	panic("canvas exploded")
}

func TestErrorTypes(t *testing.T) {
	inner := errors.New("inner")
	var sfe *ShareFailedError
	assert.True(t, errors.As(&ExportFailedError{Err: &ShareFailedError{Err: inner}}, &sfe))
	assert.ErrorIs(t, &ExportFailedError{Err: ErrRasterization}, ErrRasterization)
	assert.Contains(t, (&ShareFailedError{Err: inner}).Error(), "inner")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "downloaded", DownloadedFallback.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "exporting", Exporting.String())
}
