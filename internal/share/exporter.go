package share

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
)

// Notification texts.
var (
	msgGenerating = notify.Message{Title: "Generating share image", Description: "Please wait..."}
	msgShared     = notify.Message{Title: "Share complete", Description: "Check the share target."}
	msgCancelled  = notify.Message{Title: "Share cancelled", Description: "The share was cancelled."}
	msgFailed     = notify.Message{
		Title:       "Share failed",
		Description: "Something went wrong while generating or sharing the image. Check the logs for details.",
		Variant:     notify.VariantDestructive,
	}
)

func msgDownloaded(path string, attemptedNative bool) notify.Message {
	if attemptedNative {
		return notify.Message{
			Title:       "Image downloaded",
			Description: fmt.Sprintf("Sharing failed, so the image was saved to %s instead.", path),
		}
	}
	return notify.Message{
		Title:       "Image downloaded",
		Description: fmt.Sprintf("File sharing is not supported here, so the image was saved to %s instead.", path),
	}
}

// Options configures an Exporter. Sharer may be nil when no native share
// target is available.
type Options struct {
	Rasterizer render.Rasterizer
	Sharer     NativeSharer
	Downloader Downloader
	Notifier   notify.Notifier
	Logger     *zap.Logger

	Render   render.Options
	Filename string
	Title    string
	Text     string
}

// Exporter runs at most one export at a time. A trigger while an export is in
// flight is dropped, not queued.
type Exporter struct {
	rasterizer render.Rasterizer
	sharer     NativeSharer
	downloader Downloader
	notifier   notify.Notifier
	logger     *zap.Logger

	opts     render.Options
	filename string
	title    string
	text     string

	state atomic.Int32
}

func NewExporter(o Options) *Exporter {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	filename := o.Filename
	if filename == "" {
		filename = "running-grass.png"
	}
	return &Exporter{
		rasterizer: o.Rasterizer,
		sharer:     o.Sharer,
		downloader: o.Downloader,
		notifier:   o.Notifier,
		logger:     logger,
		opts:       o.Render,
		filename:   filename,
		title:      o.Title,
		text:       o.Text,
	}
}

// State reports whether an export is in flight.
func (e *Exporter) State() State {
	return State(e.state.Load())
}

// ExportAndShare rasterizes view and shares or saves the PNG. Failures are
// reported through the notifier and the returned Outcome, never as errors.
// The notifier sees exactly one Create and one Update per accepted call.
func (e *Exporter) ExportAndShare(ctx context.Context, view *render.SummaryView) Outcome {
	if !e.state.CompareAndSwap(int32(Idle), int32(Exporting)) {
		e.logger.Debug("Export already in progress, trigger dropped")
		return None
	}
	defer e.state.Store(int32(Idle))

	h := e.notifier.Create(msgGenerating)

	outcome, msg, err := e.export(ctx, view)
	if err != nil {
		err = &ExportFailedError{Err: err}
		e.logger.Error("Failed to share", zap.Error(err))
		outcome, msg = Failed, msgFailed
	}
	e.notifier.Update(h, msg)
	return outcome
}

func (e *Exporter) export(ctx context.Context, view *render.SummaryView) (outcome Outcome, msg notify.Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during export: %v", r)
		}
	}()

	data, err := e.rasterize(ctx, view)
	if err != nil {
		return Failed, msg, err
	}

	file := File{Name: e.filename, ContentType: "image/png", Data: data}
	payload := ShareData{Files: []File{file}, Title: e.title, Text: e.text}

	native := e.canShare(payload)
	if native {
		err := e.sharer.Share(ctx, payload)
		switch {
		case err == nil:
			e.logger.Info("Summary shared", zap.Int("bytes", len(data)))
			return Shared, msgShared, nil
		case errors.Is(err, ErrShareCancelled):
			e.logger.Info("Share cancelled by user")
			return Cancelled, msgCancelled, nil
		default:
			e.logger.Warn("Native share failed, falling back to download",
				zap.Error(&ShareFailedError{Err: err}))
		}
	}

	path, err := e.downloader.Download(ctx, file)
	if err != nil {
		return Failed, msg, fmt.Errorf("download: %w", err)
	}
	e.logger.Info("Summary downloaded", zap.String("path", path), zap.Bool("after_share_failure", native))
	return DownloadedFallback, msgDownloaded(path, native), nil
}

func (e *Exporter) rasterize(ctx context.Context, view *render.SummaryView) ([]byte, error) {
	surface, err := e.rasterizer.Rasterize(ctx, view, e.opts)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	if surface == nil {
		return nil, ErrRasterization
	}
	data, err := surface.PNG()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterization, err)
	}
	if len(data) == 0 {
		return nil, ErrRasterization
	}
	return data, nil
}

func (e *Exporter) canShare(data ShareData) bool {
	if e.sharer == nil {
		return false
	}
	if c, ok := e.sharer.(CapabilityChecker); ok {
		return c.CanShare(data)
	}
	return true
}
