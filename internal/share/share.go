// Package share exports the running summary as a PNG and hands it to a native
// share target, falling back to saving the file locally.
package share

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRasterization means rendering produced no image data.
	ErrRasterization = errors.New("rasterization produced no image data")

	// ErrShareCancelled is returned by a NativeSharer when the user backed out.
	// It is an outcome, not a failure.
	ErrShareCancelled = errors.New("share cancelled")
)

// ShareFailedError wraps a native share rejection other than cancellation.
type ShareFailedError struct {
	Err error
}

func (e *ShareFailedError) Error() string {
	return fmt.Sprintf("native share failed: %v", e.Err)
}

func (e *ShareFailedError) Unwrap() error { return e.Err }

// ExportFailedError wraps any failure that ends an export.
type ExportFailedError struct {
	Err error
}

func (e *ExportFailedError) Error() string {
	return fmt.Sprintf("export failed: %v", e.Err)
}

func (e *ExportFailedError) Unwrap() error { return e.Err }

// File is one shareable file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ShareData is what a NativeSharer receives.
type ShareData struct {
	Files []File
	Title string
	Text  string
}

// NativeSharer hands files to a platform share target.
type NativeSharer interface {
	Share(ctx context.Context, data ShareData) error
}

// CapabilityChecker is implemented by sharers that can reject specific data
// before a share is attempted.
type CapabilityChecker interface {
	CanShare(data ShareData) bool
}

// Downloader saves a file locally and returns where it went.
type Downloader interface {
	Download(ctx context.Context, f File) (string, error)
}

// State is the exporter's lifecycle state.
type State int32

const (
	Idle State = iota
	Exporting
)

func (s State) String() string {
	if s == Exporting {
		return "exporting"
	}
	return "idle"
}

// Outcome is how one export attempt ended.
type Outcome int

const (
	// None means the trigger was dropped because an export was in flight.
	None Outcome = iota
	Shared
	Cancelled
	DownloadedFallback
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Shared:
		return "shared"
	case Cancelled:
		return "cancelled"
	case DownloadedFallback:
		return "downloaded"
	case Failed:
		return "failed"
	default:
		return "none"
	}
}
