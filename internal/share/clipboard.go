package share

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// ClipboardSharer saves the image to a scratch directory and copies its path
// to the system clipboard for pasting into another app.
type ClipboardSharer struct {
	Dir         string
	write       func(string) error
	unsupported bool
}

func NewClipboardSharer(dir string) *ClipboardSharer {
	return &ClipboardSharer{Dir: dir, write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// CanShare is false when no clipboard utility is available.
func (c *ClipboardSharer) CanShare(data ShareData) bool {
	return !c.unsupported && len(data.Files) > 0
}

func (c *ClipboardSharer) Share(ctx context.Context, data ShareData) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrShareCancelled, err)
	}

	path, err := writeScratch(c.Dir, data.Files[0])
	if err != nil {
		return err
	}
	if err := c.write(path); err != nil {
		return fmt.Errorf("copy %s to clipboard: %w", path, err)
	}
	return nil
}
