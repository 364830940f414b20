package share

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
)

// OpenSharer writes the image to a scratch directory and opens it with the
// desktop's default handler, from where the user shares it.
type OpenSharer struct {
	Dir  string
	open func(path string) error
}

func NewOpenSharer(dir string) *OpenSharer {
	return &OpenSharer{Dir: dir, open: browser.OpenFile}
}

func (o *OpenSharer) CanShare(data ShareData) bool {
	return len(data.Files) > 0
}

func (o *OpenSharer) Share(ctx context.Context, data ShareData) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrShareCancelled, err)
	}

	path, err := writeScratch(o.Dir, data.Files[0])
	if err != nil {
		return err
	}
	if err := o.open(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// writeScratch stores f under dir, or a grass-share temp directory when dir
// is empty, and returns its path.
func writeScratch(dir string, f File) (string, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "grass-share")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create share dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(f.Name))
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write share file: %w", err)
	}
	return path, nil
}
