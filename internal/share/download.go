package share

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileDownloader saves files into Dir without overwriting existing ones:
// running-grass.png, running-grass (1).png, and so on.
type FileDownloader struct {
	Dir string
}

func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{Dir: dir}
}

// Download writes f through a temporary file that is always removed.
func (d *FileDownloader) Download(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".grass-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	path, err := availableName(d.Dir, f.Name)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func availableName(dir, name string) (string, error) {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < 10000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		p := filepath.Join(dir, candidate)
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			return p, nil
		} else if err != nil {
			return "", fmt.Errorf("check %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}
