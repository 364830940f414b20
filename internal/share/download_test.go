package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDownloader_DoesNotClobber(t *testing.T) {
	dir := t.TempDir()
	d := NewFileDownloader(dir)
	f := File{Name: "running-grass.png", Data: []byte("one")}

	p1, err := d.Download(context.Background(), f)
	require.NoError(t, err)
	f.Data = []byte("two")
	p2, err := d.Download(context.Background(), f)
	require.NoError(t, err)
	f.Data = []byte("three")
	p3, err := d.Download(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "running-grass.png"), p1)
	assert.Equal(t, filepath.Join(dir, "running-grass (1).png"), p2)
	assert.Equal(t, filepath.Join(dir, "running-grass (2).png"), p3)

	b, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
	b, err = os.ReadFile(p3)
	require.NoError(t, err)
	assert.Equal(t, "three", string(b))
}

func TestFileDownloader_RemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFileDownloader(dir).Download(context.Background(), File{Name: "a.png", Data: []byte("x")})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}

func TestFileDownloader_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	p, err := NewFileDownloader(dir).Download(context.Background(), File{Name: "a.png", Data: []byte("x")})
	require.NoError(t, err)
	assert.FileExists(t, p)
}

func TestFileDownloader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileDownloader(t.TempDir()).Download(ctx, File{Name: "a.png"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOpenSharer_WritesAndOpens(t *testing.T) {
	var opened string
	s := &OpenSharer{Dir: t.TempDir(), open: func(p string) error { opened = p; return nil }}

	require.NoError(t, s.Share(context.Background(), sampleData()))
	assert.Equal(t, filepath.Join(s.Dir, "running-grass.png"), opened)
	b, err := os.ReadFile(opened)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestOpenSharer_OpenFailureIsShareFailure(t *testing.T) {
	s := &OpenSharer{Dir: t.TempDir(), open: func(string) error { return errors.New("no handler") }}
	err := s.Share(context.Background(), sampleData())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrShareCancelled)
}

func TestOpenSharer_CancelledBeforeOpen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &OpenSharer{Dir: t.TempDir(), open: func(string) error { t.Fatal("opened"); return nil }}
	assert.ErrorIs(t, s.Share(ctx, sampleData()), ErrShareCancelled)
}

func TestClipboardSharer_CopiesSavedPath(t *testing.T) {
	var copied string
	s := &ClipboardSharer{Dir: t.TempDir(), write: func(p string) error { copied = p; return nil }}

	require.True(t, s.CanShare(sampleData()))
	require.NoError(t, s.Share(context.Background(), sampleData()))
	assert.Equal(t, filepath.Join(s.Dir, "running-grass.png"), copied)
	b, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestClipboardSharer_UnsupportedCannotShare(t *testing.T) {
	s := &ClipboardSharer{Dir: t.TempDir(), unsupported: true, write: func(string) error { t.Fatal("copied"); return nil }}
	assert.False(t, s.CanShare(sampleData()))
}

func TestClipboardSharer_WriteFailureIsShareFailure(t *testing.T) {
	s := &ClipboardSharer{Dir: t.TempDir(), write: func(string) error { return errors.New("no xclip") }}
	err := s.Share(context.Background(), sampleData())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrShareCancelled)
}
