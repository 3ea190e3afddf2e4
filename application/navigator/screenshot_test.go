package navigator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"web_navigator/domain/entities"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 20, B: 20, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestPNGPath(t *testing.T) {
	tests := map[string]string{
		"shot":            "shot.png",
		"shot.png":        "shot.png",
		"shot.PNG":        "shot.PNG",
		"shot.jpg":        "shot.png",
		"dir/page.v2.gif": "dir/page.v2.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, PNGPath(in), in)
	}
}

func TestScreenshotForcesPNGSuffix(t *testing.T) {
	dir := t.TempDir()
	drv := &fakeDriver{shot: pngBytes(t, 40, 20)}
	nav := newTestNavigator(newFakeClock())

	path, err := nav.Screenshot(context.Background(), NewSession(drv, entities.Capabilities{}),
		filepath.Join(dir, "shots", "page.jpg"), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shots", "page.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, drv.shot, data)
}

func TestScreenshotCrop(t *testing.T) {
	dir := t.TempDir()
	drv := &fakeDriver{shot: pngBytes(t, 40, 20)}
	nav := newTestNavigator(newFakeClock())

	path, err := nav.Screenshot(context.Background(), NewSession(drv, entities.Capabilities{}),
		filepath.Join(dir, "crop"), &entities.Rect{Left: 5, Top: 5, Right: 15, Bottom: 10})
	require.NoError(t, err)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 5), img.Bounds().Size())
}

func TestScreenshotRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	drv := &fakeDriver{shot: pngBytes(t, 40, 20)}
	nav := newTestNavigator(newFakeClock())
	sess := NewSession(drv, entities.Capabilities{})

	_, err := nav.Screenshot(context.Background(), sess, " ", nil)
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)

	for _, rect := range []entities.Rect{
		{Left: 10, Top: 0, Right: 10, Bottom: 5},
		{Left: 0, Top: 0, Right: 41, Bottom: 5},
		{Left: -1, Top: 0, Right: 5, Bottom: 5},
	} {
		r := rect
		_, err := nav.Screenshot(context.Background(), sess, filepath.Join(dir, "bad.png"), &r)
		assert.ErrorIs(t, err, entities.ErrInvalidArgument, "%v", r)
	}
	assert.NoFileExists(t, filepath.Join(dir, "bad.png"))
}
