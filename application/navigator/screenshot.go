package navigator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"web_navigator/domain/entities"

	"github.com/disintegration/imaging"
)

// PNGPath forces a .png suffix on path
func PNGPath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".png") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".png"
}

// Screenshot - captures the viewport, optionally crops it to crop, and writes
// it as PNG. It returns the path written.
func (n *Navigator) Screenshot(ctx context.Context, sess *Session, path string, crop *entities.Rect) (string, error) {
	d, err := sess.driver()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty screenshot path", entities.ErrInvalidArgument)
	}
	path = PNGPath(path)

	data, err := d.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("take screenshot: %w", err)
	}

	if crop != nil {
		data, err = CropPNG(data, *crop)
		if err != nil {
			return "", err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	n.logger.Infof("Screenshot saved to: %s", path)
	return path, nil
}

// CropPNG crops an encoded image to rect and re-encodes it as PNG
func CropPNG(data []byte, rect entities.Rect) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	if err := rect.Validate(img.Bounds()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Crop(img, rect.Image()), imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
