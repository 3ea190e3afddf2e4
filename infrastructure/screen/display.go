package screen

import (
	"context"
	"fmt"
	"image"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
	"github.com/sirupsen/logrus"
)

// Display captures one monitor and drives the system pointer over it
type Display struct {
	index  int
	logger *logrus.Logger
}

// NewDisplay - creates a screen bound to the display with the given index
func NewDisplay(logger *logrus.Logger, index int) *Display {
	return &Display{index: index, logger: logger}
}

func (d *Display) bounds() (image.Rectangle, error) {
	if n := screenshot.NumActiveDisplays(); d.index < 0 || d.index >= n {
		return image.Rectangle{}, fmt.Errorf("%w: display %d not active (%d displays)", entities.ErrBackend, d.index, n)
	}
	return screenshot.GetDisplayBounds(d.index), nil
}

// Capture - grabs the whole display
func (d *Display) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := d.bounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(b)
	if err != nil {
		return nil, fmt.Errorf("%w: capture display %d: %v", entities.ErrBackend, d.index, err)
	}
	return img, nil
}

func (d *Display) absolute(p entities.Point) (int, int, error) {
	b, err := d.bounds()
	if err != nil {
		return 0, 0, err
	}
	return b.Min.X + p.X, b.Min.Y + p.Y, nil
}

// Move - moves the pointer to p
func (d *Display) Move(ctx context.Context, p entities.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x, y, err := d.absolute(p)
	if err != nil {
		return err
	}
	robotgo.Move(x, y)
	return nil
}

// Click - left-clicks at p
func (d *Display) Click(ctx context.Context, p entities.Point) error {
	if err := d.Move(ctx, p); err != nil {
		return err
	}
	robotgo.Click("left", false)
	d.logger.Debugf("Clicked at %s on display %d", p, d.index)
	return nil
}

var _ interfaces.Screen = (*Display)(nil)
