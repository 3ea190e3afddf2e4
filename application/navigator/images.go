package navigator

import (
	"context"
	"fmt"
	"image"

	"web_navigator/domain/entities"

	"github.com/disintegration/imaging"
)

func loadImages(paths []string) ([]image.Image, error) {
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", p, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// FindImage - polls the screen for the first of paths that matches and
// returns the centre of the match. ok is false when the wait runs out.
func (n *Navigator) FindImage(ctx context.Context, paths []string, opts ...SearchOption) (entities.Point, bool, error) {
	res, err := n.Search(ctx, nil, entities.ImageTarget(paths...), opts...)
	if err != nil {
		return entities.Point{}, false, err
	}
	if res.Found {
		n.logger.Infof("Found %s at %s after %d attempts", res.Image, res.Point, res.Attempts)
	}
	return res.Point, res.Found, nil
}

// ClickImage - finds one of paths on screen and clicks its centre. It
// returns false without clicking when nothing matched in time.
func (n *Navigator) ClickImage(ctx context.Context, paths []string, opts ...SearchOption) (bool, error) {
	p, ok, err := n.FindImage(ctx, paths, opts...)
	if err != nil || !ok {
		return false, err
	}
	if err := n.screen.Click(ctx, p); err != nil {
		return false, fmt.Errorf("click at %s: %w", p, err)
	}
	return true, nil
}

// MoveToImage - finds one of paths on screen and moves the pointer over it
func (n *Navigator) MoveToImage(ctx context.Context, paths []string, opts ...SearchOption) (bool, error) {
	p, ok, err := n.FindImage(ctx, paths, opts...)
	if err != nil || !ok {
		return false, err
	}
	if err := n.screen.Move(ctx, p); err != nil {
		return false, fmt.Errorf("move to %s: %w", p, err)
	}
	return true, nil
}
