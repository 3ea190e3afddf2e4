package interfaces

import (
	"context"
	"image"

	"web_navigator/domain/entities"
)

// Screen captures a display and injects pointer input. Points are relative
// to the top-left corner of the captured display.
type Screen interface {
	// Capture grabs the display
	Capture(ctx context.Context) (image.Image, error)

	// Move moves the pointer
	Move(ctx context.Context, p entities.Point) error

	// Click moves the pointer and clicks the left button
	Click(ctx context.Context, p entities.Point) error
}

// ImageMatcher locates a needle image inside a haystack image
type ImageMatcher interface {
	// Match returns the centre of the best match, in haystack coordinates,
	// when its score reaches opts.Confidence
	Match(haystack, needle image.Image, opts entities.MatchOptions) (entities.Point, bool)
}
