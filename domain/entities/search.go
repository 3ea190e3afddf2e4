package entities

import (
	"fmt"
	"image"
	"strings"
)

// SearchTarget describes what a polling search looks for. Exactly one of
// Locator or Images is set.
type SearchTarget struct {
	Locator *Locator `json:"locator,omitempty"`

	// Clickable additionally requires the element to be displayed and enabled
	Clickable bool `json:"clickable,omitempty"`

	// Images are tried in order on every attempt
	Images []string `json:"images,omitempty"`
}

// ElementTarget builds a locator search target
func ElementTarget(kind LocatorKind, value string, clickable bool) SearchTarget {
	return SearchTarget{
		Locator:   &Locator{Kind: kind, Value: value},
		Clickable: clickable,
	}
}

// ImageTarget builds an on-screen image search target
func ImageTarget(paths ...string) SearchTarget {
	return SearchTarget{Images: paths}
}

// Validate checks the target shape and the locator kind
func (t SearchTarget) Validate() error {
	switch {
	case t.Locator != nil && len(t.Images) > 0:
		return fmt.Errorf("%w: target has both a locator and images", ErrInvalidArgument)
	case t.Locator != nil:
		if !t.Locator.Kind.Valid() {
			return fmt.Errorf("%w: invalid locator type %q", ErrInvalidArgument, t.Locator.Kind)
		}
		return nil
	case len(t.Images) > 0:
		for _, p := range t.Images {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: empty image path", ErrInvalidArgument)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: empty search target", ErrInvalidArgument)
	}
}

func (t SearchTarget) String() string {
	if t.Locator != nil {
		return t.Locator.String()
	}
	return "image" + fmt.Sprint(t.Images)
}

// Point is a screen coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rect is a pixel rectangle given as (left, top, right, bottom)
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Image converts r to an image.Rectangle
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Validate rejects empty rectangles and those not fully inside bounds
func (r Rect) Validate(bounds image.Rectangle) error {
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return fmt.Errorf("%w: empty crop rectangle %v", ErrInvalidArgument, r)
	}
	if !r.Image().In(bounds) {
		return fmt.Errorf("%w: crop rectangle %v outside image %v", ErrInvalidArgument, r, bounds)
	}
	return nil
}

// MatchOptions tune on-screen image matching
type MatchOptions struct {
	// Confidence is the minimum correlation score in (0, 1]
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Grayscale compares luminance only
	Grayscale bool `json:"grayscale" yaml:"grayscale"`
}
