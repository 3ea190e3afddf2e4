package interfaces

import (
	"context"

	"web_navigator/domain/entities"
)

// Element is a handle to a DOM element owned by a Driver
type Element interface {
	// Click clicks the element
	Click() error

	// SendKeys types keys into the element
	SendKeys(keys string) error

	// Text returns the visible text of the element
	Text() (string, error)

	// IsDisplayed reports whether the element is visible
	IsDisplayed() (bool, error)

	// IsEnabled reports whether the element accepts interaction
	IsEnabled() (bool, error)
}

// Driver defines the browser automation backend
type Driver interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// FindElement performs a single lookup in the current frame.
	// It returns entities.ErrNoSuchElement when nothing matches.
	FindElement(ctx context.Context, kind entities.LocatorKind, value string) (Element, error)

	// SwitchFrame switches into the iframe element, or back to the top
	// document when frame is nil
	SwitchFrame(ctx context.Context, frame Element) error

	// Logs drains the captured entries of a log stream
	Logs(ctx context.Context, stream entities.LogStream) ([]entities.LogEntry, error)

	// Screenshot returns a PNG of the viewport
	Screenshot(ctx context.Context) ([]byte, error)

	// ExecuteScript runs a script body with positional arguments
	// available as arguments[i]
	ExecuteScript(ctx context.Context, script string, args []any) (any, error)

	// AcceptAlert accepts the open alert; entities.ErrNoAlert if none
	AcceptAlert(ctx context.Context) error

	// DismissAlert dismisses the open alert; entities.ErrNoAlert if none
	DismissAlert(ctx context.Context) error

	// Close closes the browser and stops the driver process
	Close() error
}
