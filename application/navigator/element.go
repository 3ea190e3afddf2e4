package navigator

import (
	"context"
	"fmt"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"
)

// SearchByElement - waits for an element located by a friendly kind name
// ("id", "xpath", ...). It returns nil, nil when the wait runs out.
func (n *Navigator) SearchByElement(ctx context.Context, sess *Session, by, value string, beClickable bool, opts ...SearchOption) (interfaces.Element, error) {
	kind, err := entities.ParseLocatorKind(by)
	if err != nil {
		return nil, err
	}
	res, err := n.Search(ctx, sess, entities.ElementTarget(kind, value, beClickable), opts...)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}
	return res.Element, nil
}

// ChangeFrame - switches into the iframe located by (by, value), or back to
// the top document when either is empty
func (n *Navigator) ChangeFrame(ctx context.Context, sess *Session, by, value string, opts ...SearchOption) error {
	d, err := sess.driver()
	if err != nil {
		return err
	}

	if by == "" || value == "" {
		n.logger.Debug("Switching to default content")
		return d.SwitchFrame(ctx, nil)
	}

	frame, err := n.SearchByElement(ctx, sess, by, value, false, opts...)
	if err != nil {
		return err
	}
	if frame == nil {
		return fmt.Errorf("frame %s=%q: %w", by, value, entities.ErrNoSuchElement)
	}

	n.logger.Debugf("Switching to frame %s=%q", by, value)
	return d.SwitchFrame(ctx, frame)
}

// ClickElement - waits for a clickable element, scrolls it into view and
// clicks it
func (n *Navigator) ClickElement(ctx context.Context, sess *Session, by, value string, opts ...SearchOption) error {
	el, err := n.SearchByElement(ctx, sess, by, value, true, opts...)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("clickable element %s=%q: %w", by, value, entities.ErrNoSuchElement)
	}

	n.logger.Infof("Clicking on: %s=%q", by, value)
	if err := n.ScrollToElement(ctx, sess, el); err != nil {
		n.logger.Warnf("Failed to scroll to element: %v", err)
	}

	if err := n.clock.Sleep(ctx, 300*time.Millisecond); err != nil {
		return err
	}
	return el.Click()
}

// TypeText - waits for an input element and types text into it
func (n *Navigator) TypeText(ctx context.Context, sess *Session, by, value, text string, opts ...SearchOption) error {
	el, err := n.SearchByElement(ctx, sess, by, value, true, opts...)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("input element %s=%q: %w", by, value, entities.ErrNoSuchElement)
	}

	n.logger.Infof("Typing text into: %s=%q", by, value)
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type text: %w", err)
	}
	return nil
}
