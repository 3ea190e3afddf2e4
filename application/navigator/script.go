package navigator

import (
	"context"
	"fmt"

	"web_navigator/domain/interfaces"
)

const (
	scrollByScript       = `window.scrollBy(arguments[0], arguments[1]);`
	scrollToBottomScript = `window.scrollTo(0, document.body.scrollHeight);`
	scrollIntoViewScript = `arguments[0].scrollIntoView({ behavior: 'smooth', block: 'center' }); return true;`
)

// ExecuteScript - runs a script body in the current frame. Positional args
// are exposed as arguments[i]; the result is whatever the backend returns.
func (n *Navigator) ExecuteScript(ctx context.Context, sess *Session, script string, args ...any) (any, error) {
	d, err := sess.driver()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	res, err := d.ExecuteScript(ctx, script, args)
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", err)
	}
	return res, nil
}

// Scroll - scrolls the window by (dx, dy) pixels
func (n *Navigator) Scroll(ctx context.Context, sess *Session, dx, dy int) error {
	n.logger.Debugf("Scrolling by (%d, %d)", dx, dy)
	_, err := n.ExecuteScript(ctx, sess, scrollByScript, dx, dy)
	return err
}

// ScrollToBottom - scrolls to the end of the document
func (n *Navigator) ScrollToBottom(ctx context.Context, sess *Session) error {
	_, err := n.ExecuteScript(ctx, sess, scrollToBottomScript)
	return err
}

// ScrollToElement - scrolls el into the centre of the viewport
func (n *Navigator) ScrollToElement(ctx context.Context, sess *Session, el interfaces.Element) error {
	_, err := n.ExecuteScript(ctx, sess, scrollIntoViewScript, el)
	return err
}
