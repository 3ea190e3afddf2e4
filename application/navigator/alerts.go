package navigator

import (
	"context"
	"errors"

	"web_navigator/domain/entities"
)

// AcceptAlert - waits for an alert and accepts it. When none appears within
// the wait window it logs a warning and returns false.
func (n *Navigator) AcceptAlert(ctx context.Context, sess *Session, opts ...SearchOption) (bool, error) {
	d, err := sess.driver()
	if err != nil {
		return false, err
	}
	return n.handleAlert(ctx, "accept", d.AcceptAlert, opts)
}

// DismissAlert - waits for an alert and dismisses it. When none appears
// within the wait window it logs a warning and returns false.
func (n *Navigator) DismissAlert(ctx context.Context, sess *Session, opts ...SearchOption) (bool, error) {
	d, err := sess.driver()
	if err != nil {
		return false, err
	}
	return n.handleAlert(ctx, "dismiss", d.DismissAlert, opts)
}

func (n *Navigator) handleAlert(ctx context.Context, action string, handle func(context.Context) error, opts []SearchOption) (bool, error) {
	cfg, err := n.searchConfig(opts)
	if err != nil {
		return false, err
	}

	found, _, elapsed, err := n.poll(ctx, "alert", cfg, func(ctx context.Context) (bool, error) {
		err := handle(ctx)
		if errors.Is(err, entities.ErrNoAlert) {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		return false, err
	}
	if !found {
		n.logger.Warnf("No alert to %s after %s", action, elapsed)
		return false, nil
	}
	n.logger.Infof("Alert %sed", action)
	return true, nil
}
