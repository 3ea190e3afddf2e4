package navigator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"
)

// SearchResult is the outcome of a polling search. Found is false when the
// wait budget ran out; that is a normal outcome, not an error.
type SearchResult struct {
	Found bool

	// Element is set for locator searches
	Element interfaces.Element

	// Point and Image are set for image searches
	Point entities.Point
	Image string

	Attempts int
	Elapsed  time.Duration
}

type searchConfig struct {
	timeout  time.Duration
	interval time.Duration
	match    entities.MatchOptions
}

// SearchOption overrides the navigator defaults for one search
type SearchOption func(*searchConfig)

// WithTimeout sets the maximum wait
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) { c.timeout = d }
}

// WithPollInterval sets the delay between attempts
func WithPollInterval(d time.Duration) SearchOption {
	return func(c *searchConfig) { c.interval = d }
}

// WithConfidence sets the minimum image match score
func WithConfidence(confidence float64) SearchOption {
	return func(c *searchConfig) { c.match.Confidence = confidence }
}

// WithGrayscale toggles luminance-only image matching
func WithGrayscale(grayscale bool) SearchOption {
	return func(c *searchConfig) { c.match.Grayscale = grayscale }
}

func (n *Navigator) searchConfig(opts []SearchOption) (searchConfig, error) {
	cfg := searchConfig{
		timeout:  n.timeout,
		interval: n.interval,
		match: entities.MatchOptions{
			Confidence: n.confidence,
			Grayscale:  n.grayscale,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timeout < 0 {
		return cfg, fmt.Errorf("%w: negative timeout %s", entities.ErrInvalidArgument, cfg.timeout)
	}
	if cfg.interval <= 0 {
		return cfg, fmt.Errorf("%w: poll interval must be positive, got %s", entities.ErrInvalidArgument, cfg.interval)
	}
	if cfg.match.Confidence <= 0 || cfg.match.Confidence > 1 {
		return cfg, fmt.Errorf("%w: confidence %v outside (0, 1]", entities.ErrInvalidArgument, cfg.match.Confidence)
	}
	return cfg, nil
}

// attemptFunc performs one lookup. It returns false with a nil error when
// nothing was found on this attempt.
type attemptFunc func(ctx context.Context) (bool, error)

// poll runs attempt until it succeeds or the timeout elapses. The last
// attempt happens at the deadline, so an exhausted search has always waited
// at least cfg.timeout.
func (n *Navigator) poll(ctx context.Context, target string, cfg searchConfig, attempt attemptFunc) (found bool, attempts int, elapsed time.Duration, err error) {
	start := n.clock.Now()
	deadline := start.Add(cfg.timeout)

	for {
		if err := ctx.Err(); err != nil {
			return false, attempts, n.clock.Now().Sub(start), err
		}

		attempts++
		ok, err := attempt(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, attempts, n.clock.Now().Sub(start), ctxErr
			}
			return false, attempts, n.clock.Now().Sub(start), &entities.SearchBackendError{Target: target, Err: err}
		}
		if ok {
			return true, attempts, n.clock.Now().Sub(start), nil
		}

		now := n.clock.Now()
		if !now.Before(deadline) {
			return false, attempts, now.Sub(start), nil
		}

		wait := cfg.interval
		if remaining := deadline.Sub(now); remaining < wait {
			wait = remaining
		}
		if err := n.clock.Sleep(ctx, wait); err != nil {
			return false, attempts, n.clock.Now().Sub(start), err
		}
	}
}

// Search polls for target until it is found or the wait budget runs out.
// Locator targets need a session, image targets need a screen.
func (n *Navigator) Search(ctx context.Context, sess *Session, target entities.SearchTarget, opts ...SearchOption) (SearchResult, error) {
	if err := target.Validate(); err != nil {
		return SearchResult{}, err
	}
	cfg, err := n.searchConfig(opts)
	if err != nil {
		return SearchResult{}, err
	}

	if target.Locator != nil {
		return n.searchElement(ctx, sess, target, cfg)
	}
	return n.searchImage(ctx, target, cfg)
}

func (n *Navigator) searchElement(ctx context.Context, sess *Session, target entities.SearchTarget, cfg searchConfig) (SearchResult, error) {
	d, err := sess.driver()
	if err != nil {
		return SearchResult{}, err
	}

	var result SearchResult
	loc := *target.Locator
	n.logger.Debugf("Searching element %s (timeout %s, interval %s)", loc, cfg.timeout, cfg.interval)

	found, attempts, elapsed, err := n.poll(ctx, loc.String(), cfg, func(ctx context.Context) (bool, error) {
		el, err := d.FindElement(ctx, loc.Kind, loc.Value)
		if err != nil {
			if errors.Is(err, entities.ErrNoSuchElement) {
				return false, nil
			}
			return false, err
		}
		if target.Clickable {
			ok, err := clickable(el)
			if err != nil || !ok {
				return false, err
			}
		}
		result.Element = el
		return true, nil
	})
	result.Found = found
	result.Attempts = attempts
	result.Elapsed = elapsed
	if err != nil {
		return SearchResult{Attempts: attempts, Elapsed: elapsed}, err
	}
	if !found {
		n.logger.Debugf("Element %s not found after %d attempts", loc, attempts)
	}
	return result, nil
}

// clickable mirrors the usual "element to be clickable" condition: displayed
// and enabled. A stale handle counts as not yet clickable.
func clickable(el interfaces.Element) (bool, error) {
	displayed, err := el.IsDisplayed()
	if err != nil {
		if errors.Is(err, entities.ErrNoSuchElement) {
			return false, nil
		}
		return false, err
	}
	if !displayed {
		return false, nil
	}
	enabled, err := el.IsEnabled()
	if err != nil {
		if errors.Is(err, entities.ErrNoSuchElement) {
			return false, nil
		}
		return false, err
	}
	return enabled, nil
}

func (n *Navigator) searchImage(ctx context.Context, target entities.SearchTarget, cfg searchConfig) (SearchResult, error) {
	if n.screen == nil || n.matcher == nil {
		return SearchResult{}, fmt.Errorf("%w: no screen configured for image search", entities.ErrPreconditionFailed)
	}

	needles, err := loadImages(target.Images)
	if err != nil {
		return SearchResult{}, &entities.SearchBackendError{Target: target.String(), Err: err}
	}

	var result SearchResult
	n.logger.Debugf("Searching %s on screen (timeout %s, confidence %.2f)", target, cfg.timeout, cfg.match.Confidence)

	found, attempts, elapsed, err := n.poll(ctx, target.String(), cfg, func(ctx context.Context) (bool, error) {
		haystack, err := n.screen.Capture(ctx)
		if err != nil {
			return false, err
		}
		for i, needle := range needles {
			if p, ok := n.matcher.Match(haystack, needle, cfg.match); ok {
				result.Point = p
				result.Image = target.Images[i]
				return true, nil
			}
		}
		return false, nil
	})
	result.Found = found
	result.Attempts = attempts
	result.Elapsed = elapsed
	if err != nil {
		return SearchResult{Attempts: attempts, Elapsed: elapsed}, err
	}
	return result, nil
}
