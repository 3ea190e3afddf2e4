package navigator

import (
	"context"
	"fmt"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultPollInterval = time.Second
	defaultConfidence   = 0.7
)

// Session pairs a driver with the capabilities it was created with.
// Capabilities must not change after the session is handed out.
type Session struct {
	Driver       interfaces.Driver
	Capabilities entities.Capabilities
}

// NewSession - wraps a driver created with caps
func NewSession(driver interfaces.Driver, caps entities.Capabilities) *Session {
	return &Session{Driver: driver, Capabilities: caps}
}

// Close - closes the underlying driver
func (s *Session) Close() error {
	if s == nil || s.Driver == nil {
		return nil
	}
	return s.Driver.Close()
}

func (s *Session) driver() (interfaces.Driver, error) {
	if s == nil || s.Driver == nil {
		return nil, fmt.Errorf("%w: nil session", entities.ErrInvalidArgument)
	}
	return s.Driver, nil
}

// Navigator is the façade over a browser session and the screen
type Navigator struct {
	logger  *logrus.Logger
	screen  interfaces.Screen
	matcher interfaces.ImageMatcher
	store   interfaces.LocalStorageStore
	clock   clock

	timeout    time.Duration
	interval   time.Duration
	confidence float64
	grayscale  bool
}

// Option configures a Navigator
type Option func(*Navigator)

// WithScreen enables on-screen image search
func WithScreen(screen interfaces.Screen, matcher interfaces.ImageMatcher) Option {
	return func(n *Navigator) {
		n.screen = screen
		n.matcher = matcher
	}
}

// WithLocalStorageStore enables saving and restoring localStorage snapshots
func WithLocalStorageStore(store interfaces.LocalStorageStore) Option {
	return func(n *Navigator) { n.store = store }
}

// WithDefaultWait sets the default search timeout and poll interval
func WithDefaultWait(timeout, interval time.Duration) Option {
	return func(n *Navigator) {
		if timeout > 0 {
			n.timeout = timeout
		}
		if interval > 0 {
			n.interval = interval
		}
	}
}

// WithImageMatching sets the default image confidence and grayscale mode
func WithImageMatching(confidence float64, grayscale bool) Option {
	return func(n *Navigator) {
		if confidence > 0 {
			n.confidence = confidence
		}
		n.grayscale = grayscale
	}
}

func withClock(c clock) Option {
	return func(n *Navigator) { n.clock = c }
}

// NewNavigator - creates new navigator instance
func NewNavigator(logger *logrus.Logger, opts ...Option) *Navigator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	n := &Navigator{
		logger:     logger,
		clock:      realClock{},
		timeout:    defaultTimeout,
		interval:   defaultPollInterval,
		confidence: defaultConfidence,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate - navigates the session to url
func (n *Navigator) Navigate(ctx context.Context, sess *Session, url string) error {
	d, err := sess.driver()
	if err != nil {
		return err
	}
	n.logger.Infof("Navigating to: %s", url)
	return d.Navigate(ctx, url)
}
