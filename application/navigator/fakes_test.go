package navigator

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeClock advances only when Sleep is called
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

type fakeElement struct {
	name      string
	displayed bool
	enabled   bool
	clicks    int
	typed     string
}

func (e *fakeElement) Click() error {
	e.clicks++
	return nil
}

func (e *fakeElement) SendKeys(keys string) error {
	e.typed += keys
	return nil
}

func (e *fakeElement) Text() (string, error)      { return e.name, nil }
func (e *fakeElement) IsDisplayed() (bool, error) { return e.displayed, nil }
func (e *fakeElement) IsEnabled() (bool, error)   { return e.enabled, nil }

type scriptCall struct {
	script string
	args   []any
}

type fakeDriver struct {
	find      func(kind entities.LocatorKind, value string) (interfaces.Element, error)
	findCalls int

	logs     map[entities.LogStream][]entities.LogEntry
	logCalls int

	shot []byte

	script  func(script string, args []any) (any, error)
	scripts []scriptCall

	alert      func() error
	accepted   int
	dismissed  int
	frames     []interfaces.Element
	navigated  []string
	closeCalls int
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) FindElement(_ context.Context, kind entities.LocatorKind, value string) (interfaces.Element, error) {
	d.findCalls++
	if d.find == nil {
		return nil, entities.ErrNoSuchElement
	}
	return d.find(kind, value)
}

func (d *fakeDriver) SwitchFrame(_ context.Context, frame interfaces.Element) error {
	d.frames = append(d.frames, frame)
	return nil
}

func (d *fakeDriver) Logs(_ context.Context, stream entities.LogStream) ([]entities.LogEntry, error) {
	d.logCalls++
	return d.logs[stream], nil
}

func (d *fakeDriver) Screenshot(context.Context) ([]byte, error) {
	return d.shot, nil
}

func (d *fakeDriver) ExecuteScript(_ context.Context, script string, args []any) (any, error) {
	d.scripts = append(d.scripts, scriptCall{script: script, args: args})
	if d.script == nil {
		return nil, nil
	}
	return d.script(script, args)
}

func (d *fakeDriver) AcceptAlert(context.Context) error {
	if err := d.alertResult(); err != nil {
		return err
	}
	d.accepted++
	return nil
}

func (d *fakeDriver) DismissAlert(context.Context) error {
	if err := d.alertResult(); err != nil {
		return err
	}
	d.dismissed++
	return nil
}

func (d *fakeDriver) alertResult() error {
	if d.alert == nil {
		return entities.ErrNoAlert
	}
	return d.alert()
}

func (d *fakeDriver) Close() error {
	d.closeCalls++
	return nil
}

type fakeScreen struct {
	frame   image.Image
	err     error
	grabs   int
	clicked []entities.Point
	moved   []entities.Point
}

func (s *fakeScreen) Capture(context.Context) (image.Image, error) {
	s.grabs++
	if s.err != nil {
		return nil, s.err
	}
	return s.frame, nil
}

func (s *fakeScreen) Move(_ context.Context, p entities.Point) error {
	s.moved = append(s.moved, p)
	return nil
}

func (s *fakeScreen) Click(_ context.Context, p entities.Point) error {
	s.clicked = append(s.clicked, p)
	return nil
}

// fakeMatcher identifies needles by their width
type fakeMatcher struct {
	matches map[int]entities.Point
	tried   []int
}

func (m *fakeMatcher) Match(_, needle image.Image, _ entities.MatchOptions) (entities.Point, bool) {
	w := needle.Bounds().Dx()
	m.tried = append(m.tried, w)
	p, ok := m.matches[w]
	return p, ok
}

type memStore struct {
	data map[string]map[string]string
}

func (s *memStore) Save(origin string, items map[string]string) error {
	if s.data == nil {
		s.data = map[string]map[string]string{}
	}
	s.data[origin] = items
	return nil
}

func (s *memStore) Load(origin string) (map[string]string, error) {
	if items, ok := s.data[origin]; ok {
		return items, nil
	}
	return map[string]string{}, nil
}

func (s *memStore) Origins() ([]string, error) {
	origins := make([]string, 0, len(s.data))
	for o := range s.data {
		origins = append(origins, o)
	}
	return origins, nil
}

func newTestNavigator(clk clock, opts ...Option) *Navigator {
	return NewNavigator(quietLogger(), append([]Option{withClock(clk)}, opts...)...)
}
