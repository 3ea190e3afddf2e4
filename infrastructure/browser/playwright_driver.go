package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

const pendingDialogs = 8

type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
	caps    entities.Capabilities

	frameMu sync.Mutex
	frame   playwright.Frame

	logsMu      sync.Mutex
	seq         int
	pending     int
	performance []sequencedEntry
	console     []entities.LogEntry

	dialogs chan playwright.Dialog
}

// captureWait bounds how long Logs waits for in-flight header captures
const captureWait = 2 * time.Second

type sequencedEntry struct {
	seq   int
	entry entities.LogEntry
}

// playwrightElement adapts an element handle to interfaces.Element
type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e playwrightElement) Click() error {
	return mapPlaywrightError(e.handle.Click())
}

func (e playwrightElement) SendKeys(keys string) error {
	return mapPlaywrightError(e.handle.Type(keys))
}

func (e playwrightElement) Text() (string, error) {
	s, err := e.handle.InnerText()
	return s, mapPlaywrightError(err)
}

func (e playwrightElement) IsDisplayed() (bool, error) {
	ok, err := e.handle.IsVisible()
	return ok, mapPlaywrightError(err)
}

func (e playwrightElement) IsEnabled() (bool, error) {
	ok, err := e.handle.IsEnabled()
	return ok, mapPlaywrightError(err)
}

// NewPlaywrightDriver - launches Chromium through playwright. Network and
// console capture are wired only for the capabilities that are enabled.
func NewPlaywrightDriver(logger *logrus.Logger, opts Options) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start playwright: %v", entities.ErrBackend, err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.browserArgs(),
	}
	if opts.ChromeBinary != "" {
		launch.ExecutablePath = playwright.String(opts.ChromeBinary)
		logger.Infof("Using Chrome binary at: %s", opts.ChromeBinary)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("%w: failed to launch browser: %v", entities.ErrBackend, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("%w: failed to create context: %v", entities.ErrBackend, err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("%w: failed to create page: %v", entities.ErrBackend, err)
	}

	d := &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		logger:  logger,
		caps:    opts.Capabilities,
		frame:   page.MainFrame(),
		dialogs: make(chan playwright.Dialog, pendingDialogs),
	}

	page.OnDialog(d.onDialog)
	if opts.Capabilities.PerformanceLogs {
		page.OnRequest(d.onRequest)
	}
	if opts.Capabilities.BrowserLogs {
		page.OnConsole(d.onConsole)
	}

	logger.WithFields(logrus.Fields{
		"performance_logs": opts.Capabilities.PerformanceLogs,
		"browser_logs":     opts.Capabilities.BrowserLogs,
		"headless":         opts.Headless,
	}).Info("Playwright session started")

	return d, nil
}

func (p *PlaywrightDriver) onDialog(dialog playwright.Dialog) {
	select {
	case p.dialogs <- dialog:
		p.logger.Debugf("Dialog opened: %s %q", dialog.Type(), dialog.Message())
	default:
		p.logger.Warnf("Too many pending dialogs, dismissing %q", dialog.Message())
		dialog.Dismiss()
	}
}

// onRequest records the request headers in the shape chromedriver uses for
// Network.requestWillBeSentExtraInfo
func (p *PlaywrightDriver) onRequest(req playwright.Request) {
	p.captureRequest(req.URL(), req.AllHeaders, req.Headers)
}

// captureRequest reads the headers off the event goroutine, since AllHeaders
// talks to the browser. Logs waits for captures still in flight.
func (p *PlaywrightDriver) captureRequest(url string, all func() (map[string]string, error), basic func() map[string]string) {
	p.logsMu.Lock()
	p.seq++
	p.pending++
	seq := p.seq
	p.logsMu.Unlock()

	ts := time.Now()
	go func() {
		defer func() {
			p.logsMu.Lock()
			p.pending--
			p.logsMu.Unlock()
		}()

		headers, err := all()
		if err != nil {
			p.logger.Debugf("Failed to read headers of %s: %v", url, err)
			headers = basic()
		}

		params := map[string]any{
			"requestId": fmt.Sprintf("pw-%d", seq),
			"headers":   canonicalHeaders(headers),
		}
		raw := entities.EncodePerformanceMessage(entities.MethodRequestExtraInfo, params)
		entry, err := entities.DecodePerformanceEntry(ts, "INFO", raw)
		if err != nil {
			return
		}

		p.logsMu.Lock()
		p.performance = append(p.performance, sequencedEntry{seq: seq, entry: entry})
		p.logsMu.Unlock()
	}()
}

// waitCaptures blocks until no header capture is in flight, at most
// captureWait
func (p *PlaywrightDriver) waitCaptures(ctx context.Context) {
	deadline := time.Now().Add(captureWait)
	for {
		p.logsMu.Lock()
		pending := p.pending
		p.logsMu.Unlock()
		if pending == 0 {
			return
		}
		if time.Now().After(deadline) {
			p.logger.Debugf("Reading logs with %d header captures still pending", pending)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (p *PlaywrightDriver) onConsole(msg playwright.ConsoleMessage) {
	entry := entities.LogEntry{
		Timestamp: time.Now(),
		Level:     consoleLevel(msg.Type()),
		Raw:       msg.Text(),
	}
	p.logsMu.Lock()
	p.console = append(p.console, entry)
	p.logsMu.Unlock()
}

// canonicalHeaders restores the casing chromedriver reports for the headers
// filters usually look at; playwright lower-cases every name
func canonicalHeaders(headers map[string]string) map[string]any {
	out := make(map[string]any, len(headers))
	for k, v := range headers {
		out[canonicalHeaderName(k)] = v
	}
	return out
}

func canonicalHeaderName(name string) string {
	if strings.HasPrefix(name, ":") {
		return name
	}
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "-")
}

func consoleLevel(typ string) string {
	switch typ {
	case "error":
		return "SEVERE"
	case "warning":
		return "WARNING"
	case "debug":
		return "DEBUG"
	default:
		return "INFO"
	}
}

func (p *PlaywrightDriver) currentFrame() playwright.Frame {
	p.frameMu.Lock()
	defer p.frameMu.Unlock()
	return p.frame
}

// Navigate - navigates to the specified URL and resets the current frame
func (p *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return mapPlaywrightError(err)
	}

	p.frameMu.Lock()
	p.frame = p.page.MainFrame()
	p.frameMu.Unlock()
	return nil
}

// FindElement - single lookup in the current frame
func (p *PlaywrightDriver) FindElement(ctx context.Context, kind entities.LocatorKind, value string) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selector, err := playwrightSelector(kind, value)
	if err != nil {
		return nil, err
	}

	handle, err := p.currentFrame().QuerySelector(selector)
	if err != nil {
		return nil, mapPlaywrightError(err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, selector)
	}
	return playwrightElement{handle: handle}, nil
}

// SwitchFrame - makes the content frame of an iframe element current, or
// the main frame when frame is nil
func (p *PlaywrightDriver) SwitchFrame(ctx context.Context, frame interfaces.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if frame == nil {
		p.frameMu.Lock()
		p.frame = p.page.MainFrame()
		p.frameMu.Unlock()
		return nil
	}

	el, ok := frame.(playwrightElement)
	if !ok {
		return fmt.Errorf("%w: frame element %T does not belong to this driver", entities.ErrInvalidArgument, frame)
	}
	content, err := el.handle.ContentFrame()
	if err != nil {
		return mapPlaywrightError(err)
	}
	if content == nil {
		return fmt.Errorf("%w: element is not an iframe", entities.ErrInvalidArgument)
	}

	p.frameMu.Lock()
	p.frame = content
	p.frameMu.Unlock()
	return nil
}

// Logs - drains the entries captured since the previous call
func (p *PlaywrightDriver) Logs(ctx context.Context, stream entities.LogStream) ([]entities.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.caps.Enabled(stream) {
		return nil, fmt.Errorf("%w: %s capture is off", entities.ErrPreconditionFailed, stream)
	}
	if stream == entities.LogStreamPerformance {
		p.waitCaptures(ctx)
	}

	p.logsMu.Lock()
	defer p.logsMu.Unlock()

	switch stream {
	case entities.LogStreamPerformance:
		captured := p.performance
		p.performance = nil
		sort.Slice(captured, func(i, j int) bool { return captured[i].seq < captured[j].seq })
		entries := make([]entities.LogEntry, len(captured))
		for i, c := range captured {
			entries[i] = c.entry
		}
		return entries, nil
	case entities.LogStreamBrowser:
		entries := p.console
		p.console = nil
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: unknown log stream %q", entities.ErrInvalidArgument, stream)
	}
}

// Screenshot - takes screenshot of the viewport
func (p *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	return data, mapPlaywrightError(err)
}

// ExecuteScript - runs a script body in the current frame with args bound
// to arguments[i]
func (p *PlaywrightDriver) ExecuteScript(ctx context.Context, script string, args []any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(playwrightElement); ok {
			raw[i] = el.handle
			continue
		}
		raw[i] = a
	}

	expression := "(args) => (function() {\n" + script + "\n}).apply(null, args)"
	res, err := p.currentFrame().Evaluate(expression, raw)
	return res, mapPlaywrightError(err)
}

func (p *PlaywrightDriver) nextDialog() (playwright.Dialog, error) {
	select {
	case dialog := <-p.dialogs:
		return dialog, nil
	default:
		return nil, entities.ErrNoAlert
	}
}

// AcceptAlert - accepts the oldest pending dialog
func (p *PlaywrightDriver) AcceptAlert(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dialog, err := p.nextDialog()
	if err != nil {
		return err
	}
	return mapPlaywrightError(dialog.Accept())
}

// DismissAlert - dismisses the oldest pending dialog
func (p *PlaywrightDriver) DismissAlert(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dialog, err := p.nextDialog()
	if err != nil {
		return err
	}
	return mapPlaywrightError(dialog.Dismiss())
}

// Close - closes the browser and stops playwright
func (p *PlaywrightDriver) Close() error {
	var errs []error
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func mapPlaywrightError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"),
		strings.Contains(msg, "Element is not attached"):
		return fmt.Errorf("%w: %v", entities.ErrNoSuchElement, err)
	case strings.Contains(msg, "Unexpected token"),
		strings.Contains(msg, "is not a valid selector"):
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}
	return fmt.Errorf("%w: %v", entities.ErrBackend, err)
}

// Ensure PlaywrightDriver implements Driver interface
var _ interfaces.Driver = (*PlaywrightDriver)(nil)
