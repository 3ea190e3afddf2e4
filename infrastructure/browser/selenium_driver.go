package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	slog "github.com/tebeka/selenium/log"
)

type SeleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// seleniumElement maps element errors onto the domain errors
type seleniumElement struct {
	we selenium.WebElement
}

func (e seleniumElement) Click() error {
	return mapSeleniumError(e.we.Click())
}

func (e seleniumElement) SendKeys(keys string) error {
	return mapSeleniumError(e.we.SendKeys(keys))
}

func (e seleniumElement) Text() (string, error) {
	s, err := e.we.Text()
	return s, mapSeleniumError(err)
}

func (e seleniumElement) IsDisplayed() (bool, error) {
	ok, err := e.we.IsDisplayed()
	return ok, mapSeleniumError(err)
}

func (e seleniumElement) IsEnabled() (bool, error) {
	ok, err := e.we.IsEnabled()
	return ok, mapSeleniumError(err)
}

// NewSeleniumDriver - starts chromedriver from opts.DriverPath and opens a
// Chrome session with the requested log capture
func NewSeleniumDriver(logger *logrus.Logger, opts Options) (*SeleniumDriver, error) {
	opts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	logger.Infof("Using ChromeDriver at: %s", opts.DriverPath)
	if opts.ChromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", opts.ChromeBinary)
	}

	port := opts.Port
	if port == 0 {
		port = defaultDriverPort
	}

	service, err := selenium.NewChromeDriverService(opts.DriverPath, port)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start chromedriver: %v", entities.ErrBackend, err)
	}

	caps := seleniumCapabilities(opts)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("%w: Chrome browser not found, install Google Chrome or set CHROME_BINARY_PATH: %v", entities.ErrBackend, err)
		}
		return nil, fmt.Errorf("%w: failed to create webdriver: %v", entities.ErrBackend, err)
	}

	logger.WithFields(logrus.Fields{
		"performance_logs": opts.Capabilities.PerformanceLogs,
		"browser_logs":     opts.Capabilities.BrowserLogs,
		"headless":         opts.Headless,
	}).Info("Selenium session started")

	return &SeleniumDriver{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

func seleniumCapabilities(opts Options) selenium.Capabilities {
	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: opts.browserArgs(),
	}
	if opts.ChromeBinary != "" {
		chromeCaps.Path = opts.ChromeBinary
	}
	caps.AddChrome(chromeCaps)

	if prefs := opts.Capabilities.LoggingPrefs(); prefs != nil {
		caps["goog:loggingPrefs"] = prefs
	}
	return caps
}

// Navigate - navigates browser to specified URL
func (s *SeleniumDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.Get(url))
}

// FindElement - single lookup in the current frame
func (s *SeleniumDriver) FindElement(ctx context.Context, kind entities.LocatorKind, value string) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	by, err := seleniumBy(kind)
	if err != nil {
		return nil, err
	}

	we, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, mapSeleniumError(err)
	}
	return seleniumElement{we: we}, nil
}

// SwitchFrame - switches into an iframe element, or to the top document
func (s *SeleniumDriver) SwitchFrame(ctx context.Context, frame interfaces.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if frame == nil {
		return mapSeleniumError(s.wd.SwitchFrame(nil))
	}
	el, ok := frame.(seleniumElement)
	if !ok {
		return fmt.Errorf("%w: frame element %T does not belong to this driver", entities.ErrInvalidArgument, frame)
	}
	return mapSeleniumError(s.wd.SwitchFrame(el.we))
}

// Logs - reads the entries captured since the previous call
func (s *SeleniumDriver) Logs(ctx context.Context, stream entities.LogStream) ([]entities.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages, err := s.wd.Log(slog.Type(stream))
	if err != nil {
		return nil, mapSeleniumError(err)
	}

	entries := make([]entities.LogEntry, 0, len(messages))
	for _, m := range messages {
		if stream != entities.LogStreamPerformance {
			entries = append(entries, entities.LogEntry{
				Timestamp: m.Timestamp,
				Level:     string(m.Level),
				Raw:       m.Message,
			})
			continue
		}

		entry, err := entities.DecodePerformanceEntry(m.Timestamp, string(m.Level), m.Message)
		if err != nil {
			s.logger.Debugf("Skipping undecodable performance entry: %v", err)
			entry = entities.LogEntry{Timestamp: m.Timestamp, Level: string(m.Level), Raw: m.Message}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Screenshot - takes screenshot of current page
func (s *SeleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.wd.Screenshot()
	return data, mapSeleniumError(err)
}

// ExecuteScript - runs a script body; elements in args are passed by reference
func (s *SeleniumDriver) ExecuteScript(ctx context.Context, script string, args []any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(seleniumElement); ok {
			raw[i] = el.we
			continue
		}
		raw[i] = a
	}
	res, err := s.wd.ExecuteScript(script, raw)
	return res, mapSeleniumError(err)
}

// AcceptAlert - accepts the open alert
func (s *SeleniumDriver) AcceptAlert(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.AcceptAlert())
}

// DismissAlert - dismisses the open alert
func (s *SeleniumDriver) DismissAlert(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.DismissAlert())
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumDriver) Close() error {
	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var seleniumErrorCodes = map[string]error{
	"no such element":         entities.ErrNoSuchElement,
	"stale element reference": entities.ErrNoSuchElement,
	"no such alert":           entities.ErrNoAlert,
	"no such frame":           entities.ErrNoSuchElement,
	"invalid selector":        entities.ErrInvalidArgument,
	"invalid argument":        entities.ErrInvalidArgument,
}

// mapSeleniumError translates W3C error codes into domain errors
func mapSeleniumError(err error) error {
	if err == nil {
		return nil
	}

	code := ""
	var se *selenium.Error
	if errors.As(err, &se) {
		code = se.Err
	}
	if target, ok := seleniumErrorCodes[code]; ok {
		return fmt.Errorf("%w: %v", target, err)
	}

	msg := strings.ToLower(err.Error())
	for c, target := range seleniumErrorCodes {
		if strings.Contains(msg, c) {
			return fmt.Errorf("%w: %v", target, err)
		}
	}
	return fmt.Errorf("%w: %v", entities.ErrBackend, err)
}

// Ensure SeleniumDriver implements Driver interface
var _ interfaces.Driver = (*SeleniumDriver)(nil)
