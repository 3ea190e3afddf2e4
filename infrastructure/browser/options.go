package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open
const (
	BackendSelenium   = "selenium"
	BackendPlaywright = "playwright"
)

const defaultDriverPort = 9515

// Options configures a driver before the browser starts
type Options struct {
	// DriverPath is the chromedriver executable (selenium backend only)
	DriverPath string

	// ChromeBinary overrides the browser executable
	ChromeBinary string

	// Port for the chromedriver service; 0 picks the default
	Port int

	Headless    bool
	UserDataDir string

	// Args are appended to the default browser flags
	Args []string

	Capabilities entities.Capabilities
}

var defaultArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-dev-shm-usage",
	"--disable-infobars",
	"--no-sandbox",
}

func (o Options) browserArgs() []string {
	args := append([]string{}, defaultArgs...)
	if o.Headless {
		args = append(args, "--headless=new")
	}
	if o.UserDataDir != "" {
		args = append(args, fmt.Sprintf("--user-data-dir=%s", o.UserDataDir))
	}
	return append(args, o.Args...)
}

// Open - starts the named backend
func Open(logger *logrus.Logger, backend string, opts Options) (interfaces.Driver, error) {
	switch strings.ToLower(backend) {
	case "", BackendSelenium:
		return NewSeleniumDriver(logger, opts)
	case BackendPlaywright:
		return NewPlaywrightDriver(logger, opts)
	default:
		return nil, fmt.Errorf("%w: unknown browser backend %q", entities.ErrInvalidArgument, backend)
	}
}

// executable is an install location probed when no path is configured: a
// list of absolute paths, then names looked up on PATH
type executable struct {
	paths []string
	names []string
}

var chromeDriverExecutable = executable{
	paths: []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
	},
	names: []string{"chromedriver"},
}

var chromeExecutable = executable{
	paths: []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	},
	names: []string{"google-chrome", "chromium", "chromium-browser"},
}

// locate returns the first existing candidate, or "" when none exists
func (e executable) locate() string {
	for _, path := range e.paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range e.names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// FindChromeDriver - finds ChromeDriver in the usual install locations
func FindChromeDriver() (string, error) {
	driver := chromeDriverExecutable
	if home, err := os.UserHomeDir(); err == nil {
		driver.paths = append(append([]string{}, driver.paths...), filepath.Join(home, "bin", "chromedriver"))
	}
	if path := driver.locate(); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: chromedriver not found, install it or set driver.path", entities.ErrInvalidArgument)
}

// FindChromeBinary - finds a Chrome/Chromium executable, "" when none is
// installed
func FindChromeBinary() string {
	return chromeExecutable.locate()
}

// resolve fills in the executables that were not configured and checks the
// driver exists. Configured paths (config file, env or flags) always win.
func (o Options) resolve() (Options, error) {
	if o.DriverPath == "" {
		path, err := FindChromeDriver()
		if err != nil {
			return o, err
		}
		o.DriverPath = path
	}
	if _, err := os.Stat(o.DriverPath); err != nil {
		return o, fmt.Errorf("%w: driver executable %q: %v", entities.ErrInvalidArgument, o.DriverPath, err)
	}
	if o.ChromeBinary == "" {
		o.ChromeBinary = FindChromeBinary()
	}
	return o, nil
}
