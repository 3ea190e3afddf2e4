package entities

import (
	"fmt"
	"sort"
)

// LogStream names a log stream captured by the driver
type LogStream string

const (
	LogStreamPerformance LogStream = "performance"
	LogStreamBrowser     LogStream = "browser"
)

// Capability option keys accepted in configuration
const (
	CapabilityPerformanceLogs = "performance_logs"
	CapabilityBrowserLogs     = "browser_logs"
)

// Capabilities records which log streams were enabled when the session was
// created. It is read-only once the session exists.
type Capabilities struct {
	PerformanceLogs bool `json:"performance_logs" yaml:"performance_logs"`
	BrowserLogs     bool `json:"browser_logs" yaml:"browser_logs"`
}

var capabilityKeys = map[string]func(*Capabilities, bool){
	CapabilityPerformanceLogs: func(c *Capabilities, v bool) { c.PerformanceLogs = v },
	CapabilityBrowserLogs:     func(c *Capabilities, v bool) { c.BrowserLogs = v },
}

// ParseCapabilities builds Capabilities from a raw option map
func ParseCapabilities(options map[string]bool) (Capabilities, error) {
	var caps Capabilities

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		set, ok := capabilityKeys[k]
		if !ok {
			return Capabilities{}, fmt.Errorf("%w: unknown capability option %q", ErrInvalidArgument, k)
		}
		set(&caps, options[k])
	}
	return caps, nil
}

// Enabled reports whether stream was enabled
func (c Capabilities) Enabled(stream LogStream) bool {
	switch stream {
	case LogStreamPerformance:
		return c.PerformanceLogs
	case LogStreamBrowser:
		return c.BrowserLogs
	}
	return false
}

// LoggingPrefs returns the value of the goog:loggingPrefs capability, or nil
// when no stream is enabled
func (c Capabilities) LoggingPrefs() map[string]string {
	if !c.PerformanceLogs && !c.BrowserLogs {
		return nil
	}
	prefs := map[string]string{}
	if c.PerformanceLogs {
		prefs[string(LogStreamPerformance)] = "ALL"
	}
	if c.BrowserLogs {
		prefs[string(LogStreamBrowser)] = "ALL"
	}
	return prefs
}
