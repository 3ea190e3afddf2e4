package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// MethodRequestExtraInfo is the network event carrying the raw request
// headers, cookies included
const MethodRequestExtraInfo = "Network.requestWillBeSentExtraInfo"

// LogEntry is a single captured log record. Performance entries carry the
// decoded DevTools event in Method/Params, console entries only Raw.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Method    string         `json:"method,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Raw       string         `json:"raw"`
}

type performanceEnvelope struct {
	Message struct {
		Method string         `json:"method"`
		Params map[string]any `json:"params"`
	} `json:"message"`
	Webview string `json:"webview"`
}

// DecodePerformanceEntry parses the {"message":{"method":..,"params":..}}
// envelope chromedriver uses for performance log messages
func DecodePerformanceEntry(ts time.Time, level, raw string) (LogEntry, error) {
	var env performanceEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return LogEntry{}, fmt.Errorf("decode performance log message: %w", err)
	}
	return LogEntry{
		Timestamp: ts,
		Level:     level,
		Method:    env.Message.Method,
		Params:    env.Message.Params,
		Raw:       raw,
	}, nil
}

// EncodePerformanceMessage produces the envelope DecodePerformanceEntry
// reads. Backends that capture events themselves use it to keep entries
// shaped like chromedriver's.
func EncodePerformanceMessage(method string, params map[string]any) string {
	var env performanceEnvelope
	env.Message.Method = method
	env.Message.Params = params
	data, err := json.Marshal(env)
	if err != nil {
		return ""
	}
	return string(data)
}

// Headers returns params.headers with values rendered as strings
func (e LogEntry) Headers() map[string]string {
	raw, ok := e.Params["headers"].(map[string]any)
	if !ok {
		return map[string]string{}
	}
	headers := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			headers[k] = s
			continue
		}
		headers[k] = fmt.Sprint(v)
	}
	return headers
}

// HeaderFilter narrows network entries. Empty lists do not filter.
type HeaderFilter struct {
	// HeadersRequired must all be present as header names
	HeadersRequired []string `json:"headers_required,omitempty"`

	// KeysRequired must all be present as top-level params keys
	KeysRequired []string `json:"keys_required,omitempty"`

	// CookiesRequired must all be substrings of the Cookie header
	CookiesRequired []string `json:"cookies_required,omitempty"`
}
