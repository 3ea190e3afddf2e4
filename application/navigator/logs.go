package navigator

import (
	"context"
	"fmt"
	"strings"

	"web_navigator/domain/entities"
)

func (n *Navigator) logs(ctx context.Context, sess *Session, stream entities.LogStream) ([]entities.LogEntry, error) {
	d, err := sess.driver()
	if err != nil {
		return nil, err
	}
	if !sess.Capabilities.Enabled(stream) {
		return nil, fmt.Errorf("%w: %s logs were not enabled when the driver was created", entities.ErrPreconditionFailed, stream)
	}
	entries, err := d.Logs(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("read %s logs: %w", stream, err)
	}
	n.logger.Debugf("Read %d %s log entries", len(entries), stream)
	return entries, nil
}

// GetHeaders - returns the request headers of the first captured
// requestWillBeSentExtraInfo event matching filter
func (n *Navigator) GetHeaders(ctx context.Context, sess *Session, filter entities.HeaderFilter) (map[string]string, bool, error) {
	entries, err := n.logs(ctx, sess, entities.LogStreamPerformance)
	if err != nil {
		return nil, false, err
	}
	headers, ok := FilterHeaders(entries, filter)
	return headers, ok, nil
}

// NetworkEntries - returns every captured requestWillBeSentExtraInfo event
// matching filter
func (n *Navigator) NetworkEntries(ctx context.Context, sess *Session, filter entities.HeaderFilter) ([]entities.LogEntry, error) {
	entries, err := n.logs(ctx, sess, entities.LogStreamPerformance)
	if err != nil {
		return nil, err
	}
	matched := make([]entities.LogEntry, 0, len(entries))
	for _, e := range entries {
		if MatchNetworkEntry(e, filter) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// PerformanceLogs - returns all captured performance entries
func (n *Navigator) PerformanceLogs(ctx context.Context, sess *Session) ([]entities.LogEntry, error) {
	return n.logs(ctx, sess, entities.LogStreamPerformance)
}

// BrowserLogs - returns captured console entries
func (n *Navigator) BrowserLogs(ctx context.Context, sess *Session) ([]entities.LogEntry, error) {
	return n.logs(ctx, sess, entities.LogStreamBrowser)
}

// FilterHeaders returns the headers of the first entry MatchNetworkEntry
// accepts
func FilterHeaders(entries []entities.LogEntry, filter entities.HeaderFilter) (map[string]string, bool) {
	for _, e := range entries {
		if MatchNetworkEntry(e, filter) {
			return e.Headers(), true
		}
	}
	return nil, false
}

// MatchNetworkEntry reports whether e is a requestWillBeSentExtraInfo event
// whose params hold every required key, whose headers hold every required
// header and whose Cookie header contains every required cookie fragment
func MatchNetworkEntry(e entities.LogEntry, filter entities.HeaderFilter) bool {
	if e.Method != entities.MethodRequestExtraInfo {
		return false
	}
	for _, key := range filter.KeysRequired {
		if _, ok := e.Params[key]; !ok {
			return false
		}
	}

	headers := e.Headers()
	for _, h := range filter.HeadersRequired {
		if _, ok := headers[h]; !ok {
			return false
		}
	}

	cookies := headers["Cookie"]
	for _, c := range filter.CookiesRequired {
		if !strings.Contains(cookies, c) {
			return false
		}
	}
	return true
}
