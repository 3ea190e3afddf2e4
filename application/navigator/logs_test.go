package navigator

import (
	"context"
	"testing"

	"web_navigator/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extraInfo(params map[string]any) entities.LogEntry {
	return entities.LogEntry{Method: entities.MethodRequestExtraInfo, Params: params}
}

func TestGetHeadersEmptyFilter(t *testing.T) {
	drv := &fakeDriver{logs: map[entities.LogStream][]entities.LogEntry{
		entities.LogStreamPerformance: {
			extraInfo(map[string]any{"headers": map[string]any{"Cookie": "a=1"}}),
		},
	}}
	sess := NewSession(drv, entities.Capabilities{PerformanceLogs: true})
	nav := newTestNavigator(newFakeClock())

	headers, ok, err := nav.GetHeaders(context.Background(), sess, entities.HeaderFilter{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"Cookie": "a=1"}, headers)
}

func TestGetHeadersRequiresPerformanceLogs(t *testing.T) {
	drv := &fakeDriver{}
	sess := NewSession(drv, entities.Capabilities{BrowserLogs: true})
	nav := newTestNavigator(newFakeClock())

	_, _, err := nav.GetHeaders(context.Background(), sess, entities.HeaderFilter{})
	assert.ErrorIs(t, err, entities.ErrPreconditionFailed)

	_, err = nav.NetworkEntries(context.Background(), sess, entities.HeaderFilter{})
	assert.ErrorIs(t, err, entities.ErrPreconditionFailed)

	_, err = nav.PerformanceLogs(context.Background(), sess)
	assert.ErrorIs(t, err, entities.ErrPreconditionFailed)

	assert.Zero(t, drv.logCalls)
}

func TestBrowserLogsRequiresBrowserLogs(t *testing.T) {
	drv := &fakeDriver{logs: map[entities.LogStream][]entities.LogEntry{
		entities.LogStreamBrowser: {{Level: "SEVERE", Raw: "boom"}},
	}}
	nav := newTestNavigator(newFakeClock())

	_, err := nav.BrowserLogs(context.Background(), NewSession(drv, entities.Capabilities{PerformanceLogs: true}))
	assert.ErrorIs(t, err, entities.ErrPreconditionFailed)
	assert.Zero(t, drv.logCalls)

	entries, err := nav.BrowserLogs(context.Background(), NewSession(drv, entities.Capabilities{BrowserLogs: true}))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Raw)
	assert.Equal(t, 1, drv.logCalls)
}

func TestFilterHeaders(t *testing.T) {
	entries := []entities.LogEntry{
		{Method: "Network.requestWillBeSent", Params: map[string]any{"headers": map[string]any{"Authorization": "x"}}},
		extraInfo(map[string]any{"headers": map[string]any{"Accept": "*/*"}}),
		extraInfo(map[string]any{
			"requestId": "7",
			"headers":   map[string]any{"Authorization": "Bearer t", "Cookie": "sid=42; theme=dark"},
		}),
		extraInfo(map[string]any{
			"requestId":         "8",
			"associatedCookies": []any{},
			"headers":           map[string]any{"Authorization": "Bearer u", "Cookie": "sid=43", "X-Retry": 2},
		}),
	}

	tests := []struct {
		name   string
		filter entities.HeaderFilter
		want   map[string]string
		ok     bool
	}{
		{
			name:   "first extra info entry wins without filters",
			filter: entities.HeaderFilter{},
			want:   map[string]string{"Accept": "*/*"},
			ok:     true,
		},
		{
			name:   "required header",
			filter: entities.HeaderFilter{HeadersRequired: []string{"Authorization"}},
			want:   map[string]string{"Authorization": "Bearer t", "Cookie": "sid=42; theme=dark"},
			ok:     true,
		},
		{
			name:   "required params key",
			filter: entities.HeaderFilter{KeysRequired: []string{"associatedCookies"}},
			want:   map[string]string{"Authorization": "Bearer u", "Cookie": "sid=43", "X-Retry": "2"},
			ok:     true,
		},
		{
			name:   "required cookies",
			filter: entities.HeaderFilter{CookiesRequired: []string{"sid=43"}},
			want:   map[string]string{"Authorization": "Bearer u", "Cookie": "sid=43", "X-Retry": "2"},
			ok:     true,
		},
		{
			name:   "all cookie fragments must match",
			filter: entities.HeaderFilter{CookiesRequired: []string{"sid=42", "theme=light"}},
			ok:     false,
		},
		{
			name:   "missing header",
			filter: entities.HeaderFilter{HeadersRequired: []string{"X-Csrf-Token"}},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FilterHeaders(entries, tt.filter)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}

			again, okAgain := FilterHeaders(entries, tt.filter)
			assert.Equal(t, ok, okAgain)
			assert.Equal(t, got, again)
		})
	}
}

func TestNetworkEntriesReturnsAllMatches(t *testing.T) {
	drv := &fakeDriver{logs: map[entities.LogStream][]entities.LogEntry{
		entities.LogStreamPerformance: {
			extraInfo(map[string]any{"headers": map[string]any{"Cookie": "a=1"}}),
			{Method: "Page.loadEventFired"},
			extraInfo(map[string]any{"headers": map[string]any{"Cookie": "a=1; b=2"}}),
			extraInfo(map[string]any{"headers": map[string]any{}}),
		},
	}}
	nav := newTestNavigator(newFakeClock())

	entries, err := nav.NetworkEntries(context.Background(),
		NewSession(drv, entities.Capabilities{PerformanceLogs: true}),
		entities.HeaderFilter{CookiesRequired: []string{"a=1"}})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
