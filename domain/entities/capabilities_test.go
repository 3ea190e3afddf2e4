package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapabilities(t *testing.T) {
	caps, err := ParseCapabilities(nil)
	require.NoError(t, err)
	assert.Equal(t, Capabilities{}, caps)
	assert.Nil(t, caps.LoggingPrefs())

	caps, err = ParseCapabilities(map[string]bool{
		CapabilityPerformanceLogs: true,
		CapabilityBrowserLogs:     false,
	})
	require.NoError(t, err)
	assert.True(t, caps.Enabled(LogStreamPerformance))
	assert.False(t, caps.Enabled(LogStreamBrowser))
	assert.False(t, caps.Enabled(LogStream("driver")))
	assert.Equal(t, map[string]string{"performance": "ALL"}, caps.LoggingPrefs())

	_, err = ParseCapabilities(map[string]bool{"performance_logs": true, "network": true})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLoggingPrefsBothStreams(t *testing.T) {
	caps := Capabilities{PerformanceLogs: true, BrowserLogs: true}
	assert.Equal(t, map[string]string{"performance": "ALL", "browser": "ALL"}, caps.LoggingPrefs())
}
