package navigator

import (
	"context"
	"errors"
	"testing"
	"time"

	"web_navigator/domain/entities"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptAlertWaitsForAlert(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	nav := newTestNavigator(clk)
	drv := &fakeDriver{alert: func() error {
		if clk.Now().Sub(start) < 2*time.Second {
			return entities.ErrNoAlert
		}
		return nil
	}}

	ok, err := nav.AcceptAlert(context.Background(), NewSession(drv, entities.Capabilities{}))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, drv.accepted)
	assert.Zero(t, drv.dismissed)
	assert.Equal(t, 2*time.Second, clk.Now().Sub(start))
}

func TestDismissAlertAbsentIsNotAnError(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	logger, hook := logtest.NewNullLogger()
	nav := NewNavigator(logger, withClock(clk))
	drv := &fakeDriver{}

	ok, err := nav.DismissAlert(context.Background(), NewSession(drv, entities.Capabilities{}),
		WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, drv.dismissed)
	assert.Equal(t, 3*time.Second, clk.Now().Sub(start))

	var warnings []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings = append(warnings, e)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "No alert to dismiss")
}

func TestAcceptAlertHandledLogsNoWarning(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	nav := NewNavigator(logger, withClock(newFakeClock()))
	drv := &fakeDriver{alert: func() error { return nil }}

	ok, err := nav.AcceptAlert(context.Background(), NewSession(drv, entities.Capabilities{}))
	require.NoError(t, err)
	assert.True(t, ok)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
	}
}

func TestAlertBackendError(t *testing.T) {
	nav := newTestNavigator(newFakeClock())
	boom := errors.New("session deleted")
	drv := &fakeDriver{alert: func() error { return boom }}

	ok, err := nav.AcceptAlert(context.Background(), NewSession(drv, entities.Capabilities{}))
	assert.False(t, ok)
	assert.ErrorIs(t, err, entities.ErrBackend)
	assert.ErrorIs(t, err, boom)
}
