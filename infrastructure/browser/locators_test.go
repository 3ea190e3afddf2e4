package browser

import (
	"testing"

	"web_navigator/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

func TestLocatorTablesCoverEveryKind(t *testing.T) {
	for _, kind := range entities.LocatorKinds() {
		_, err := seleniumBy(kind)
		assert.NoError(t, err, kind)
		_, err = playwrightSelector(kind, "x")
		assert.NoError(t, err, kind)
	}
	assert.Len(t, seleniumLocators, len(entities.LocatorKinds()))
	assert.Len(t, playwrightLocators, len(entities.LocatorKinds()))

	_, err := seleniumBy("bogus")
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = playwrightSelector("bogus", "x")
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestSeleniumBy(t *testing.T) {
	by, err := seleniumBy(entities.LocatorPartialLinkText)
	require.NoError(t, err)
	assert.Equal(t, selenium.ByPartialLinkText, by)

	by, err = seleniumBy(entities.LocatorCSSSelector)
	require.NoError(t, err)
	assert.Equal(t, selenium.ByCSSSelector, by)
}

func TestPlaywrightSelector(t *testing.T) {
	tests := []struct {
		kind  entities.LocatorKind
		value string
		want  string
	}{
		{entities.LocatorID, "submit-btn", `css=[id="submit-btn"]`},
		{entities.LocatorName, "q", `css=[name="q"]`},
		{entities.LocatorXPath, "//div[@id='a']", "xpath=//div[@id='a']"},
		{entities.LocatorLinkText, "Sign in", `css=a:text-is("Sign in")`},
		{entities.LocatorPartialLinkText, "Sign", `css=a:has-text("Sign")`},
		{entities.LocatorTagName, "iframe", "css=iframe"},
		{entities.LocatorClassName, "btn", `css=[class~="btn"]`},
		{entities.LocatorCSSSelector, "div > a.btn", "css=div > a.btn"},
	}
	for _, tt := range tests {
		got, err := playwrightSelector(tt.kind, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.kind)
	}
}

func TestCSSString(t *testing.T) {
	assert.Equal(t, `"plain"`, cssString("plain"))
	assert.Equal(t, `"say \"hi\""`, cssString(`say "hi"`))
	assert.Equal(t, `"a\\b"`, cssString(`a\b`))
	assert.Equal(t, `"one\a two"`, cssString("one\ntwo"))
}
