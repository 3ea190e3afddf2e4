package browser

import (
	"fmt"
	"strings"

	"web_navigator/domain/entities"

	"github.com/tebeka/selenium"
)

var seleniumLocators = map[entities.LocatorKind]string{
	entities.LocatorID:              selenium.ByID,
	entities.LocatorName:            selenium.ByName,
	entities.LocatorXPath:           selenium.ByXPATH,
	entities.LocatorLinkText:        selenium.ByLinkText,
	entities.LocatorPartialLinkText: selenium.ByPartialLinkText,
	entities.LocatorTagName:         selenium.ByTagName,
	entities.LocatorClassName:       selenium.ByClassName,
	entities.LocatorCSSSelector:     selenium.ByCSSSelector,
}

var playwrightLocators = map[entities.LocatorKind]func(string) string{
	entities.LocatorID:              func(v string) string { return "css=[id=" + cssString(v) + "]" },
	entities.LocatorName:            func(v string) string { return "css=[name=" + cssString(v) + "]" },
	entities.LocatorXPath:           func(v string) string { return "xpath=" + v },
	entities.LocatorLinkText:        func(v string) string { return "css=a:text-is(" + cssString(v) + ")" },
	entities.LocatorPartialLinkText: func(v string) string { return "css=a:has-text(" + cssString(v) + ")" },
	entities.LocatorTagName:         func(v string) string { return "css=" + v },
	entities.LocatorClassName:       func(v string) string { return "css=[class~=" + cssString(v) + "]" },
	entities.LocatorCSSSelector:     func(v string) string { return "css=" + v },
}

func seleniumBy(kind entities.LocatorKind) (string, error) {
	by, ok := seleniumLocators[kind]
	if !ok {
		return "", fmt.Errorf("%w: invalid locator type %q", entities.ErrInvalidArgument, kind)
	}
	return by, nil
}

func playwrightSelector(kind entities.LocatorKind, value string) (string, error) {
	build, ok := playwrightLocators[kind]
	if !ok {
		return "", fmt.Errorf("%w: invalid locator type %q", entities.ErrInvalidArgument, kind)
	}
	return build(value), nil
}

// cssString quotes v as a CSS string literal
func cssString(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(v) + `"`
}
