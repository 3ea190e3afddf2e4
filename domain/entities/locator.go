package entities

import (
	"fmt"
	"strings"
)

// LocatorKind represents a strategy for finding an element on the page
type LocatorKind string

const (
	LocatorID              LocatorKind = "id"
	LocatorName            LocatorKind = "name"
	LocatorXPath           LocatorKind = "xpath"
	LocatorLinkText        LocatorKind = "link_text"
	LocatorPartialLinkText LocatorKind = "partial_link_text"
	LocatorTagName         LocatorKind = "tag_name"
	LocatorClassName       LocatorKind = "class_name"
	LocatorCSSSelector     LocatorKind = "css_selector"
)

var locatorKinds = map[string]LocatorKind{
	"id":                LocatorID,
	"name":              LocatorName,
	"xpath":             LocatorXPath,
	"link_text":         LocatorLinkText,
	"partial_link_text": LocatorPartialLinkText,
	"tag_name":          LocatorTagName,
	"class_name":        LocatorClassName,
	"css_selector":      LocatorCSSSelector,
}

// ParseLocatorKind - resolves a friendly locator name, case-insensitively
func ParseLocatorKind(s string) (LocatorKind, error) {
	kind, ok := locatorKinds[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: invalid locator type %q", ErrInvalidArgument, s)
	}
	return kind, nil
}

// Valid reports whether k belongs to the fixed set of locator kinds
func (k LocatorKind) Valid() bool {
	_, ok := locatorKinds[string(k)]
	return ok
}

// LocatorKinds returns all supported kinds in a stable order
func LocatorKinds() []LocatorKind {
	return []LocatorKind{
		LocatorID,
		LocatorName,
		LocatorXPath,
		LocatorLinkText,
		LocatorPartialLinkText,
		LocatorTagName,
		LocatorClassName,
		LocatorCSSSelector,
	}
}

// Locator is a (kind, value) pair describing a DOM element
type Locator struct {
	Kind  LocatorKind `json:"kind" yaml:"kind"`
	Value string      `json:"value" yaml:"value"`
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.Kind, l.Value)
}
