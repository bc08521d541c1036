package style

import "sort"

// PropertySet is a set of longhand property keys.
type PropertySet map[string]struct{}

// NewPropertySet creates a set from a list of keys.
func NewPropertySet(keys ...string) PropertySet {
	s := make(PropertySet, len(keys))
	s.Insert(keys...)
	return s
}

// Insert adds keys to the set.
func (s PropertySet) Insert(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Remove deletes keys from the set.
func (s PropertySet) Remove(keys ...string) {
	for _, k := range keys {
		delete(s, k)
	}
}

// Contains checks for membership of key.
func (s PropertySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Empty is true for the empty set.
func (s PropertySet) Empty() bool {
	return len(s) == 0
}

// Keys returns the members of the set in sorted order.
func (s PropertySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BackgroundProperties are the longhands examined when asking whether an
// author has styled the background of an element.
var BackgroundProperties = []string{
	"background-color",
	"background-image",
}

// BorderProperties are the longhands examined when asking whether an author
// has styled the border of an element.
var BorderProperties = []string{
	"border-top-color", "border-top-style", "border-top-width",
	"border-right-color", "border-right-style", "border-right-width",
	"border-bottom-color", "border-bottom-style", "border-bottom-width",
	"border-left-color", "border-left-style", "border-left-width",
	"border-top-left-radius", "border-top-right-radius",
	"border-bottom-right-radius", "border-bottom-left-radius",
	"border-inline-start-color", "border-inline-start-style", "border-inline-start-width",
	"border-inline-end-color", "border-inline-end-style", "border-inline-end-width",
	"border-block-start-color", "border-block-start-style", "border-block-start-width",
	"border-block-end-color", "border-block-end-style", "border-block-end-width",
}

// PaddingProperties are the longhands examined when asking whether an author
// has styled the padding of an element.
var PaddingProperties = []string{
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"padding-inline-start", "padding-inline-end",
	"padding-block-start", "padding-block-end",
}

var colorsDisabledIgnored = NewPropertySet(
	"color", "background-color", "outline-color", "text-decoration-color",
	"border-top-color", "border-right-color", "border-bottom-color", "border-left-color",
	"border-inline-start-color", "border-inline-end-color",
	"border-block-start-color", "border-block-end-color",
)

// IgnoredWhenColorsDisabled is true for color properties, which are reset to
// their defaults if the user has disallowed author colors.
func IgnoredWhenColorsDisabled(key string) bool {
	return colorsDisabledIgnored.Contains(key)
}
