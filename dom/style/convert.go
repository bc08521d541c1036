package style

import (
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Color interprets a property value as a CSS color: named colors, hex
// notation, rgb(a), hsl(a) and 'transparent'. Values "default", NullStyle
// and values which are no colors return nil.
func (p Property) Color() color.Color {
	if p == "default" || p.IsEmpty() {
		return nil
	}
	c, err := csscolorparser.Parse(strings.TrimSpace(string(p)))
	if err != nil {
		tracer().Debugf("not a color: %q", p)
		return nil
	}
	return c
}
