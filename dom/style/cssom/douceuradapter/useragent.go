package douceuradapter

import (
	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/ruletree"
)

// DefaultUserAgentCSS is a minimal user-agent stylesheet.
const DefaultUserAgentCSS = `
html, body, div, section, aside, article, header, footer, nav, main,
h1, h2, h3, h4, h5, h6, ol, ul, p, blockquote, pre, form, fieldset { display: block }
head, style, script, title, meta, link { display: none }
li { display: list-item }
span, i, b, em, strong, a, code, label { display: inline }
body { margin: 8px }
p, blockquote, ul, ol { margin-top: 1em; margin-bottom: 1em }
ul, ol { padding-inline-start: 40px }
h1 { margin-top: 0.67em; margin-bottom: 0.67em }
h2 { margin-top: 0.83em; margin-bottom: 0.83em }
table { border-color: gray }
td, th { padding: 1px }
button, input, select, textarea {
  padding: 1px 6px;
  border-top-width: 2px; border-right-width: 2px; border-bottom-width: 2px; border-left-width: 2px;
  border-top-style: outset; border-right-style: outset; border-bottom-style: outset; border-left-style: outset;
  background-color: buttonface
}
fieldset, legend { border-color: inherit }
::backdrop { background-color: rgba(0, 0, 0, 0.1) }
`

// UserAgentStyles parses css as the user-agent stylesheet. If css is empty,
// DefaultUserAgentCSS is used.
func UserAgentStyles(css string, lock *style.SharedLock) (*CSSStyles, error) {
	if css == "" {
		css = DefaultUserAgentCSS
	}
	return Parse(css, ruletree.OriginUserAgent, lock)
}
