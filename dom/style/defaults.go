package style

// initialValues holds the CSS initial values of properties the rule tree
// cares about. Values "default" have the following semantics:
// treat this as an inherent default, which is not instantiated in memory
// but handled implicitely by rendering code.
var initialValues = map[string]Property{
	"display":                    "inline",
	"position":                   "static",
	"float":                      "none",
	"visibility":                 "visible",
	"color":                      "default",
	"background-color":           "transparent",
	"background-image":           "none",
	"flow-from":                  "none",
	"flow-into":                  "none",
	"width":                      "auto",
	"height":                     "auto",
	"min-width":                  "none",
	"min-height":                 "none",
	"max-width":                  "none",
	"max-height":                 "none",
	"margin-top":                 "0",
	"margin-left":                "0",
	"margin-right":               "0",
	"margin-bottom":              "0",
	"padding-top":                "0",
	"padding-left":               "0",
	"padding-right":              "0",
	"padding-bottom":             "0",
	"border-top-color":           "currentcolor",
	"border-left-color":          "currentcolor",
	"border-right-color":         "currentcolor",
	"border-bottom-color":        "currentcolor",
	"border-top-style":           "none",
	"border-left-style":          "none",
	"border-right-style":         "none",
	"border-bottom-style":        "none",
	"border-top-width":           "medium",
	"border-left-width":          "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-top-left-radius":     "0",
	"border-top-right-radius":    "0",
	"border-bottom-left-radius":  "0",
	"border-bottom-right-radius": "0",
	"direction":                  "ltr",
	"white-space":                "normal",
	"word-spacing":               "normal",
	"letter-spacing":             "normal",
	"word-break":                 "normal",
	"overflow-wrap":              "normal",
}

// InitialValues creates a property map holding all initial values, plus
// additional (extension) properties. Extension properties do not overwrite
// known initial values.
func InitialValues(additionalProps ...KeyValue) *PropertyMap {
	pmap := NewPropertyMap()
	for key, value := range initialValues {
		pmap.Add(key, value)
	}
	for _, kv := range additionalProps {
		pmap.Add(kv.Key, kv.Value)
	}
	return pmap
}
