package fgcomponents

import "strings"

// DefaultEvaluationBaseURI is the base URI of the production evaluation service.
const DefaultEvaluationBaseURI = "https://api.featuregate.io"

// selectBaseURI applies the precedence order for the evaluation base URI:
// a builder-level override wins over Config.ServiceEndpoints, which wins over the
// production default.
func selectBaseURI(endpointsValue, overrideValue string) string {
	uri := DefaultEvaluationBaseURI
	if endpointsValue != "" {
		uri = endpointsValue
	}
	if overrideValue != "" {
		uri = overrideValue
	}
	return strings.TrimRight(uri, "/")
}
