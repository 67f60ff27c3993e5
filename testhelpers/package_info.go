// Package testhelpers contains types and functions that may be useful in testing
// SDK functionality or custom integrations.
//
// Its fgservices subpackage provides HTTP handlers that simulate the evaluation
// service, for use with httptest servers.
//
// Anything that is only for the SDK's own tests lives in internal/sharedtest
// instead.
package testhelpers
