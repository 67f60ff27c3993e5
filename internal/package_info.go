// Package internal contains SDK implementation details that are shared between
// internal packages, but are not exposed in the public API.
package internal
