// Package environment implements the standard environment metadata provider,
// including stable device ID persistence.
package environment
