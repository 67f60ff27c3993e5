// Package fguser defines the User type that identifies who gates and configs are
// evaluated for, and the builder for constructing one.
package fguser
