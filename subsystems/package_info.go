// Package subsystems contains the interfaces for the pluggable components of the
// SDK: snapshot fetching, local persistence, environment metadata, and bootstrap
// data, plus the configuration types passed to component factories.
//
// Most applications will not need to refer to these types directly; the standard
// implementations are configured through the builders in the fgcomponents package.
package subsystems
