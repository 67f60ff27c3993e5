package subsystems

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// ClientContext provides context information from FGClient when creating other
// components.
//
// This is passed as a parameter to the Build methods of ComponentConfigurer
// implementations for SnapshotFetcher, PersistentStore, etc. The SDK's own
// implementation may carry additional private properties; for test purposes you can
// use the simple struct type BasicClientContext.
type ClientContext interface {
	// GetSDKKey returns the configured SDK key.
	GetSDKKey() string

	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration

	// GetLogging returns the configured LoggingConfiguration.
	GetLogging() LoggingConfiguration

	// GetOffline returns true if the client was configured to be completely offline.
	GetOffline() bool

	// GetServiceEndpoints returns the configuration for service URIs.
	GetServiceEndpoints() ServiceEndpoints

	// GetEnvironmentProvider returns the component supplying device/environment
	// metadata for request payloads.
	//
	// This component is only available when the SDK is creating a SnapshotFetcher.
	// Otherwise the method returns nil.
	GetEnvironmentProvider() EnvironmentProvider
}

// BasicClientContext is the basic implementation of the ClientContext interface, not
// including any private fields that the SDK may use for implementation details.
type BasicClientContext struct {
	SDKKey              string
	HTTP                HTTPConfiguration
	Logging             LoggingConfiguration
	Offline             bool
	ServiceEndpoints    ServiceEndpoints
	EnvironmentProvider EnvironmentProvider
}

func (b BasicClientContext) GetSDKKey() string { return b.SDKKey } //nolint:revive

func (b BasicClientContext) GetHTTP() HTTPConfiguration { //nolint:revive
	ret := b.HTTP
	if ret.CreateHTTPClient == nil {
		ret.CreateHTTPClient = func() *http.Client {
			client := *http.DefaultClient
			return &client
		}
	}
	return ret
}

func (b BasicClientContext) GetLogging() LoggingConfiguration { return b.Logging } //nolint:revive

func (b BasicClientContext) GetOffline() bool { return b.Offline } //nolint:revive

func (b BasicClientContext) GetServiceEndpoints() ServiceEndpoints { //nolint:revive
	return b.ServiceEndpoints
}

func (b BasicClientContext) GetEnvironmentProvider() EnvironmentProvider { //nolint:revive
	return b.EnvironmentProvider
}

// HTTPConfiguration is the component type that defines the SDK's networking
// behavior.
type HTTPConfiguration struct {
	// DefaultHeaders are request headers that should be included in every HTTP
	// request made by SDK components. These include Authorization and User-Agent.
	DefaultHeaders http.Header

	// CreateHTTPClient is a function that returns a new HTTP client instance based
	// on the configuration.
	CreateHTTPClient func() *http.Client
}

// LoggingConfiguration is the component type that defines the SDK's logging
// behavior.
type LoggingConfiguration struct {
	// Loggers is the ldlog.Loggers instance the SDK writes all log output to.
	Loggers ldlog.Loggers

	// LogUserKeysInErrors is true if error log messages may include the user key.
	// By default they do not, since the key might be considered privileged
	// information.
	LogUserKeysInErrors bool
}

// ServiceEndpoints allows the client to be directed at a non-default service
// instance, such as a staging environment or a local test fixture. The zero value
// means the standard production endpoints.
type ServiceEndpoints struct {
	// Evaluation is the base URI of the evaluation service.
	Evaluation string
}
