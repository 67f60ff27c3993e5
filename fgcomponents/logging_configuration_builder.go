package fgcomponents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/subsystems"
)

// LoggingConfigurationBuilder contains methods for configuring the SDK's logging
// behavior.
//
// If you want to set non-default values for any of these properties, create a
// builder with fgcomponents.Logging(), change its properties with the
// LoggingConfigurationBuilder methods, and store it in Config.Logging:
//
//	config := fgclient.Config{
//	    Logging: fgcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config subsystems.LoggingConfiguration
}

// Logging returns a configuration builder for the SDK's logging configuration.
//
// The default configuration has logging enabled with default settings.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{
		config: subsystems.LoggingConfiguration{Loggers: ldlog.NewDefaultLoggers()},
	}
}

// Loggers specifies an instance of ldlog.Loggers to use for SDK logging. The ldlog
// package contains methods for customizing the destination and level filtering of
// log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.config.Loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the
// lowest and ldlog.Error is the highest. Log messages at a level lower than this
// will be suppressed. The default is ldlog.Info.
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.Loggers.SetMinLevel(level)
	return b
}

// LogUserKeysInErrors sets whether error log messages may include the user key. By
// default they will not, since the key might be considered privileged information.
func (b *LoggingConfigurationBuilder) LogUserKeysInErrors(logUserKeysInErrors bool) *LoggingConfigurationBuilder {
	b.config.LogUserKeysInErrors = logUserKeysInErrors
	return b
}

// Build is called internally by the SDK.
func (b *LoggingConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return b.config, nil
}

// NoLogging returns a configuration object that disables logging.
//
//	config := fgclient.Config{
//	    Logging: fgcomponents.NoLogging(),
//	}
func NoLogging() subsystems.ComponentConfigurer[subsystems.LoggingConfiguration] {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}, nil
}
