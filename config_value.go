package fgclient

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ConfigValue is the result of FGClient.GetConfig: a structured configuration
// payload with typed field accessors. A ConfigValue for an unknown config name, or
// from a client with no data, exists but reports the caller-supplied default for
// every field.
type ConfigValue struct {
	name   string
	value  ldvalue.Value
	ruleID string
	found  bool
}

// Name returns the config name this value was requested under.
func (c ConfigValue) Name() string {
	return c.name
}

// Exists is true if the config was present in the current snapshot.
func (c ConfigValue) Exists() bool {
	return c.found
}

// RuleID identifies the server-side rule that produced this value, or "" if the
// config was absent.
func (c ConfigValue) RuleID() string {
	return c.ruleID
}

// Value returns the whole payload. For an absent config this is ldvalue.Null().
func (c ConfigValue) Value() ldvalue.Value {
	return c.value
}

// GetValue returns a single field of the payload, or ldvalue.Null() if absent.
func (c ConfigValue) GetValue(key string) ldvalue.Value {
	return c.value.GetByKey(key)
}

// GetString returns a string field, or defaultValue if the field is absent or not a
// string.
func (c ConfigValue) GetString(key string, defaultValue string) string {
	if v := c.value.GetByKey(key); v.Type() == ldvalue.StringType {
		return v.StringValue()
	}
	return defaultValue
}

// GetBool returns a boolean field, or defaultValue if the field is absent or not a
// boolean.
func (c ConfigValue) GetBool(key string, defaultValue bool) bool {
	if v := c.value.GetByKey(key); v.Type() == ldvalue.BoolType {
		return v.BoolValue()
	}
	return defaultValue
}

// GetInt returns a numeric field truncated to int, or defaultValue if the field is
// absent or not a number.
func (c ConfigValue) GetInt(key string, defaultValue int) int {
	if v := c.value.GetByKey(key); v.IsNumber() {
		return v.IntValue()
	}
	return defaultValue
}

// GetFloat64 returns a numeric field, or defaultValue if the field is absent or not
// a number.
func (c ConfigValue) GetFloat64(key string, defaultValue float64) float64 {
	if v := c.value.GetByKey(key); v.IsNumber() {
		return v.Float64Value()
	}
	return defaultValue
}
