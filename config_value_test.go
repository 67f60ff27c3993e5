package fgclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

func makeTestConfigValue() ConfigValue {
	return ConfigValue{
		name: "my-config",
		value: ldvalue.ObjectBuild().
			SetString("color", "blue").
			SetBool("enabled", true).
			SetInt("count", 3).
			SetFloat64("ratio", 0.5).
			Build(),
		ruleID: "rule1",
		found:  true,
	}
}

func TestConfigValueAccessors(t *testing.T) {
	c := makeTestConfigValue()
	assert.Equal(t, "my-config", c.Name())
	assert.True(t, c.Exists())
	assert.Equal(t, "rule1", c.RuleID())
	assert.Equal(t, ldvalue.String("blue"), c.GetValue("color"))
	assert.Equal(t, ldvalue.Null(), c.GetValue("missing"))
}

func TestConfigValueTypedGetters(t *testing.T) {
	c := makeTestConfigValue()
	assert.Equal(t, "blue", c.GetString("color", "red"))
	assert.True(t, c.GetBool("enabled", false))
	assert.Equal(t, 3, c.GetInt("count", 0))
	assert.Equal(t, 0.5, c.GetFloat64("ratio", 0))

	// Numbers are interchangeable between int and float accessors.
	assert.Equal(t, 3.0, c.GetFloat64("count", 0))
	assert.Equal(t, 0, c.GetInt("ratio", 0)) // 0.5 truncates to 0
}

func TestConfigValueTypedGettersReturnDefaultsOnMissingField(t *testing.T) {
	c := makeTestConfigValue()
	assert.Equal(t, "red", c.GetString("missing", "red"))
	assert.False(t, c.GetBool("missing", false))
	assert.Equal(t, 7, c.GetInt("missing", 7))
	assert.Equal(t, 1.5, c.GetFloat64("missing", 1.5))
}

func TestConfigValueTypedGettersReturnDefaultsOnTypeMismatch(t *testing.T) {
	c := makeTestConfigValue()
	assert.Equal(t, "red", c.GetString("count", "red"))
	assert.False(t, c.GetBool("color", false))
	assert.Equal(t, 7, c.GetInt("color", 7))
	assert.Equal(t, 1.5, c.GetFloat64("enabled", 1.5))
}

func TestZeroConfigValueReportsDefaults(t *testing.T) {
	var c ConfigValue
	assert.False(t, c.Exists())
	assert.Equal(t, "", c.RuleID())
	assert.Equal(t, ldvalue.Null(), c.GetValue("anything"))
	assert.Equal(t, "red", c.GetString("anything", "red"))
}
