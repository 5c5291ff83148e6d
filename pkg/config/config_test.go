package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SF_STR", "x")
	t.Setenv("SF_INT", "42")
	t.Setenv("SF_BAD_INT", "nope")
	t.Setenv("SF_BOOL", "true")

	assert.Equal(t, "x", EnvDefault("SF_STR", "d"))
	assert.Equal(t, "d", EnvDefault("SF_UNSET", "d"))
	assert.Equal(t, 42, EnvIntDefault("SF_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SF_BAD_INT", 1))
	assert.True(t, EnvBoolDefault("SF_BOOL", false))
	assert.False(t, EnvBoolDefault("SF_UNSET", false))
}

func TestMustNonEmpty(t *testing.T) {
	assert.NoError(t, MustNonEmpty("v", "A"))
	err := MustNonEmpty("", "A", "v", "B", "", "C")
	assert.EqualError(t, err, "missing required env [A C]")
}
