package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 12, ParseIntDefault("12", 7))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitList(""))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ECON_TEST_STR", "redis")
	t.Setenv("ECON_TEST_INT", "nope")
	t.Setenv("ECON_TEST_BOOL", "true")
	t.Setenv("ECON_TEST_DUR", "90s")
	t.Setenv("ECON_TEST_LIST", "k1:9092,k2:9092")

	s, i, b, d, l := "file", 4, false, time.Minute, []string{"x"}
	EnvString("ECON_TEST_STR", &s)
	EnvString("ECON_TEST_UNSET", &s)
	EnvInt("ECON_TEST_INT", &i)
	EnvBool("ECON_TEST_BOOL", &b)
	EnvDuration("ECON_TEST_DUR", &d)
	EnvList("ECON_TEST_LIST", &l)

	assert.Equal(t, "redis", s)
	assert.Equal(t, 4, i)
	assert.True(t, b)
	assert.Equal(t, 90*time.Second, d)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, l)
}
