package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("WEBPILOT_TEST_KEY", "value")
	assert.Equal(t, "value", svc.Get("WEBPILOT_TEST_KEY"))
	assert.Equal(t, "", svc.Get("WEBPILOT_TEST_MISSING"))
}

func TestGetWithDefault(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("WEBPILOT_TEST_KEY", "set")
	assert.Equal(t, "set", svc.GetWithDefault("WEBPILOT_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", svc.GetWithDefault("WEBPILOT_TEST_MISSING", "fallback"))
}

func TestGetBool(t *testing.T) {
	svc := &EnvService{}

	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"", false, false},
		{"yes", false, false}, // unparseable keeps the default
	}
	for _, tt := range tests {
		if tt.value != "" {
			t.Setenv("WEBPILOT_TEST_BOOL", tt.value)
		} else {
			t.Setenv("WEBPILOT_TEST_BOOL", "")
		}
		assert.Equal(t, tt.want, svc.GetBool("WEBPILOT_TEST_BOOL", tt.defaultValue), "value %q", tt.value)
	}
}

func TestGetInt(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("WEBPILOT_TEST_INT", "42")
	assert.Equal(t, 42, svc.GetInt("WEBPILOT_TEST_INT", 7))

	t.Setenv("WEBPILOT_TEST_INT", "not-a-number")
	assert.Equal(t, 7, svc.GetInt("WEBPILOT_TEST_INT", 7))

	assert.Equal(t, 7, svc.GetInt("WEBPILOT_TEST_INT_MISSING", 7))
}

func TestGetFloat(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("WEBPILOT_TEST_FLOAT", "0.15")
	assert.Equal(t, 0.15, svc.GetFloat("WEBPILOT_TEST_FLOAT", 0.05))

	t.Setenv("WEBPILOT_TEST_FLOAT", "oops")
	assert.Equal(t, 0.05, svc.GetFloat("WEBPILOT_TEST_FLOAT", 0.05))
}

func TestGetDuration(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("WEBPILOT_TEST_DUR", "1500ms")
	assert.Equal(t, 1500*time.Millisecond, svc.GetDuration("WEBPILOT_TEST_DUR", time.Second))

	t.Setenv("WEBPILOT_TEST_DUR", "soon")
	assert.Equal(t, time.Second, svc.GetDuration("WEBPILOT_TEST_DUR", time.Second))

	assert.Equal(t, time.Second, svc.GetDuration("WEBPILOT_TEST_DUR_MISSING", time.Second))
}
