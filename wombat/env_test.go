package main

import (
	"testing"
	"time"
)

func TestGetEnvDefaults(t *testing.T) {
	t.Setenv("WOMBAT_TEST_INT", "12")
	t.Setenv("WOMBAT_TEST_BAD_INT", "twelve")
	t.Setenv("WOMBAT_TEST_DUR", "75ms")
	t.Setenv("WOMBAT_TEST_BOOL", "false")

	if got := getEnvOrDefault("WOMBAT_TEST_UNSET", "x"); got != "x" {
		t.Errorf("string default = %q", got)
	}
	if got := getEnvIntOrDefault("WOMBAT_TEST_INT", 1); got != 12 {
		t.Errorf("int = %d", got)
	}
	if got := getEnvIntOrDefault("WOMBAT_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("bad int fell through as %d", got)
	}
	if got := getEnvDurationOrDefault("WOMBAT_TEST_DUR", time.Second); got != 75*time.Millisecond {
		t.Errorf("duration = %s", got)
	}
	if got := getEnvBoolOrDefault("WOMBAT_TEST_BOOL", true); got {
		t.Errorf("bool = %v", got)
	}
}
