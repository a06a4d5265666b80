package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	t.Run("rejects an unsupported platform", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		err := OpenBrowser("http://127.0.0.1:8888/callback")
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
		}
		if !strings.Contains(err.Error(), "plan9") {
			t.Errorf("expected platform name in error, got %v", err)
		}
	})
}
