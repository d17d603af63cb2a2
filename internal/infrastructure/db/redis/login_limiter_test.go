package redis

import (
	"testing"
	"time"
)

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if l.maxAttempts != DefaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultMaxAttempts, l.maxAttempts)
	}
	if l.window != DefaultWindow {
		t.Errorf("expected %s window, got %s", DefaultWindow, l.window)
	}

	l = NewLoginLimiter(nil, 3, time.Minute)
	if l.maxAttempts != 3 || l.window != time.Minute {
		t.Errorf("explicit limits ignored: %d %s", l.maxAttempts, l.window)
	}
}

func TestLoginLimiter_KeyIsCaseInsensitive(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if got := l.key("  John@Example.COM "); got != "login:fail:john@example.com" {
		t.Fatalf("unexpected key %q", got)
	}
}
