package khiopsdriver

import "testing"

func TestOptionsLogLevelDefaultsToInfo(t *testing.T) {
	var o Options
	if o.logLevel() != LogLevelInfo {
		t.Fatalf("got %q, want %q", o.logLevel(), LogLevelInfo)
	}
}

func TestOptionsLogLevelHonorsExplicitValue(t *testing.T) {
	o := Options{LogLevel: LogLevelDebug}
	if o.logLevel() != LogLevelDebug {
		t.Fatalf("got %q, want %q", o.logLevel(), LogLevelDebug)
	}
}
