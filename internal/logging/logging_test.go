package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestChildLoggerKeysDoNotCollide(t *testing.T) {
	var buf bytes.Buffer
	l := newBase(&buf, "storefront-api", "info").With("component", "http")

	l.Info("request handled")

	line := buf.String()
	if got := strings.Count(line, `"service":`); got != 1 {
		t.Errorf("service key appears %d times in %s", got, line)
	}
	if got := strings.Count(line, `"component":`); got != 1 {
		t.Errorf("component key appears %d times in %s", got, line)
	}
	if !strings.Contains(line, `"service":"storefront-api"`) {
		t.Errorf("missing service attribute: %s", line)
	}
	if !strings.Contains(line, `"component":"http"`) {
		t.Errorf("missing component attribute: %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newBase(&buf, "storefront-api", "warn")

	l.Info("dropped")
	l.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info line emitted at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn line missing at warn level")
	}
}
