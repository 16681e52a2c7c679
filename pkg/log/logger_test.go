package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Notice)
	logger.Infof("hidden %d", 1)
	logger.Noticef("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("Info message should be filtered at Notice level, got %q", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Errorf("Expected notice message in output, got %q", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("Expected module name in output, got %q", out)
	}

	SetLevel(Debug)
	if !IsEnabled(Debug) {
		t.Error("Expected debug to be enabled after SetLevel(Debug)")
	}
	logger.Debugf("debug %s", "line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Errorf("Expected debug message in output, got %q", buf.String())
	}
}
