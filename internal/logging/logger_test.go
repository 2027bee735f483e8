package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"

	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// swapLogger replaces L with a buffer-backed logger for the duration of the test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	t.Cleanup(func() { L = prev })
	return &buf
}

func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	buf := swapLogger(t)
	L.SetLevel(clog.DebugLevel)

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output; got: %s", want, out)
		}
	}
}

func TestConfigure_Level(t *testing.T) {
	buf := swapLogger(t)

	closer, err := Configure(types.LogConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	defer closer.Close()

	Infof("quiet")
	Warnf("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestConfigure_InvalidLevel(t *testing.T) {
	swapLogger(t)

	if _, err := Configure(types.LogConfig{Level: "chatty"}); err == nil {
		t.Fatal("Configure() expected error for invalid level")
	}
}

func TestConfigure_File(t *testing.T) {
	swapLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "plugin.log")

	closer, err := Configure(types.LogConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	Infof("to file %d", 42)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "to file 42") {
		t.Errorf("log file missing message; got: %s", data)
	}
}
