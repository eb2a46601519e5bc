package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/golang/glog"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		msg  string
		kv   []interface{}
		want string
	}{
		{"merge complete", nil, "merge complete"},
		{"input merged", []interface{}{"source", "app.hex", "runs", 3}, "input merged source=app.hex runs=3"},
		{"odd", []interface{}{"dangling"}, "odd dangling"},
	}

	for _, tt := range tests {
		if got := formatMessage(tt.msg, tt.kv); got != tt.want {
			t.Errorf("formatMessage(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

// warnVia logs the way merger and artifact do, through one helper frame.
func warnVia(logger glogLogger, msg string) {
	logger.Warn(msg, "bytes", 2)
}

func TestGlogLogger_ReportsCallSite(t *testing.T) {
	dir := t.TempDir()
	if err := flag.Set("log_dir", dir); err != nil {
		t.Fatalf("set log_dir: %v", err)
	}
	if err := flag.Set("logtostderr", "false"); err != nil {
		t.Fatalf("set logtostderr: %v", err)
	}

	_, file, line, _ := runtime.Caller(0)
	warnVia(glogLogger{}, "call site check")
	glog.Flush()

	want := fmt.Sprintf("%s:%d] call site check bytes=2", filepath.Base(file), line+1)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	var logs strings.Builder
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err == nil {
			logs.Write(data)
		}
	}

	if !strings.Contains(logs.String(), want) {
		t.Errorf("log output does not contain %q:\n%s", want, logs.String())
	}
}
