package main

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// callerDepth skips the adapter method and the library's log helper, so
// glog reports the line that produced the message.
const callerDepth = 2

// glogLogger adapts glog to merger.Logger. Debug output needs -v=1.
type glogLogger struct{}

func (glogLogger) Debug(msg string, keysAndValues ...interface{}) {
	if glog.V(1) {
		glog.InfoDepth(callerDepth, formatMessage(msg, keysAndValues))
	}
}

func (glogLogger) Info(msg string, keysAndValues ...interface{}) {
	glog.InfoDepth(callerDepth, formatMessage(msg, keysAndValues))
}

func (glogLogger) Warn(msg string, keysAndValues ...interface{}) {
	glog.WarningDepth(callerDepth, formatMessage(msg, keysAndValues))
}

func (glogLogger) Error(msg string, keysAndValues ...interface{}) {
	glog.ErrorDepth(callerDepth, formatMessage(msg, keysAndValues))
}

// formatMessage renders msg followed by key=value pairs.
func formatMessage(msg string, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v", keysAndValues[i])
		}
	}
	return b.String()
}
