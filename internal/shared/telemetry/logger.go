package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var out io.Writer = os.Stdout

// SetOutput redirects log lines to w and returns the previous writer.
// Used by tests to capture output.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Debug writes a debug-level log line. Suppressed unless LOG_LEVEL=debug.
func Debug(msg string, fields map[string]any) {
	if !debugEnabled() {
		return
	}
	write("debug", msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

func debugEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "debug")
}

func write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(out, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(out, string(data))
}
