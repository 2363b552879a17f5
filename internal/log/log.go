// Package log provides the server's category-prefixed logger. Nothing is
// written until SetOutput is called; stdout must never be used because it
// carries the protocol.
package log

import (
	"fmt"
	"io"
	"sync"
)

var (
	out io.Writer
	mu  sync.Mutex
)

// SetOutput sets the log destination. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Enabled returns true if logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, prefix+format+"\n", args...)
	}
}

// Server writes a server-prefixed log message.
func Server(format string, args ...any) {
	write("[server] ", format, args...)
}

// Index writes an index-prefixed log message.
func Index(format string, args ...any) {
	write("[index] ", format, args...)
}

// MCP writes an mcp-prefixed log message.
func MCP(format string, args ...any) {
	write("[mcp] ", format, args...)
}
