//go:build windows

package ipc

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// listen creates a named pipe. Pipes live in a kernel namespace, so there is
// no stale file to remove.
func listen(path string) (net.Listener, error) {
	return winio.ListenPipe(path, &winio.PipeConfig{
		InputBufferSize:  64 * 1024,
		OutputBufferSize: 64 * 1024,
	})
}

// cleanup is a no-op; the pipe disappears with its listener.
func cleanup(path string) {}

// dial connects to the named pipe at path.
func dial(path string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(path, &timeout)
}
