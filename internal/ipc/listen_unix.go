//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

// listen binds a Unix domain socket at path, replacing a stale socket file
// left by a daemon that did not shut down cleanly.
func listen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return net.Listen("unix", path)
}

// cleanup removes the socket file.
func cleanup(path string) {
	os.Remove(path)
}

// dial connects to the Unix domain socket at path.
func dial(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}
