package ipc

import (
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate socket/address for IPC.
// Unix sockets prefer XDG_RUNTIME_DIR, which is cleaned up on logout.
func SocketPath() (string, error) {
	if runtime.GOOS == "windows" {
		return `\\.\pipe\hierwatch`, nil
	}

	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" || runtime.GOOS == "darwin" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = cacheDir
	}
	return filepath.Join(dir, "hierwatch", "hierwatch.sock"), nil
}
