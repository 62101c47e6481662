//go:build integration

package testutil

// File describes a regular file relative to the test root, slash-separated.
func File(path string) FileEntry {
	return FileEntry{Path: path}
}

// Dir describes a directory relative to the test root, slash-separated.
func Dir(path string) FileEntry {
	return FileEntry{Path: path, IsDir: true}
}

// WithContent returns a copy of f with the given file content.
func (f FileEntry) WithContent(content string) FileEntry {
	f.Content = content
	return f
}
