package config

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// PathList handles YAML fields that can be a single path or a list of paths.
// Paths are tilde-expanded, must be absolute, and are cleaned.
type PathList []string

func (p *PathList) UnmarshalYAML(node *yaml.Node) error {
	var list []string

	// Try single string first
	var single string
	if err := node.Decode(&single); err == nil {
		list = []string{single}
	} else if err := node.Decode(&list); err != nil {
		return err
	}

	out := make(PathList, 0, len(list))
	for _, path := range list {
		path = pathutil.ExpandTilde(path)

		if !filepath.IsAbs(path) {
			return fmt.Errorf("path must be absolute: %s", path)
		}

		// Clean the path (removes trailing slashes, resolves . and ..)
		out = append(out, filepath.Clean(path))
	}
	*p = out
	return nil
}
