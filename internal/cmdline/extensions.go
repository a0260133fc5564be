package cmdline

import (
	"fmt"
	"strings"

	"github.com/louisbranch/scrapectl/internal/extension"
)

// ManifestLoader loads one extension manifest.
type ManifestLoader interface {
	LoadManifest(path string) error
}

// LoadExtensions loads every manifest path into loader, which defaults to the
// process-wide extension registry. Blank paths are skipped.
func LoadExtensions(loader ManifestLoader, paths []string) error {
	if loader == nil {
		loader = extension.Default()
	}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := loader.LoadManifest(path); err != nil {
			return fmt.Errorf("load extension manifest %s: %w", path, err)
		}
	}
	return nil
}
