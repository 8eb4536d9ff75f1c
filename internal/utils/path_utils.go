package utils

import (
	"path/filepath"

	"github.com/vesperlang/vesper/internal/config"
)

// ExtractModuleName derives a module's display name from its resolved
// file path: the base filename with its source extension trimmed.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}
