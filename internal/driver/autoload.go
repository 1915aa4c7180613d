package driver

import (
	"os"
	"path/filepath"
	"strings"

	"plint/internal/names"
)

// Autoloader maps a class to the file expected to declare it under base,
// one class per file: \A\B\C lives in base/A/B/C.php. Classes whose file
// does not exist stay unresolved. An empty base disables autoloading.
func Autoloader(base string) func(names.FQN) (string, bool) {
	if base == "" {
		return nil
	}
	return func(name names.FQN) (string, bool) {
		rel := strings.ReplaceAll(name.String(), `\`, string(filepath.Separator)) + ".php"
		path := filepath.Join(base, rel)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return "", false
		}
		return path, true
	}
}
