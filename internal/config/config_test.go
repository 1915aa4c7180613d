package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[analysis]
unchecked = ["Error"]
module_path = "stubs"

[output]
format = "json"

[cache]
dir = ".plint-cache"
`)
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, FileName), cfg.Path)
	require.Equal(t, []string{"Error"}, cfg.Analysis.Unchecked)
	require.Equal(t, filepath.Join(root, "stubs"), cfg.Analysis.ModulePath)
	require.Equal(t, "json", cfg.Output.Format)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, filepath.Join(root, ".plint-cache"), cfg.Cache.Dir)
	// untouched keys keep their defaults
	require.Equal(t, 8, cfg.Output.TabWidth)
	require.Equal(t, 32, cfg.Analysis.MaxDepth)
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, cfg.Path)
	require.Equal(t, Default().Output, cfg.Output)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "[analysis\n", "failed to parse TOML"},
		{"unknown key", "[analysis]\nstrict = true\n", "unknown keys: analysis.strict"},
		{"format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"encoding", "[analysis]\nencoding = \"koi8-r\"\n", "[analysis].encoding"},
		{"depth", "[analysis]\nmax_depth = 0\n", "[analysis].max_depth"},
		{"glob", "[files]\nexclude = [\"[a\"]\n", "bad pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.text)
			_, err := Load(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExcluder(t *testing.T) {
	cfg := Default()
	cfg.Files.Exclude = []string{"vendor/**", "**/*.tpl.php"}
	ex, err := cfg.Excluder()
	require.NoError(t, err)

	require.True(t, ex.Match("vendor/a/b.php"))
	require.True(t, ex.Match("views/page.tpl.php"))
	require.False(t, ex.Match("src/main.php"))
	require.False(t, (*Excluder)(nil).Match("vendor/x.php"))
}
