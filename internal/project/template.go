package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# safethunk configuration

[generate]
out_dir = ""          # default: next to the input file
suffix  = ".safe.sfi"
jobs    = 0           # 0 = GOMAXPROCS
cache   = false

[diagnostics]
format = "pretty"     # pretty|short|json
max    = 100

# Annotations for declarations you cannot edit:
#
# [[annotations]]
# decl  = "fill"
# infos = ['countedBy(pointer: .param(1), count: "n")']
# types = { IntSpan = "std.span<const CInt>" }
`

// ErrConfigExists is returned by WriteTemplate when dir already has a config.
var ErrConfigExists = errors.New(ConfigName + " already exists")

// WriteTemplate creates dir/safethunk.toml. An existing file is kept unless
// force is set.
func WriteTemplate(dir string, force bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %q: %w", dir, err)
	}
	path := filepath.Join(dir, ConfigName)
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return path, ErrConfigExists
	}
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", path, err)
	}
	if _, err := f.WriteString(configTemplate); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	return path, f.Close()
}
