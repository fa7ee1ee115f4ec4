package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of interface files.
const Ext = ".sfi"

var ErrNoInputs = errors.New("no interface files")

// ListInputs returns path itself for a file, or every *.sfi below a
// directory. Files ending in suffix are earlier outputs and are skipped.
func ListInputs(path, suffix string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, Ext) {
			return nil
		}
		if suffix != "" && strings.HasSuffix(p, suffix) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoInputs)
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}

// OutputPath names the generated file of input: `<name><suffix>` next to
// the input, or inside outDir when it is set.
func OutputPath(input, outDir, suffix string) string {
	name := strings.TrimSuffix(filepath.Base(input), Ext) + suffix
	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}
