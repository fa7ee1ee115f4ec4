package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the decoded safethunk.toml.
type Config struct {
	Generate    GenerateConfig    `toml:"generate"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Annotations []Sidecar         `toml:"annotations"`

	// Path is where the config was read from, "" for defaults.
	Path string `toml:"-"`
}

type GenerateConfig struct {
	OutDir string `toml:"out_dir"`
	Suffix string `toml:"suffix"`
	Jobs   int    `toml:"jobs"`
	Cache  bool   `toml:"cache"`
}

type DiagnosticsConfig struct {
	Format string `toml:"format"`
	Max    int    `toml:"max"`
}

// Sidecar annotates a declaration from outside the interface file.
type Sidecar struct {
	Decl  string            `toml:"decl"`
	Infos []string          `toml:"infos"`
	Types map[string]string `toml:"types"`
}

const (
	DefaultSuffix = ".safe.sfi"
	DefaultMax    = 100
)

var diagnosticFormats = []string{"pretty", "short", "json"}

var (
	ErrUnknownKey = errors.New("unknown key")
	ErrInvalid    = errors.New("invalid value")
)

// Default is the configuration used when no file is found.
func Default() Config {
	return Config{
		Generate:    GenerateConfig{Suffix: DefaultSuffix},
		Diagnostics: DiagnosticsConfig{Format: "pretty", Max: DefaultMax},
	}
}

// Load decodes path over the defaults. Unknown keys are an error so a typo
// does not silently fall back to a default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations; it does not parse sidecar infos.
func (c *Config) Validate() error {
	if c.Generate.Jobs < 0 {
		return fmt.Errorf("%w: generate.jobs must not be negative, got %d", ErrInvalid, c.Generate.Jobs)
	}
	if strings.TrimSpace(c.Generate.Suffix) == "" {
		return fmt.Errorf("%w: generate.suffix must not be empty", ErrInvalid)
	}
	if !slices.Contains(diagnosticFormats, c.Diagnostics.Format) {
		return fmt.Errorf("%w: diagnostics.format must be one of %s, got %q",
			ErrInvalid, strings.Join(diagnosticFormats, "|"), c.Diagnostics.Format)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max must not be negative, got %d", ErrInvalid, c.Diagnostics.Max)
	}
	for i, s := range c.Annotations {
		if strings.TrimSpace(s.Decl) == "" {
			return fmt.Errorf("%w: annotations[%d].decl is empty", ErrInvalid, i)
		}
	}
	return nil
}

// Discover loads the config nearest to start, or returns the defaults.
func Discover(start string) (Config, error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// SidecarsFor returns the sidecar entries naming decl, in file order.
func (c *Config) SidecarsFor(decl string) []Sidecar {
	var out []Sidecar
	for _, s := range c.Annotations {
		if s.Decl == decl {
			out = append(out, s)
		}
	}
	return out
}
