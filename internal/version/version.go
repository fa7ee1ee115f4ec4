package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Overridden at build time via -ldflags "-X safethunk/internal/version.Version=...".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
	labelColor = color.New(color.Faint)
)

// Info is what `safethunk version` prints.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Message   string `json:"message,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Current collects the build metadata. A missing commit is taken from the
// VCS stamp of the binary when there is one.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		Message:   GitMessage,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}
	return info
}

// Colored renders the semantic version with one color per component;
// everything after the patch number is left plain.
func Colored(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Pretty is the multi-line human form.
func (i Info) Pretty() string {
	var sb strings.Builder
	sb.WriteString("safethunk " + Colored(i.Version) + "\n")
	row := func(label, value string) {
		if value != "" {
			sb.WriteString(labelColor.Sprintf("  %-7s", label) + " " + value + "\n")
		}
	}
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	row("commit", commit)
	row("message", i.Message)
	row("built", i.BuildDate)
	row("go", i.GoVersion)
	return sb.String()
}

func (i Info) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}
