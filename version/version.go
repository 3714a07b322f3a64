package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags -X. Empty values fall back to the VCS stamps in the
// binary's build info.
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the build identity of the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GitBranch string    `json:"git_branch"`
	BuildTime string    `json:"build_time"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo merges the -ldflags values with the VCS stamps. Without a
// build time from either source the current time is used.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if bi, ok := readBuildInfo(); ok {
		vcs := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			vcs[s.Key] = s.Value
		}
		info.GoVersion = firstNonEmpty(info.GoVersion, bi.GoVersion)
		info.GitCommit = firstNonEmpty(info.GitCommit, shortCommit(vcs["vcs.revision"]))
		info.BuildTime = firstNonEmpty(info.BuildTime, vcs["vcs.time"])
		info.IsDirty = vcs["vcs.modified"] == "true"
	}

	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		info.BuildDate = t
	} else {
		info.BuildDate = time.Now().UTC()
		info.BuildTime = info.BuildDate.Format(time.RFC3339)
	}
	return info
}

// Short is version-commit, with -dirty for a modified tree.
func (i *Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// Full adds a non-default branch and the build date to Short.
func (i *Info) Full() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		parts = append(parts, i.GitBranch)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return fmt.Sprintf("%s (built %s)", strings.Join(parts, "-"), i.BuildDate.UTC().Format(time.RFC3339))
}

// Fields returns the identity as structured log fields.
func (i *Info) Fields() map[string]interface{} {
	f := map[string]interface{}{"version": i.Version, "release": i.IsRelease}
	if i.GitCommit != "" {
		f["commit"] = i.GitCommit
	}
	if i.IsDirty {
		f["dirty"] = true
	}
	return f
}

func GetShortVersion() string { return GetVersionInfo().Short() }
func GetFullVersion() string { return GetVersionInfo().Full() }

// Banner is the line printed by --version.
func Banner(name string) string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s %s (go %s)", name, info.Full(), info.GoVersion)
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
