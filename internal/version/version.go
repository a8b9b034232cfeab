// Package version reports build metadata. Values come from -ldflags when
// set, otherwise from the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X ecosystem-server/internal/version.BuildDate=2026-03-01 ..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// epoch is day zero of build numbering.
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID   int    `json:"build_id"`
	BuildDate string `json:"build_date,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BuildID numbers a build by the days between epoch and date.
func BuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format("2006-01-02"))
	}
	return int(t.Sub(epoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}

	id, err := BuildID(info.BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	return info
}

// fillFromBuildInfo completes fields the linker flags left empty.
func fillFromBuildInfo(info *VersionInfo, bi *debug.BuildInfo) {
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" && len(s.Value) >= len("2006-01-02") {
				info.BuildDate = s.Value[:len("2006-01-02")]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String returns a human-readable build string.
func String() string {
	info := Info()
	build := "unknown"
	if info.Error == "" {
		build = fmt.Sprintf("%d (%s)", info.BuildID, info.BuildDate)
	}
	return fmt.Sprintf("Build %s commit[%s] branch[%s] %s",
		build, coalesce(info.Commit, "unknown"), coalesce(info.Branch, "unknown"), info.GoVersion)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
