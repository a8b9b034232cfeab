package version

import (
	"runtime/debug"
	"testing"
)

func TestBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch", date: "2026-01-01", expected: 0},
		{name: "next day", date: "2026-01-02", expected: 1},
		{name: "one year later", date: "2027-01-01", expected: 365},
		{name: "across a leap year", date: "2029-01-01", expected: 1096},
		{name: "invalid format", date: "01/02/2026", wantError: true},
		{name: "empty", date: "", wantError: true},
		{name: "before epoch", date: "2025-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildID(tt.date)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("BuildID(%q) = %d, want %d", tt.date, got, tt.expected)
			}
		})
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-03T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := VersionInfo{Commit: "from-ldflags"}
	fillFromBuildInfo(&info, bi)

	if info.Commit != "from-ldflags" {
		t.Errorf("ldflags must win, got commit %q", info.Commit)
	}
	if info.BuildDate != "2026-02-03" || !info.Modified || info.GoVersion != "go1.24.0" {
		t.Errorf("Unexpected info: %+v", info)
	}
}
