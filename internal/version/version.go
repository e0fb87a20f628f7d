package version

import (
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X bizadmin/internal/version.Version=...". When left at
// the defaults, module build info fills them in for go install builds.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var readBuildInfo = debug.ReadBuildInfo

func resolved() (ver, commit, date string) {
	ver, commit, date = Version, Commit, Date
	if ver != "dev" || commit != "" {
		return
	}
	bi, ok := readBuildInfo()
	if !ok {
		return
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		ver = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			date = s.Value
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return
}

func String() string {
	ver, commit, date := resolved()
	parts := []string{ver}
	if commit != "" {
		parts = append(parts, "("+commit+")")
	}
	if date != "" {
		parts = append(parts, date)
	}
	return strings.Join(parts, " ")
}

// UserAgent identifies the client to the API.
func UserAgent() string {
	ver, _, _ := resolved()
	return "bizadmin/" + ver
}
