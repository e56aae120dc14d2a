// Package build reports what binary is running. Release builds inject a JSON
// description through -ldflags:
//
//	go build -ldflags "-X github.com/amp-labs/amp-decorators/build.Embedded=$(cat build.json)"
//
// Other builds fall back to the module information the Go toolchain records.
package build

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Embedded is set at link time.
var Embedded string //nolint:gochecknoglobals

// Info is the build metadata.
type Info struct {
	Version      string            `json:"version"`
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	GitBranch    string            `json:"git_branch"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	if err := json.Unmarshal([]byte(js), &info); err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// FromBuildInfo converts the toolchain's record of a binary.
func FromBuildInfo(bi *debug.BuildInfo) *Info {
	info := &Info{
		Version:      bi.Main.Version,
		GoVersion:    bi.GoVersion,
		Dependencies: make(map[string]string, len(bi.Deps)),
	}

	for _, dep := range bi.Deps {
		info.Dependencies[dep.Path] = dep.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		}
	}

	return info
}

// Current describes the running binary, preferring Embedded.
var Current = sync.OnceValue(func() *Info { //nolint:gochecknoglobals
	if info, ok := Parse(Embedded); ok {
		return info
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		return FromBuildInfo(bi)
	}

	return &Info{}
})

// Version is Current().Version, or "dev" when unknown.
func Version() string {
	v := Current().Version
	if v == "" || v == "(devel)" {
		return "dev"
	}

	return v
}
