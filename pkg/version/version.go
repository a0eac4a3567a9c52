package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Populated with -ldflags "-X github.com/mutablelogic/go-notes/pkg/version.GitTag=..."
var (
	GitSource   string
	GitTag      string
	GitBranch   string
	GitHash     string
	GoBuildTime string
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the git tag, then the branch, then the short revision
// recorded by the toolchain, or "dev"
func Version() string {
	switch {
	case GitTag != "":
		return GitTag
	case GitBranch != "":
		return GitBranch
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 12 {
			return rev[:12]
		}
		return rev
	}
	return "dev"
}

// Metadata returns the build metadata for the named executable. Values set
// with -ldflags take precedence over the embedded build info.
func Metadata(name string) map[string]string {
	metadata := map[string]string{
		"name":     name,
		"version":  Version(),
		"compiler": runtime.Version(),
	}
	set := func(key string, values ...string) {
		for _, value := range values {
			if value != "" {
				metadata[key] = value
				return
			}
		}
	}

	var source string
	if info, ok := debug.ReadBuildInfo(); ok {
		source = info.Main.Path
	}
	set("source", GitSource, source)
	set("tag", GitTag)
	set("branch", GitBranch)
	set("hash", GitHash, buildSetting("vcs.revision"))
	set("build_time", GoBuildTime, buildSetting("vcs.time"))
	if buildSetting("vcs.modified") == "true" {
		metadata["modified"] = "true"
	}
	if goos, goarch := buildSetting("GOOS"), buildSetting("GOARCH"); goos != "" && goarch != "" {
		metadata["platform"] = goos + "/" + goarch
	}
	return metadata
}

// JSON returns the metadata as indented JSON
func JSON(name string) []byte {
	data, err := json.MarshalIndent(Metadata(name), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
