package handler

import (
	"net/http"
	"runtime"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// Build-time variables (injected via ldflags)
var (
	Version   = ""
	BuildTime = ""
	GitCommit = ""
)

// HandleVersion reports the build version, falling back to the configured
// one for builds without ldflags.
// @Summary Build version
// @Tags health
// @Produce json
// @Success 200 {object} VersionInfo
// @Router /version [get]
func HandleVersion(configured string) http.HandlerFunc {
	info := VersionInfo{
		Version:   GetVersion(configured),
		GoVersion: runtime.Version(),
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

// GetVersion prefers the build-time version over configured.
func GetVersion(configured string) string {
	if Version != "" {
		return Version
	}
	return configured
}
