package config

import (
	"os"
	"path/filepath"

	"github.com/valet-org/valet/internal/build"
	"github.com/valet-org/valet/internal/fileutil"
)

// PathResolver determines the configuration and data locations from the
// application home environment variable, a legacy dot-directory, or the
// XDG base directories, in that order.
type PathResolver struct {
	ResolvedPaths
	XDGConfig
}

// ResolvedPaths holds the file system path settings used by the application.
type ResolvedPaths struct {
	// ConfigDir is the primary configuration directory.
	ConfigDir string
	// DataDir is the directory for persisted application data.
	DataDir string
	// MemoryFile is the full path to the memory log file.
	MemoryFile string
	// Warnings collects any warnings encountered during path resolution.
	Warnings []string
}

// XDGConfig contains the standard XDG directories used as a fallback.
type XDGConfig struct {
	DataHome   string
	ConfigHome string
}

// NewResolver instantiates a PathResolver based on the provided application
// home environment variable, a legacy path, and an XDGConfig.
func NewResolver(appHomeEnv, legacyPath string, xdg XDGConfig) PathResolver {
	resolver := PathResolver{XDGConfig: xdg}
	resolver.resolve(appHomeEnv, legacyPath)
	return resolver
}

func (r *PathResolver) resolve(appHomeEnv, legacyPath string) {
	switch {
	// Use the directory from the environment variable if available.
	case os.Getenv(appHomeEnv) != "":
		r.ResolvedPaths.ConfigDir = os.Getenv(appHomeEnv)
		r.setAppHomePaths()
	// If the legacy path exists, warn and use it.
	case fileutil.FileExists(legacyPath):
		r.Warnings = append(r.Warnings, "Legacy path detected. Update configuration paths.")
		r.ResolvedPaths.ConfigDir = legacyPath
		r.setAppHomePaths()
	// Fallback to default XDG-based paths.
	default:
		r.ResolvedPaths.ConfigDir = filepath.Join(r.ConfigHome, build.Slug)
		r.setXDGPaths()
	}
}

// setXDGPaths organizes data under the standard XDG directories.
func (r *PathResolver) setXDGPaths() {
	r.DataDir = filepath.Join(r.DataHome, build.Slug)
	r.MemoryFile = filepath.Join(r.DataDir, "memory.log")
}

// setAppHomePaths keeps everything under the single application home
// directory.
func (r *PathResolver) setAppHomePaths() {
	r.DataDir = filepath.Join(r.ResolvedPaths.ConfigDir, "data")
	r.MemoryFile = filepath.Join(r.DataDir, "memory.log")
}
