package config

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseDir is the directory relative runtime paths are resolved against:
// $CMS_HOME when set, otherwise the directory of the running executable.
func BaseDir() string {
	if home := strings.TrimSpace(os.Getenv("CMS_HOME")); home != "" {
		return filepath.Clean(home)
	}
	exe, err := os.Executable()
	if err == nil && strings.TrimSpace(exe) != "" {
		if resolved, resolveErr := filepath.EvalSymlinks(exe); resolveErr == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, wdErr := os.Getwd(); wdErr == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath turns raw (or fallbackSubdir when raw is empty) into an
// absolute path under BaseDir. Absolute inputs are returned cleaned.
func ResolveRuntimePath(raw string, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
	}
	if target == "" {
		return BaseDir()
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(BaseDir(), target)
}
