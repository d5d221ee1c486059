package util

import (
	"os"
	"path/filepath"
	"strings"
)

// xdgDir resolves $env/app, falling back to ~/<homeRel...>/app. Without a home
// directory it falls back to ./app.
func xdgDir(env, app string, homeRel ...string) string {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(append(append([]string{home}, homeRel...), app)...)
}

// DataDir holds the database and attachment blobs.
func DataDir(app string) string { return xdgDir("XDG_DATA_HOME", app, ".local", "share") }

// StateDir is where logs live.
func StateDir(app string) string { return xdgDir("XDG_STATE_HOME", app, ".local", "state") }

// ReportsDir is the default destination for generated PDF reports.
func ReportsDir(app string) string {
	return filepath.Join(DocumentsDir(), app, "reports")
}

// DocumentsDir honors XDG_DOCUMENTS_DIR, then ~/.config/user-dirs.dirs, then ~/Documents.
func DocumentsDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); base != "" {
		return expandHome(base)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	if data, err := os.ReadFile(filepath.Join(home, ".config", "user-dirs.dirs")); err == nil {
		if dir := parseUserDir(string(data), "XDG_DOCUMENTS_DIR"); dir != "" {
			return expandHome(dir)
		}
	}
	return filepath.Join(home, "Documents")
}

func parseUserDir(data, key string) string {
	prefix := key + "="
	for line := range strings.SplitSeq(data, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, prefix); ok {
			return strings.Trim(value, "\"")
		}
	}
	return ""
}

func expandHome(path string) string {
	if !strings.Contains(path, "$HOME") {
		return path
	}
	home, _ := os.UserHomeDir()
	return strings.ReplaceAll(path, "$HOME", home)
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "|", "-",
	"*", "", "?", "", "\"", "", "<", "", ">", "",
	" ", "_",
)

// SafeFileName replaces characters that are awkward in file names.
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	return fileNameReplacer.Replace(name)
}
