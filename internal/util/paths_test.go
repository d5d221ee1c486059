package util

import (
	"path/filepath"
	"testing"
)

func TestDataDirHonorsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	if got := DataDir("app"); got != filepath.Join(base, "app") {
		t.Fatalf("DataDir = %q", got)
	}
	t.Setenv("XDG_STATE_HOME", base)
	if got := StateDir("app"); got != filepath.Join(base, "app") {
		t.Fatalf("StateDir = %q", got)
	}
}

func TestParseUserDir(t *testing.T) {
	data := "# comment\nXDG_DOCUMENTS_DIR=\"$HOME/Docs\"\nXDG_MUSIC_DIR=\"$HOME/Music\"\n"
	if got := parseUserDir(data, "XDG_DOCUMENTS_DIR"); got != "$HOME/Docs" {
		t.Fatalf("parseUserDir = %q", got)
	}
	if got := parseUserDir(data, "XDG_VIDEOS_DIR"); got != "" {
		t.Fatalf("expected empty for missing key, got %q", got)
	}
}

func TestSafeFileName(t *testing.T) {
	if got := SafeFileName("Linear Algebra: Week 1/2"); got != "Linear_Algebra-_Week_1-2" {
		t.Fatalf("SafeFileName = %q", got)
	}
	if got := SafeFileName("  "); got != "untitled" {
		t.Fatalf("SafeFileName(blank) = %q", got)
	}
}

func TestReportsDirUnderDocuments(t *testing.T) {
	docs := t.TempDir()
	t.Setenv("XDG_DOCUMENTS_DIR", docs)
	if got := ReportsDir("studyboard"); got != filepath.Join(docs, "studyboard", "reports") {
		t.Fatalf("ReportsDir = %q", got)
	}
}
