package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

type filesState struct {
	cursor int
}

func (m Model) selectedFile() (models.ProjectFile, bool) {
	files := m.state().Active().Files
	if m.files.cursor < 0 || m.files.cursor >= len(files) {
		return models.ProjectFile{}, false
	}
	return files[m.files.cursor], true
}

func (m Model) moveFileCursor(delta int) (Model, tea.Cmd, bool) {
	n := len(m.state().Active().Files)
	m.files.cursor = util.Clamp(m.files.cursor+delta, 0, max(n-1, 0))
	return m, nil, true
}

func handleFileUp(m Model, _ string) (Model, tea.Cmd, bool)   { return m.moveFileCursor(-1) }
func handleFileDown(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveFileCursor(1) }

func handleAttachForm(m Model, _ string) (Model, tea.Cmd, bool) {
	form := newForm(FormAttachFile, "Attach a file",
		newField("Path", "~/Documents/lecture-notes.pdf", "", 500))
	if f, ok := m.selectedFile(); ok && f.NeedsRehydration {
		form.Title = "Supply content for " + f.Name
		form.TargetID = f.ID
	}
	m.modals.Open(form)
	return m, textinput.Blink, true
}

func handleLinkForm(m Model, _ string) (Model, tea.Cmd, bool) {
	m.modals.Open(newForm(FormAddLink, "Add a link",
		newField("Name", "Lecture recording", "", config.MaxTitleLength),
		newField("URL", "https://", "", 500),
	))
	return m, textinput.Blink, true
}

// attachPath reads a local file and stores it, or rehydrates targetID when set.
func (m Model) attachPath(raw, targetID string) (Model, error) {
	path, err := config.ExpandPath(strings.TrimSpace(raw))
	if err != nil {
		return m, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return m, err
	}
	if info.IsDir() {
		return m, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if targetID != "" {
		if err := m.state().RehydrateFile(m.ctx, targetID, data); err != nil {
			return m, err
		}
		m.Message = "Restored " + filepath.Base(path)
		return m, nil
	}
	file, err := m.state().AttachLocalFile(m.ctx, path, "", data)
	if err != nil {
		return m, err
	}
	m.files.cursor = len(m.state().Active().Files) - 1
	m.Message = fmt.Sprintf("Attached %s (%s).", file.Name, formatBytes(file.Size))
	return m, nil
}

func handleRemoveFile(m Model, _ string) (Model, tea.Cmd, bool) {
	f, ok := m.selectedFile()
	if !ok {
		return m, nil, true
	}
	if err := m.state().RemoveFile(m.ctx, f.ID); err != nil {
		return m.alertErr("Could not remove file", err), nil, true
	}
	m.Message = "Removed " + f.Name
	return m.moveFileCursor(0)
}

func handleVerifyFiles(m Model, _ string) (Model, tea.Cmd, bool) {
	rep, err := m.state().VerifyFiles(m.ctx)
	if err != nil {
		return m.alertErr("File check failed", err), nil, true
	}
	if rep.OK() {
		m.Message = fmt.Sprintf("All files present (%d awaiting content).", len(rep.Pending))
		return m, nil, true
	}
	body := fmt.Sprintf("%d files are missing their content and %d stored blobs have no file.",
		len(rep.MissingBlobs), len(rep.OrphanBlobs))
	return m.alert("File store out of sync", body), nil, true
}

func handleAskForm(m Model, _ string) (Model, tea.Cmd, bool) {
	m.modals.Open(newForm(FormAsk, "Ask about your files",
		newField("Question", "Summarize the key formulas", "", config.MaxPromptLength)))
	return m, textinput.Blink, true
}

func (m Model) renderFiles() string {
	files := m.state().Active().Files
	if len(files) == 0 {
		return m.theme.Dim.Render("No files. [a] attach a file  [L] add a link")
	}
	lines := []string{m.theme.Header.Render(fmt.Sprintf("Files (%d)", len(files)))}
	nameWidth := config.TargetTitleWidth
	for i, f := range files {
		var meta string
		switch {
		case f.Source == models.SourceLink:
			meta = "link · " + f.URL
		case f.NeedsRehydration:
			meta = "needs content · [a] to supply"
		default:
			meta = f.MimeType + " · " + formatBytes(f.Size)
		}
		name := ansi.Truncate(f.Name, nameWidth, config.TruncationSuffix)
		line := fmt.Sprintf("%-*s %s", nameWidth, name, m.theme.Dim.Render(meta))
		if f.NeedsRehydration {
			line = fmt.Sprintf("%-*s %s", nameWidth, name, m.theme.Error.Render(meta))
		}
		if i == m.files.cursor {
			line = m.theme.Focused.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
