// Package sheets imports tasks from a public Google Sheets tab through its CSV export.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
)

const (
	defaultBaseURL = "https://docs.google.com"
	maxBodyBytes   = 10 << 20
)

var sheetIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

// Importer fetches sheet tabs and maps rows to tasks.
type Importer struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Importer)

func WithHTTPClient(client *http.Client) Option {
	return func(i *Importer) {
		if client != nil {
			i.httpClient = client
		}
	}
}

// WithBaseURL points the importer at another host (tests).
func WithBaseURL(base string) Option {
	return func(i *Importer) {
		i.baseURL = strings.TrimRight(base, "/")
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewImporter(timeout time.Duration, opts ...Option) *Importer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	i := &Importer{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With("component", "sheets")
	return i
}

// SheetID extracts the document id from a sheet URL or accepts a bare id.
func SheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", importErr("parse url", ErrInvalidURL, "enter a spreadsheet URL")
	}
	if sheetIDPattern.MatchString(raw) {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", importErr("parse url", ErrInvalidURL, "%q is not a URL", raw)
	}
	if u.Hostname() != "docs.google.com" {
		return "", importErr("parse url", ErrInvalidURL, "%s is not a Google Sheets address", u.Hostname())
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "d" && sheetIDPattern.MatchString(parts[i+1]) {
			return parts[i+1], nil
		}
	}
	return "", importErr("parse url", ErrInvalidURL, "could not find a spreadsheet id in the URL")
}

// CSVURL builds the public CSV export address for a tab.
func (i *Importer) CSVURL(sheetID, tab string) string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", tab)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", i.baseURL, url.PathEscape(sheetID), q.Encode())
}

// Import fetches the tab and converts its rows. It returns either every task or an
// error and no tasks.
func (i *Importer) Import(ctx context.Context, sheetURL, tab string) ([]models.Task, error) {
	id, err := SheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	tab = strings.TrimSpace(tab)
	if tab == "" {
		return nil, importErr("parse url", ErrTabNotFound, "enter the name of the sheet tab")
	}
	body, err := i.fetch(ctx, i.CSVURL(id, tab), tab)
	if err != nil {
		return nil, err
	}
	tasks, err := ParseTasks(bytes.NewReader(body), i.now())
	if err != nil {
		return nil, err
	}
	i.logger.Info("sheet imported", "sheet", id, "tab", tab, "tasks", len(tasks))
	return tasks, nil
}

func (i *Importer) fetch(ctx context.Context, endpoint, tab string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, importErr("fetch", err, "build request: %v", err)
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, importErr("fetch", err, "could not reach Google Sheets: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, importErr("fetch", ErrInaccessible, "share the sheet as \"Anyone with the link can view\"")
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return nil, importErr("fetch", ErrTabNotFound, "no tab named %q", tab)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, importErr("fetch", fmt.Errorf("http %d", resp.StatusCode), "Google Sheets answered with HTTP %d", resp.StatusCode)
	}
	if strings.Contains(resp.Request.URL.Host, "accounts.google.com") {
		return nil, importErr("fetch", ErrInaccessible, "the sheet requires signing in")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, importErr("fetch", err, "read response: %v", err)
	}
	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		if bytes.Contains(bytes.ToLower(body), []byte("sign in")) {
			return nil, importErr("fetch", ErrInaccessible, "the sheet requires signing in")
		}
		return nil, importErr("fetch", ErrTabNotFound, "no tab named %q", tab)
	}
	return body, nil
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// ParseTasks maps CSV rows to tasks using the header row.
func ParseTasks(r io.Reader, now time.Time) ([]models.Task, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, importErr("parse", ErrMissingTitleColumn, "the sheet is empty")
	}
	if err != nil {
		return nil, importErr("parse", err, "invalid CSV: %v", err)
	}
	cols := mapColumns(header)
	if cols.title < 0 {
		return nil, importErr("parse", ErrMissingTitleColumn, "add a column named \"Task\" or \"Title\"")
	}

	created := now.UTC()
	var tasks []models.Task
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, importErr("parse", err, "invalid CSV near row %d: %v", line, err)
		}
		task, ok := cols.task(record)
		if !ok {
			continue
		}
		task.CreatedAt = created
		tasks = append(tasks, task)
	}
	return tasks, nil
}
