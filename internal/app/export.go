package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/storage"
)

var bookmarksPage = template.Must(template.New("bookmarks").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"><title>Alien News Feed Bookmarks</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background-color: #1e1e1e; color: #d4d4d4; line-height: 1.6; margin: 0; padding: 2em; }
.container { max-width: 800px; margin: 0 auto; }
h1 { color: #569cd6; border-bottom: 1px solid #444; padding-bottom: 0.5em; }
p { color: #999; }
ul { list-style-type: none; padding: 0; }
li { margin-bottom: 1em; padding: 1em; background-color: #252526; border-left: 3px solid #569cd6; }
a { color: #9cdcfe; text-decoration: none; }
.meta { font-size: 0.8em; color: #888; margin-left: 0.5em; }
</style>
</head>
<body><div class="container">
<h1>Alien News Feed Bookmarks</h1>
<p>Exported on: {{.ExportedAt}}</p>
<ul>
{{- range .Items}}
<li><a href="{{.URL}}">{{.Title}}</a> <span class="meta">({{.Domain}})</span></li>
{{- else}}
<li>No bookmarks found.</li>
{{- end}}
</ul>
</div></body></html>
`))

type bookmarksData struct {
	ExportedAt string
	Items      []news.Item
}

// ExportBookmarks writes bookmarked items as an HTML page into dir and returns its path.
func (s *Service) ExportBookmarks(ctx context.Context, dir string) (string, error) {
	items, err := s.repo.Bookmarks(ctx)
	if err != nil {
		return "", fmt.Errorf("load bookmarks: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}

	now := s.nowFn()
	dest := filepath.Join(dir, "bookmarks-"+now.Format("20060102-150405")+".html")
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create bookmarks file: %w", err)
	}
	data := bookmarksData{ExportedAt: now.Format("2006-01-02 15:04:05"), Items: items}
	if err := bookmarksPage.Execute(f, data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("render bookmarks: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close bookmarks file: %w", err)
	}
	return dest, nil
}

// Backup snapshots the live database into dir and returns the file path.
func (s *Service) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}
	dest := filepath.Join(dir, "backup-"+s.nowFn().Format("20060102-150405")+".db")
	if err := s.repo.Backup(ctx, dest); err != nil {
		return "", err
	}
	return dest, nil
}

var sqliteHeader = []byte("SQLite format 3\x00")

var ErrNotBackup = errors.New("file is not an alienfeed database")

// ImportDatabase replaces dest with the database at src after checking that src
// is a readable item store. The running store must be closed first.
func ImportDatabase(ctx context.Context, src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer in.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(in, header); err != nil || string(header) != string(sqliteHeader) {
		return fmt.Errorf("%w: %s", ErrNotBackup, src)
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind backup: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".import-*.db")
	if err != nil {
		return fmt.Errorf("create temp database: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp database: %w", err)
	}

	if err := verifyStore(ctx, tmpName); err != nil {
		return fmt.Errorf("%w: %v", ErrNotBackup, err)
	}

	// Stale WAL files would be replayed over the imported pages.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dest + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", dest+suffix, err)
		}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

func verifyStore(ctx context.Context, path string) error {
	repo, err := storage.NewRepository(path)
	if err != nil {
		return err
	}
	defer repo.Close()
	_, err = repo.Count(ctx)
	return err
}
