package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/comments"
)

// PollInterval bounds how stale the fetcher indicators shown in the UI can get.
const PollInterval = 100 * time.Millisecond

type Service interface {
	LoadComments(ctx context.Context, detailLink string) *comments.Thread
	ExportBookmarks(ctx context.Context, dir string) (string, error)
	Backup(ctx context.Context, dir string) (string, error)
}

type CommentsLoadedMsg struct {
	Link   string
	Thread *comments.Thread
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ExportSuccessMsg struct {
	Kind string
	Path string
}

type ExportErrorMsg struct {
	Kind string
	Err  error
}

type PollMsg struct {
	At time.Time
}

type ClearStatusMsg struct {
	ID int
}

func LoadCommentsCmd(service Service, detailLink string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		return CommentsLoadedMsg{Link: detailLink, Thread: service.LoadComments(ctx, detailLink)}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

// PlayMediaCmd hands url to the configured player; playFn must not wait for it to exit.
func PlayMediaCmd(player, url string, playFn func(player, url string) error) tea.Cmd {
	return func() tea.Msg {
		if playFn == nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("media playback unavailable")}
		}
		if err := playFn(player, url); err != nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("play media: %w", err)}
		}
		return OpenURLSuccessMsg{Status: "Playing in " + player, Opened: true}
	}
}

func OpenPathCmd(dir string, openFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn == nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("cannot open %s", dir)}
		}
		if err := openFn(dir); err != nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("open %s: %w", dir, err)}
		}
		return OpenURLSuccessMsg{Status: "Opened " + dir, Opened: true}
	}
}

func ExportBookmarksCmd(service Service, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		path, err := service.ExportBookmarks(ctx, dir)
		if err != nil {
			return ExportErrorMsg{Kind: "bookmarks", Err: err}
		}
		return ExportSuccessMsg{Kind: "bookmarks", Path: path}
	}
}

func BackupCmd(service Service, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		path, err := service.Backup(ctx, dir)
		if err != nil {
			return ExportErrorMsg{Kind: "backup", Err: err}
		}
		return ExportSuccessMsg{Kind: "backup", Path: path}
	}
}

func PollCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return PollMsg{At: t}
	})
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
