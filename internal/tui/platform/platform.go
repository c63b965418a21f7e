package platform

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

func ValidateEntryURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("item has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func OpenURLInBrowser(target string) error {
	name, args := browserCommand(runtime.GOOS, target)
	return exec.Command(name, args...).Run()
}

// OpenPath shows a local directory in the desktop file manager.
func OpenPath(dir string) error {
	if runtime.GOOS == "windows" {
		return exec.Command("explorer", dir).Start()
	}
	name, args := browserCommand(runtime.GOOS, dir)
	return exec.Command(name, args...).Run()
}

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"wl-copy"},
	{"clip"},
}

func selectClipboardCommand(lookPath func(string) (string, error)) ([]string, error) {
	for _, c := range clipboardCommands {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}

func CopyURLToClipboard(text string) error {
	c, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}

func mediaCommand(player, target string) (string, []string, error) {
	fields := strings.Fields(player)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no media player configured")
	}
	return fields[0], append(fields[1:], target), nil
}

// PlayMedia starts the player detached; it is reaped in the background.
func PlayMedia(player, target string) error {
	name, args, err := mediaCommand(player, target)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
