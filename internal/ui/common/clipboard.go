package common

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard backend exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ClipboardWriter writes text to a clipboard.
type ClipboardWriter func(text string) error

// CopyToClipboard writes text to the system clipboard with a macOS pbcopy fallback.
func CopyToClipboard(text string) error {
	// Prioritize pbcopy on macOS as it is more reliable in various environments.
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("pbcopy")
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	// Fallback to library for other OS or if pbcopy fails.
	return clipboard.WriteAll(text)
}
