package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	. "voxgram/internal/logging"
)

// TempFile returns a unique path for a scratch audio file. The file is
// not created; the caller writes it and owns its removal. An empty dir
// falls back to the OS temp directory.
func TempFile(dir, ext string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	name := fmt.Sprintf("voxgram-%s.%s", uuid.NewString(), ext)
	return filepath.Join(dir, name), nil
}

// Cleanup removes a scratch file, tolerating paths that were never
// created. Failures are logged, never propagated: cleanup runs on every
// exit path and must not mask the real error.
func Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		L_warn("audio: failed to remove temp file", "path", path, "error", err)
	}
}
