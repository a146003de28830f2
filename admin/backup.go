package admin

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fluentlite/fluentlite"
)

// File permission modes for backup artifacts, matching the live database
// file posture (owner read/write only).
const (
	backupDirPermissions  = 0750
	backupFilePermissions = 0600
)

// Backup copies the live database file to dest, creating destination
// directories as needed.
//
// This is a plain file copy, not a hot backup: if the engine holds an
// open write transaction while the copy runs, the copy may be
// inconsistent. Known limitation; pause writes around Backup when a
// consistent snapshot matters.
func Backup(db *fluentlite.DB, dest string) error {
	src, err := os.Open(db.Path())
	if err != nil {
		return fmt.Errorf("opening database file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), backupDirPermissions); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, backupFilePermissions)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("copying database file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finalizing backup file: %w", err)
	}
	return nil
}
