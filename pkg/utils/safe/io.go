package safe

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it.
// nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs a failure instead of returning it.
// Used for response bodies after the status line has been committed.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// Remove deletes the file at path and logs a failure instead of returning
// it. A path that no longer exists is not a failure.
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Error("Failed to remove", slog.String("path", path), slog.Any("error", err))
	}
}
