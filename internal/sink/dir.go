package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/tabex/pkg/utils"
)

// DirSink writes deliveries into a directory. Each delivery is written to a
// uuid-named temporary file first and renamed into place, so readers never
// see a partial file. The temporary file is removed on every failure path.
type DirSink struct {
	fm  *utils.FileManager
	log zerolog.Logger
}

// NewDirSink returns a sink writing into dir.
func NewDirSink(dir string, log zerolog.Logger) *DirSink {
	return &DirSink{
		fm:  utils.NewFileManager(dir),
		log: log.With().Str("component", "dir_sink").Logger(),
	}
}

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.fm.OutputDir }

// Deliver writes content to <dir>/<filename>. Path components in filename
// are dropped.
func (s *DirSink) Deliver(ctx context.Context, content []byte, filename, mimeType string) error {
	if filename == "" {
		return ErrEmptyFilename
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fm.EnsureDirectories(); err != nil {
		return err
	}

	target := s.fm.Path(filename)
	tmp := filepath.Join(s.fm.OutputDir, "."+uuid.New().String()+".part")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filename, err)
	}
	committed = true

	s.log.Info().
		Str("file", target).
		Str("mime_type", mimeType).
		Int("bytes", len(content)).
		Msg("delivered export")

	return nil
}
