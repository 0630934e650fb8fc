package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay unchanged before Watch
// converts it, so a file still being copied in is not read half-written.
const DefaultDebounce = 500 * time.Millisecond

// Watch converts input files created or rewritten in dir until ctx is
// cancelled, calling done with each result. Only dir itself is watched, not
// its subdirectories. Files under the output or archive directory are ignored
// so exports written next to their inputs do not loop.
//
// RETURNS:
//   - nil when ctx is cancelled.
//   - An error if the watcher cannot be started.
func (c *Converter) Watch(ctx context.Context, dir, format string, debounce time.Duration, done func(Result)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	c.log.Info().Str("dir", dir).Str("format", format).Msg("watching for input files")

	tick := debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// File path -> last change time
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !c.watchable(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn().Err(err).Msg("watcher error")

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < debounce {
					continue
				}
				delete(pending, path)

				// Gone (archived, renamed) or replaced by a directory.
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}

				profile, _ := c.config.MatchProfile(path)
				done(c.Run(ctx, Job{InputPath: path, Format: format, Profile: profile}))
			}
		}
	}
}

// watchable reports whether path is an input file outside the output and
// archive directories.
func (c *Converter) watchable(path string) bool {
	if !inputExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	return !insideAny(path, []string{c.config.OutputDir, c.archiveDir})
}
